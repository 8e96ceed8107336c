package metering

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// MongoEventLedger implements EventLedger on a MongoDB collection. An
// append-only capped or TTL-indexed collection fits the ledger's write
// pattern in deployments where event volume outgrows the relational store.
type MongoEventLedger struct {
	collection *mongo.Collection
}

// NewMongoEventLedger creates a Mongo-backed event ledger writing to the
// given collection.
func NewMongoEventLedger(collection *mongo.Collection) *MongoEventLedger {
	return &MongoEventLedger{collection: collection}
}

func (l *MongoEventLedger) Record(ctx context.Context, event UsageEvent) (uuid.UUID, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	doc := bson.M{
		"_id":        event.ID.String(),
		"tenant_id":  event.TenantID.String(),
		"feature":    string(event.Feature),
		"metric":     string(event.Metric),
		"amount":     event.Amount,
		"kind":       string(event.Kind),
		"created_at": event.CreatedAt,
	}
	if len(event.Context) > 0 {
		doc["context"] = event.Context
	}

	if _, err := l.collection.InsertOne(ctx, doc); err != nil {
		return uuid.Nil, errors.Join(ErrFailedToRecordEvent, err)
	}
	return event.ID, nil
}

var _ EventLedger = (*MongoEventLedger)(nil)
