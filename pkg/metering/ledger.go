package metering

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UsageEvent is the immutable record of a single metering call. Events are
// written before any counter mutation so the ledger is always at least as
// complete as the counters; it is the source of truth for reconstruction.
type UsageEvent struct {
	ID        uuid.UUID      `json:"id"`
	TenantID  uuid.UUID      `json:"tenant_id"`
	Feature   Feature        `json:"feature"`
	Metric    Metric         `json:"metric"`
	Amount    float64        `json:"amount"`
	Kind      EventKind      `json:"kind"`
	Context   map[string]any `json:"context,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// EventLedger is the append-only audit trail of metering calls. Rows are
// never updated or deleted in normal operation, and the engine requires no
// query surface over them.
type EventLedger interface {
	// Record appends one event and returns its ID. It either succeeds or
	// returns a storage error; it never conditionally skips.
	Record(ctx context.Context, event UsageEvent) (uuid.UUID, error)
}
