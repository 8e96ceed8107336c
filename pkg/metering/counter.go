package metering

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CounterKey addresses a single accumulator in the counter store.
type CounterKey struct {
	TenantID    uuid.UUID
	Feature     Feature
	Metric      Metric
	PeriodKind  PeriodKind
	PeriodStart time.Time
}

// Key returns the instant-addressed key for the period containing t.
func Key(tenantID uuid.UUID, feature Feature, metric Metric, kind PeriodKind, t time.Time) CounterKey {
	return CounterKey{
		TenantID:    tenantID,
		Feature:     feature,
		Metric:      metric,
		PeriodKind:  kind,
		PeriodStart: kind.Start(t),
	}
}

// CounterStore is the shared, low-latency accumulator behind the engine.
// It is the only place true per-key atomicity is guaranteed; everything
// downstream (summaries, alerts) is a best-effort projection of it.
type CounterStore interface {
	// Adjust applies a change to the counter and returns the new value.
	// EventIncrement adds delta, EventDecrement subtracts it (the counter
	// floors at zero), EventReset sets the counter to delta outright.
	// The counter is created lazily on first write, and its expiration is
	// re-armed on every write.
	Adjust(ctx context.Context, key CounterKey, delta float64, kind EventKind) (float64, error)

	// Read returns the current counter value. A missing key reads as 0.
	Read(ctx context.Context, key CounterKey) (float64, error)

	// ResetPeriod removes every counter of the given period kind for the
	// tenant, across all features, metrics and period instants. Other
	// period kinds and other tenants are untouched.
	ResetPeriod(ctx context.Context, tenantID uuid.UUID, kind PeriodKind) error
}
