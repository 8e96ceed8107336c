package metering

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AlertKind classifies how far into its quota a tenant is.
type AlertKind string

const (
	// AlertWarning fires when usage crosses the warning threshold.
	AlertWarning AlertKind = "warning"
	// AlertLimitReached fires when usage hits the limit exactly.
	AlertLimitReached AlertKind = "limit_reached"
	// AlertLimitExceeded fires when usage is strictly over the limit.
	AlertLimitExceeded AlertKind = "limit_exceeded"
)

// DefaultThresholds are the usage percentages (ascending) checked after
// every tracked event.
var DefaultThresholds = []int{80, 100}

// DefaultDedupWindow is the trailing window within which at most one alert
// of a given (tenant, feature, metric, kind) may be created. This is the
// sole guard against alert storms.
const DefaultDedupWindow = 24 * time.Hour

// UsageAlert is a created-once record of a threshold crossing. Delivery is
// the job of an external dispatcher; the Sent flag and payload exist for
// that hand-off.
type UsageAlert struct {
	ID        uuid.UUID      `json:"id"`
	TenantID  uuid.UUID      `json:"tenant_id"`
	Feature   Feature        `json:"feature"`
	Metric    Metric         `json:"metric"`
	Kind      AlertKind      `json:"kind"`
	Threshold int            `json:"threshold"` // percentage that fired (80, 100, ...)
	Usage     float64        `json:"usage"`
	Limit     int64          `json:"limit"`
	Sent      bool           `json:"sent"`
	SentAt    *time.Time     `json:"sent_at,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AlertStore persists usage alerts and answers the dedup existence check.
type AlertStore interface {
	Create(ctx context.Context, alert UsageAlert) error

	// ExistsSince reports whether an alert of the exact kind was created
	// for this key at or after the given instant.
	ExistsSince(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, kind AlertKind, since time.Time) (bool, error)

	// ListByTenant returns the tenant's alerts created at or after since,
	// newest first.
	ListByTenant(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]UsageAlert, error)
}

// Dispatcher hands a freshly created alert to the external notification
// collaborator. Dispatch failures never fail the originating Track call.
type Dispatcher interface {
	Dispatch(ctx context.Context, alert UsageAlert) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, alert UsageAlert) error

func (f DispatcherFunc) Dispatch(ctx context.Context, alert UsageAlert) error {
	return f(ctx, alert)
}

// alertKindFor maps a fired threshold to an alert kind. The mapping is
// monotonic: the 100% threshold resolves to limit_reached at exactly the
// limit and limit_exceeded strictly above it, lower thresholds are
// warnings.
func alertKindFor(threshold int, usage float64, limit int64) AlertKind {
	if threshold >= 100 {
		if usage > float64(limit) {
			return AlertLimitExceeded
		}
		return AlertLimitReached
	}
	return AlertWarning
}
