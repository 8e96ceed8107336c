package metering

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UsageSummary is one durable row per tenant+feature+metric+period holding
// the last-known counter total, the limit snapshot and derived reporting
// fields. It is an eventually-consistent cache of the counter store, not an
// authority: gating decisions always read the counter directly.
type UsageSummary struct {
	TenantID    uuid.UUID  `json:"tenant_id"`
	Feature     Feature    `json:"feature"`
	Metric      Metric     `json:"metric"`
	PeriodKind  PeriodKind `json:"period_kind"`
	PeriodStart time.Time  `json:"period_start"`
	TotalUsage  float64    `json:"total_usage"`
	LimitValue  int64      `json:"limit_value"` // -1 = unlimited
	Percentage  float64    `json:"percentage"`  // 0-100, capped at 100
	Exceeded    bool       `json:"exceeded"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// SummaryStore persists usage summaries keyed by the four-part identity
// (tenant, feature, metric, period kind + instant). Upsert must be a single
// atomic insert-or-update per key; last writer wins under concurrent
// reconcilers.
type SummaryStore interface {
	Upsert(ctx context.Context, summary UsageSummary) error

	// Get returns the summary for one key, or nil if none exists.
	Get(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, kind PeriodKind, periodStart time.Time) (*UsageSummary, error)

	// ListByPeriod returns all summaries of a tenant for one period instant.
	ListByPeriod(ctx context.Context, tenantID uuid.UUID, kind PeriodKind, periodStart time.Time) ([]UsageSummary, error)
}
