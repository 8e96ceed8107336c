package metering

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLedger is an in-memory implementation of EventLedger.
// Suitable for development and testing.
type MemoryLedger struct {
	events []UsageEvent
	mu     sync.Mutex
}

// NewMemoryLedger creates a new in-memory event ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Record(ctx context.Context, event UsageEvent) (uuid.UUID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	l.events = append(l.events, event)
	return event.ID, nil
}

// Events returns a copy of all recorded events, oldest first.
// Test/inspection helper, not part of the EventLedger contract.
func (l *MemoryLedger) Events() []UsageEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]UsageEvent, len(l.events))
	copy(out, l.events)
	return out
}

type summaryKey struct {
	tenantID    uuid.UUID
	feature     Feature
	metric      Metric
	kind        PeriodKind
	periodStart int64
}

// MemorySummaryStore is an in-memory implementation of SummaryStore.
// Upserts are atomic per key under the store mutex, mirroring the
// single-statement upsert of the Postgres implementation.
type MemorySummaryStore struct {
	summaries map[summaryKey]UsageSummary
	mu        sync.RWMutex
}

// NewMemorySummaryStore creates a new in-memory summary store.
func NewMemorySummaryStore() *MemorySummaryStore {
	return &MemorySummaryStore{
		summaries: make(map[summaryKey]UsageSummary),
	}
}

func (s *MemorySummaryStore) key(tenantID uuid.UUID, feature Feature, metric Metric, kind PeriodKind, periodStart time.Time) summaryKey {
	return summaryKey{
		tenantID:    tenantID,
		feature:     feature,
		metric:      metric,
		kind:        kind,
		periodStart: periodStart.UTC().Unix(),
	}
}

func (s *MemorySummaryStore) Upsert(ctx context.Context, summary UsageSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if summary.UpdatedAt.IsZero() {
		summary.UpdatedAt = time.Now().UTC()
	}
	s.summaries[s.key(summary.TenantID, summary.Feature, summary.Metric, summary.PeriodKind, summary.PeriodStart)] = summary
	return nil
}

func (s *MemorySummaryStore) Get(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, kind PeriodKind, periodStart time.Time) (*UsageSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary, exists := s.summaries[s.key(tenantID, feature, metric, kind, periodStart)]
	if !exists {
		return nil, nil
	}
	return &summary, nil
}

func (s *MemorySummaryStore) ListByPeriod(ctx context.Context, tenantID uuid.UUID, kind PeriodKind, periodStart time.Time) ([]UsageSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := periodStart.UTC().Unix()
	var out []UsageSummary
	for k, summary := range s.summaries {
		if k.tenantID == tenantID && k.kind == kind && k.periodStart == start {
			out = append(out, summary)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Feature != out[j].Feature {
			return out[i].Feature < out[j].Feature
		}
		return out[i].Metric < out[j].Metric
	})
	return out, nil
}

// MemoryAlertStore is an in-memory implementation of AlertStore.
type MemoryAlertStore struct {
	alerts []UsageAlert
	mu     sync.RWMutex
}

// NewMemoryAlertStore creates a new in-memory alert store.
func NewMemoryAlertStore() *MemoryAlertStore {
	return &MemoryAlertStore{}
}

func (s *MemoryAlertStore) Create(ctx context.Context, alert UsageAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	s.alerts = append(s.alerts, alert)
	return nil
}

func (s *MemoryAlertStore) ExistsSince(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, kind AlertKind, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.alerts {
		if a.TenantID == tenantID && a.Feature == feature && a.Metric == metric && a.Kind == kind &&
			!a.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryAlertStore) ListByTenant(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]UsageAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []UsageAlert
	for _, a := range s.alerts {
		if a.TenantID == tenantID && !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
