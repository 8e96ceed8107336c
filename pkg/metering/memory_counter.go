package metering

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memCounter struct {
	value     float64
	expiresAt time.Time
	tenantID  uuid.UUID
	kind      PeriodKind
}

// MemoryCounterStore is an in-memory implementation of CounterStore.
// Suitable for development and testing; production deployments use the
// Redis-backed store so counters are shared across processes.
type MemoryCounterStore struct {
	counters map[string]*memCounter
	mu       sync.Mutex
	now      func() time.Time
}

// NewMemoryCounterStore creates a new in-memory counter store.
func NewMemoryCounterStore() *MemoryCounterStore {
	return &MemoryCounterStore{
		counters: make(map[string]*memCounter),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryCounterStore) keyString(key CounterKey) string {
	return key.TenantID.String() + ":" + string(key.Feature) + ":" + string(key.Metric) +
		":" + string(key.PeriodKind) + ":" + strconv.FormatInt(key.PeriodStart.Unix(), 10)
}

func (s *MemoryCounterStore) Adjust(ctx context.Context, key CounterKey, delta float64, kind EventKind) (float64, error) {
	if !kind.Valid() {
		return 0, ErrInvalidEventKind
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ks := s.keyString(key)

	c, exists := s.counters[ks]
	if !exists || now.After(c.expiresAt) {
		c = &memCounter{tenantID: key.TenantID, kind: key.PeriodKind}
		s.counters[ks] = c
	}

	switch kind {
	case EventIncrement:
		c.value += delta
	case EventDecrement:
		c.value -= delta
	case EventReset:
		c.value = delta
	}
	if c.value < 0 {
		c.value = 0
	}

	// Expiration is re-armed on every write so live counters never vanish
	// mid-period while abandoned ones eventually do.
	c.expiresAt = now.Add(key.PeriodKind.TTL())

	return c.value, nil
}

func (s *MemoryCounterStore) Read(ctx context.Context, key CounterKey) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.counters[s.keyString(key)]
	if !exists || s.now().After(c.expiresAt) {
		return 0, nil
	}
	return c.value, nil
}

func (s *MemoryCounterStore) ResetPeriod(ctx context.Context, tenantID uuid.UUID, kind PeriodKind) error {
	if !kind.Valid() {
		return ErrInvalidPeriodKind
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for ks, c := range s.counters {
		if c.tenantID == tenantID && c.kind == kind {
			delete(s.counters, ks)
		}
	}
	return nil
}
