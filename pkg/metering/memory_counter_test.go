package metering_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/meterkit/pkg/metering"
)

func monthlyKey(tenantID uuid.UUID) metering.CounterKey {
	return metering.Key(tenantID, "api", "calls", metering.PeriodMonthly, time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC))
}

func TestMemoryCounterStoreAdjust(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("increment accumulates", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryCounterStore()
		key := monthlyKey(uuid.New())

		v, err := store.Adjust(ctx, key, 2.5, metering.EventIncrement)
		require.NoError(t, err)
		assert.InDelta(t, 2.5, v, 1e-9)

		v, err = store.Adjust(ctx, key, 2.5, metering.EventIncrement)
		require.NoError(t, err)
		assert.InDelta(t, 5.0, v, 1e-9)
	})

	t.Run("decrement floors at zero", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryCounterStore()
		key := monthlyKey(uuid.New())

		_, err := store.Adjust(ctx, key, 3, metering.EventIncrement)
		require.NoError(t, err)

		v, err := store.Adjust(ctx, key, 10, metering.EventDecrement)
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("reset sets the value outright", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryCounterStore()
		key := monthlyKey(uuid.New())

		_, err := store.Adjust(ctx, key, 100, metering.EventIncrement)
		require.NoError(t, err)

		v, err := store.Adjust(ctx, key, 7, metering.EventReset)
		require.NoError(t, err)
		assert.InDelta(t, 7.0, v, 1e-9)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryCounterStore()
		_, err := store.Adjust(ctx, monthlyKey(uuid.New()), 1, metering.EventKind("bogus"))
		assert.ErrorIs(t, err, metering.ErrInvalidEventKind)
	})
}

func TestMemoryCounterStoreRead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := metering.NewMemoryCounterStore()

	t.Run("missing key reads as zero", func(t *testing.T) {
		t.Parallel()

		v, err := store.Read(ctx, monthlyKey(uuid.New()))
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("keys are independent per period kind", func(t *testing.T) {
		t.Parallel()

		tenantID := uuid.New()
		at := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)
		daily := metering.Key(tenantID, "api", "calls", metering.PeriodDaily, at)
		monthly := metering.Key(tenantID, "api", "calls", metering.PeriodMonthly, at)

		_, err := store.Adjust(ctx, daily, 4, metering.EventIncrement)
		require.NoError(t, err)

		v, err := store.Read(ctx, monthly)
		require.NoError(t, err)
		assert.Zero(t, v)
	})
}

func TestMemoryCounterStoreConcurrentIncrements(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := metering.NewMemoryCounterStore()
	key := monthlyKey(uuid.New())

	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perGoroutine {
				_, err := store.Adjust(ctx, key, 1, metering.EventIncrement)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	v, err := store.Read(ctx, key)
	require.NoError(t, err)
	assert.InDelta(t, float64(goroutines*perGoroutine), v, 1e-6)
}

func TestMemoryCounterStoreResetPeriod(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := metering.NewMemoryCounterStore()

	tenant1 := uuid.New()
	tenant2 := uuid.New()
	at := time.Date(2025, 6, 18, 10, 0, 0, 0, time.UTC)

	for _, tenantID := range []uuid.UUID{tenant1, tenant2} {
		for _, kind := range metering.PeriodKinds {
			_, err := store.Adjust(ctx, metering.Key(tenantID, "api", "calls", kind, at), 10, metering.EventIncrement)
			require.NoError(t, err)
		}
	}

	require.NoError(t, store.ResetPeriod(ctx, tenant1, metering.PeriodMonthly))

	// tenant1 monthly is gone, the other windows survive
	v, err := store.Read(ctx, metering.Key(tenant1, "api", "calls", metering.PeriodMonthly, at))
	require.NoError(t, err)
	assert.Zero(t, v)

	for _, kind := range []metering.PeriodKind{metering.PeriodDaily, metering.PeriodWeekly, metering.PeriodYearly} {
		v, err := store.Read(ctx, metering.Key(tenant1, "api", "calls", kind, at))
		require.NoError(t, err)
		assert.InDelta(t, 10.0, v, 1e-9, string(kind))
	}

	// tenant2 is untouched entirely
	v, err = store.Read(ctx, metering.Key(tenant2, "api", "calls", metering.PeriodMonthly, at))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, v, 1e-9)

	t.Run("invalid kind is rejected", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, store.ResetPeriod(ctx, tenant1, metering.PeriodKind("hourly")), metering.ErrInvalidPeriodKind)
	})
}
