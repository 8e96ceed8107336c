package metering_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/meterkit/pkg/metering"
)

func TestMemoryLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("record assigns id and timestamp", func(t *testing.T) {
		t.Parallel()

		ledger := metering.NewMemoryLedger()

		id, err := ledger.Record(ctx, metering.UsageEvent{
			TenantID: uuid.New(),
			Feature:  "api",
			Metric:   "calls",
			Amount:   1,
			Kind:     metering.EventIncrement,
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		events := ledger.Events()
		require.Len(t, events, 1)
		assert.Equal(t, id, events[0].ID)
		assert.False(t, events[0].CreatedAt.IsZero())
	})

	t.Run("events are append only and ordered", func(t *testing.T) {
		t.Parallel()

		ledger := metering.NewMemoryLedger()
		tenantID := uuid.New()

		for i := range 3 {
			_, err := ledger.Record(ctx, metering.UsageEvent{
				TenantID: tenantID,
				Feature:  "api",
				Metric:   "calls",
				Amount:   float64(i + 1),
				Kind:     metering.EventIncrement,
			})
			require.NoError(t, err)
		}

		events := ledger.Events()
		require.Len(t, events, 3)
		assert.Equal(t, 1.0, events[0].Amount)
		assert.Equal(t, 3.0, events[2].Amount)
	})
}

func TestMemorySummaryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	periodStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("upsert replaces by identity", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemorySummaryStore()
		tenantID := uuid.New()

		summary := metering.UsageSummary{
			TenantID:    tenantID,
			Feature:     "api",
			Metric:      "calls",
			PeriodKind:  metering.PeriodMonthly,
			PeriodStart: periodStart,
			TotalUsage:  10,
			LimitValue:  100,
			Percentage:  10,
		}
		require.NoError(t, store.Upsert(ctx, summary))

		summary.TotalUsage = 50
		summary.Percentage = 50
		require.NoError(t, store.Upsert(ctx, summary))

		got, err := store.Get(ctx, tenantID, "api", "calls", metering.PeriodMonthly, periodStart)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 50.0, got.TotalUsage)
	})

	t.Run("get returns nil for missing row", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemorySummaryStore()
		got, err := store.Get(ctx, uuid.New(), "api", "calls", metering.PeriodMonthly, periodStart)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list by period is scoped and sorted", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemorySummaryStore()
		tenantID := uuid.New()

		for _, pair := range [][2]string{{"storage", "mb"}, {"api", "calls"}, {"api", "requests"}} {
			require.NoError(t, store.Upsert(ctx, metering.UsageSummary{
				TenantID:    tenantID,
				Feature:     metering.Feature(pair[0]),
				Metric:      metering.Metric(pair[1]),
				PeriodKind:  metering.PeriodMonthly,
				PeriodStart: periodStart,
			}))
		}
		// different period instant must not leak in
		require.NoError(t, store.Upsert(ctx, metering.UsageSummary{
			TenantID:    tenantID,
			Feature:     "api",
			Metric:      "calls",
			PeriodKind:  metering.PeriodMonthly,
			PeriodStart: periodStart.AddDate(0, -1, 0),
		}))

		rows, err := store.ListByPeriod(ctx, tenantID, metering.PeriodMonthly, periodStart)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, metering.Feature("api"), rows[0].Feature)
		assert.Equal(t, metering.Metric("calls"), rows[0].Metric)
		assert.Equal(t, metering.Feature("storage"), rows[2].Feature)
	})
}

func TestMemoryAlertStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("exists since respects the window", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryAlertStore()
		tenantID := uuid.New()
		createdAt := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

		require.NoError(t, store.Create(ctx, metering.UsageAlert{
			TenantID:  tenantID,
			Feature:   "api",
			Metric:    "calls",
			Kind:      metering.AlertWarning,
			CreatedAt: createdAt,
		}))

		exists, err := store.ExistsSince(ctx, tenantID, "api", "calls", metering.AlertWarning, createdAt.Add(-time.Hour))
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = store.ExistsSince(ctx, tenantID, "api", "calls", metering.AlertWarning, createdAt.Add(time.Second))
		require.NoError(t, err)
		assert.False(t, exists)

		// a different kind for the same key does not match
		exists, err = store.ExistsSince(ctx, tenantID, "api", "calls", metering.AlertLimitReached, createdAt.Add(-time.Hour))
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("list by tenant is newest first", func(t *testing.T) {
		t.Parallel()

		store := metering.NewMemoryAlertStore()
		tenantID := uuid.New()
		base := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

		for i := range 3 {
			require.NoError(t, store.Create(ctx, metering.UsageAlert{
				TenantID:  tenantID,
				Feature:   "api",
				Metric:    "calls",
				Kind:      metering.AlertWarning,
				Threshold: 80,
				CreatedAt: base.Add(time.Duration(i) * time.Hour),
			}))
		}
		// other tenants are invisible
		require.NoError(t, store.Create(ctx, metering.UsageAlert{
			TenantID:  uuid.New(),
			Feature:   "api",
			Metric:    "calls",
			Kind:      metering.AlertWarning,
			CreatedAt: base,
		}))

		alerts, err := store.ListByTenant(ctx, tenantID, base)
		require.NoError(t, err)
		require.Len(t, alerts, 3)
		assert.True(t, alerts[0].CreatedAt.After(alerts[1].CreatedAt))
		assert.True(t, alerts[1].CreatedAt.After(alerts[2].CreatedAt))
	})
}
