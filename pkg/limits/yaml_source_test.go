package limits_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/meterkit/pkg/limits"
)

func TestYAMLSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads catalogue", func(t *testing.T) {
		t.Parallel()

		src := limits.NewYAMLSource("testdata/plans.yaml")
		plans, err := src.Load(ctx)
		require.NoError(t, err)
		require.Len(t, plans, 3)

		free := plans["free"]
		assert.Equal(t, "free", free.ID)
		assert.Equal(t, "Free", free.Name)
		assert.True(t, free.Public)
		assert.Equal(t, int64(100), free.Limits["api.calls"])
		assert.Equal(t, int64(512), free.Limits["storage.mb"])

		pro := plans["pro"]
		assert.Equal(t, 14, pro.TrialDays)
		assert.Equal(t, limits.Unlimited, pro.Limits["api.calls"])
		assert.Equal(t, int64(25), pro.Limits["seats.used"])

		internal := plans["internal"]
		assert.False(t, internal.Public)
		assert.Empty(t, internal.Limits)
	})

	t.Run("feeds the service directly", func(t *testing.T) {
		t.Parallel()

		svc, err := limits.NewService(ctx, limits.NewYAMLSource("testdata/plans.yaml"), nil)
		require.NoError(t, err)

		planCtx := limits.SetPlanIDToContext(ctx, "free")
		limit, err := svc.GetLimit(planCtx, uuid.Nil, "storage.mb")
		require.NoError(t, err)
		assert.Equal(t, int64(512), limit)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := limits.NewYAMLSource("testdata/missing.yaml").Load(ctx)
		assert.ErrorIs(t, err, limits.ErrFailedToLoadPlans)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()

		_, err := limits.NewYAMLSource("testdata/broken.yaml").Load(ctx)
		assert.ErrorIs(t, err, limits.ErrFailedToLoadPlans)
	})
}
