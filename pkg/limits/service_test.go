package limits_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/meterkit/pkg/limits"
)

func testPlans() map[string]limits.Plan {
	return map[string]limits.Plan{
		"free": {
			ID:   "free",
			Name: "Free",
			Limits: map[string]int64{
				"api.calls":  100,
				"storage.mb": 512,
			},
			Public: true,
		},
		"pro": {
			ID:   "pro",
			Name: "Pro",
			Limits: map[string]int64{
				"api.calls": limits.Unlimited,
			},
			Public:    true,
			TrialDays: 14,
		},
	}
}

func TestNewService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid catalogue", func(t *testing.T) {
		t.Parallel()

		svc, err := limits.NewService(ctx, limits.NewInMemSource(testPlans()), nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("malformed metric key", func(t *testing.T) {
		t.Parallel()

		plans := map[string]limits.Plan{
			"broken": {ID: "broken", Limits: map[string]int64{"apicalls": 100}},
		}
		_, err := limits.NewService(ctx, limits.NewInMemSource(plans), nil)
		assert.ErrorIs(t, err, limits.ErrInvalidPlanConfiguration)
	})

	t.Run("empty key parts", func(t *testing.T) {
		t.Parallel()

		plans := map[string]limits.Plan{
			"broken": {ID: "broken", Limits: map[string]int64{".calls": 100}},
		}
		_, err := limits.NewService(ctx, limits.NewInMemSource(plans), nil)
		assert.ErrorIs(t, err, limits.ErrInvalidPlanConfiguration)
	})

	t.Run("negative trial days", func(t *testing.T) {
		t.Parallel()

		plans := map[string]limits.Plan{
			"broken": {ID: "broken", TrialDays: -1},
		}
		_, err := limits.NewService(ctx, limits.NewInMemSource(plans), nil)
		assert.ErrorIs(t, err, limits.ErrInvalidPlanConfiguration)
	})

	t.Run("source failure", func(t *testing.T) {
		t.Parallel()

		_, err := limits.NewService(ctx, limits.NewYAMLSource("testdata/nonexistent.yaml"), nil)
		assert.ErrorIs(t, err, limits.ErrFailedToLoadPlans)
	})
}

func TestServiceGetLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tenantID := uuid.New()

	staticResolver := func(planID string) limits.PlanResolver {
		return func(ctx context.Context, _ uuid.UUID) (string, error) {
			return planID, nil
		}
	}

	t.Run("configured limit", func(t *testing.T) {
		t.Parallel()

		svc, err := limits.NewService(ctx, limits.NewInMemSource(testPlans()), staticResolver("free"))
		require.NoError(t, err)

		limit, err := svc.GetLimit(ctx, tenantID, "api.calls")
		require.NoError(t, err)
		assert.Equal(t, int64(100), limit)
	})

	t.Run("unconfigured key is unlimited", func(t *testing.T) {
		t.Parallel()

		svc, err := limits.NewService(ctx, limits.NewInMemSource(testPlans()), staticResolver("free"))
		require.NoError(t, err)

		limit, err := svc.GetLimit(ctx, tenantID, "reports.generated")
		require.NoError(t, err)
		assert.Equal(t, limits.Unlimited, limit)
	})

	t.Run("unknown plan", func(t *testing.T) {
		t.Parallel()

		svc, err := limits.NewService(ctx, limits.NewInMemSource(testPlans()), staticResolver("enterprise"))
		require.NoError(t, err)

		_, err = svc.GetLimit(ctx, tenantID, "api.calls")
		assert.ErrorIs(t, err, limits.ErrNoActivePlan)
		assert.ErrorIs(t, err, limits.ErrPlanNotFound)
	})

	t.Run("resolver failure wraps no active plan", func(t *testing.T) {
		t.Parallel()

		resolverErr := errors.New("subscription store down")
		failing := func(ctx context.Context, _ uuid.UUID) (string, error) {
			return "", resolverErr
		}

		svc, err := limits.NewService(ctx, limits.NewInMemSource(testPlans()), failing)
		require.NoError(t, err)

		_, err = svc.GetLimit(ctx, tenantID, "api.calls")
		assert.ErrorIs(t, err, limits.ErrNoActivePlan)
		assert.ErrorIs(t, err, resolverErr)
	})

	t.Run("context resolver by default", func(t *testing.T) {
		t.Parallel()

		svc, err := limits.NewService(ctx, limits.NewInMemSource(testPlans()), nil)
		require.NoError(t, err)

		// no plan ID in context
		_, err = svc.GetLimit(ctx, tenantID, "api.calls")
		assert.ErrorIs(t, err, limits.ErrNoActivePlan)
		assert.ErrorIs(t, err, limits.ErrPlanIDNotInContext)

		// plan ID set in context
		planCtx := limits.SetPlanIDToContext(ctx, "pro")
		limit, err := svc.GetLimit(planCtx, tenantID, "api.calls")
		require.NoError(t, err)
		assert.Equal(t, limits.Unlimited, limit)
	})
}

func TestServiceGetAllLimits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, err := limits.NewService(ctx, limits.NewInMemSource(testPlans()), func(ctx context.Context, _ uuid.UUID) (string, error) {
		return "free", nil
	})
	require.NoError(t, err)

	infos, err := svc.GetAllLimits(ctx, uuid.New())
	require.NoError(t, err)
	require.Len(t, infos, 2)

	byKey := make(map[string]int64, len(infos))
	for _, info := range infos {
		byKey[info.MetricKey] = info.Limit
	}
	assert.Equal(t, int64(100), byKey["api.calls"])
	assert.Equal(t, int64(512), byKey["storage.mb"])
}

func TestServicePlanLookup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, err := limits.NewService(ctx, limits.NewInMemSource(testPlans()), nil)
	require.NoError(t, err)

	t.Run("verify known plan", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, svc.VerifyPlan("pro"))
	})

	t.Run("verify unknown plan", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, svc.VerifyPlan("enterprise"), limits.ErrPlanNotFound)
	})

	t.Run("plan by id", func(t *testing.T) {
		t.Parallel()

		plan, ok := svc.Plan("pro")
		require.True(t, ok)
		assert.Equal(t, "Pro", plan.Name)
		assert.Equal(t, 14, plan.TrialDays)

		_, ok = svc.Plan("enterprise")
		assert.False(t, ok)
	})
}

func TestInMemSourceIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	plans := testPlans()
	src := limits.NewInMemSource(plans)

	// mutating the caller's map after construction must not leak in
	plans["free"].Limits["api.calls"] = 999999

	loaded, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), loaded["free"].Limits["api.calls"])

	// mutating a loaded copy must not affect subsequent loads
	loaded["free"].Limits["api.calls"] = 1

	reloaded, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(100), reloaded["free"].Limits["api.calls"])
}
