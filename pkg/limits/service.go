package limits

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Service resolves plan-scoped metric limits for tenants. It is the
// concrete Limit Source the metering engine consumes: read-only over a
// plan catalogue loaded once at startup.
type Service struct {
	// Treated as immutable after construction; thread-safety relies on
	// no runtime modification.
	plans    map[string]Plan
	resolver PlanResolver
}

// NewService creates a limit service from the given Source. A nil resolver
// falls back to context-based plan resolution.
func NewService(ctx context.Context, src Source, resolver PlanResolver) (*Service, error) {
	plans, err := src.Load(ctx)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	if plans == nil {
		plans = make(map[string]Plan)
	}

	if err := validatePlans(plans); err != nil {
		return nil, err
	}

	if resolver == nil {
		resolver = PlanIDContextResolver
	}

	return &Service{
		plans:    plans,
		resolver: resolver,
	}, nil
}

// GetLimit returns the limit for a "feature.metric" key under the tenant's
// active plan. An unconfigured key reads as Unlimited; a tenant without a
// resolvable active plan yields ErrNoActivePlan.
func (s *Service) GetLimit(ctx context.Context, tenantID uuid.UUID, metricKey string) (int64, error) {
	plan, err := s.activePlan(ctx, tenantID)
	if err != nil {
		return 0, err
	}
	return plan.Limit(metricKey), nil
}

// GetAllLimits returns every configured limit of the tenant's active plan.
func (s *Service) GetAllLimits(ctx context.Context, tenantID uuid.UUID) ([]LimitInfo, error) {
	plan, err := s.activePlan(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]LimitInfo, 0, len(plan.Limits))
	for metricKey, limit := range plan.Limits {
		out = append(out, LimitInfo{MetricKey: metricKey, Limit: limit})
	}
	return out, nil
}

// VerifyPlan checks if a plan ID is valid.
func (s *Service) VerifyPlan(planID string) error {
	if _, exists := s.plans[planID]; !exists {
		return ErrPlanNotFound
	}
	return nil
}

// Plan returns the plan with the given ID.
func (s *Service) Plan(planID string) (Plan, bool) {
	plan, exists := s.plans[planID]
	return plan, exists
}

func (s *Service) activePlan(ctx context.Context, tenantID uuid.UUID) (Plan, error) {
	planID, err := s.resolver(ctx, tenantID)
	if err != nil {
		return Plan{}, errors.Join(ErrNoActivePlan, err)
	}

	plan, exists := s.plans[planID]
	if !exists {
		return Plan{}, errors.Join(ErrNoActivePlan, ErrPlanNotFound)
	}
	return plan, nil
}
