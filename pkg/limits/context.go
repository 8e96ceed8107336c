package limits

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type planIDCtxKey struct{}

// SetPlanIDToContext stores the tenant's plan ID in the context, typically
// done by middleware after loading the tenant's subscription.
func SetPlanIDToContext(ctx context.Context, planID string) context.Context {
	return context.WithValue(ctx, planIDCtxKey{}, planID)
}

// GetPlanIDFromContext returns the plan ID previously stored with
// SetPlanIDToContext, if any.
func GetPlanIDFromContext(ctx context.Context) (string, bool) {
	planID, ok := ctx.Value(planIDCtxKey{}).(string)
	return planID, ok
}

// PlanResolver maps a tenant to its active plan ID. Implementations usually
// consult the subscription store; a resolution failure means the tenant has
// no active plan and limit lookups fail with ErrNoActivePlan.
type PlanResolver func(ctx context.Context, tenantID uuid.UUID) (string, error)

// PlanIDContextResolver is the default resolver. It trusts the plan ID
// placed in the context by upstream middleware and resolves nothing itself.
func PlanIDContextResolver(ctx context.Context, _ uuid.UUID) (string, error) {
	planID, ok := GetPlanIDFromContext(ctx)
	if !ok {
		return "", errors.Join(ErrNoActivePlan, ErrPlanIDNotInContext)
	}
	return planID, nil
}
