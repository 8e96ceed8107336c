package limits

import "errors"

// Domain errors for limits operations
var (
	// Plan errors
	ErrPlanNotFound             = errors.New("limits.errors.plan_not_found")
	ErrPlanIDNotInContext       = errors.New("limits.errors.plan_id_not_in_context")
	ErrNoActivePlan             = errors.New("limits.errors.no_active_plan")
	ErrInvalidPlanConfiguration = errors.New("limits.errors.invalid_plan_configuration")

	// System errors
	ErrFailedToLoadPlans = errors.New("limits.errors.failed_to_load_plans")
)
