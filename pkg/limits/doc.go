// Package limits provides the plan catalogue and limit resolution for
// metered SaaS quotas. Limits are keyed by two-part "feature.metric"
// identifiers and scoped to a tenant's active plan; -1 or an absent key
// means unlimited.
//
// The package is the read-only Limit Source consumed by the metering
// engine. Plans load once at service construction from a Source (in-memory
// map or YAML catalogue file), and the tenant's plan is resolved per call
// via an injected PlanResolver — by default from the request context.
//
// Basic usage:
//
//	src := limits.NewYAMLSource("config/plans.yaml")
//	svc, err := limits.NewService(ctx, src, subscriptionPlanResolver)
//	if err != nil {
//	    // handle error
//	}
//
//	limit, err := svc.GetLimit(ctx, tenantID, "api.calls")
//	switch {
//	case err != nil:
//	    // tenant has no active plan
//	case limit == limits.Unlimited:
//	    // no quota configured for this metric
//	}
package limits
