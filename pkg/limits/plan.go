package limits

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Plan describes a subscription tier and the quota it grants. Limits are
// keyed by two-part "feature.metric" identifiers (e.g. "api.calls",
// "storage.mb"); a value of -1 or an absent key means unlimited.
type Plan struct {
	ID          string
	Name        string
	Description string
	Limits      map[string]int64 // metric key -> limit
	Public      bool             // If true, plan is available for self-registration
	TrialDays   int              // Number of trial days (0 disables trial)
}

// Limit returns the configured limit for a metric key. Absent keys read as
// Unlimited.
func (p Plan) Limit(metricKey string) int64 {
	limit, exists := p.Limits[metricKey]
	if !exists {
		return Unlimited
	}
	return limit
}

// TrialEndsAt returns the timestamp when a trial period ends for this plan.
// If no trial is available, returns startedAt.
func (p Plan) TrialEndsAt(startedAt time.Time) time.Time {
	if p.TrialDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, p.TrialDays).UTC()
}

// IsTrialActive reports whether the tenant is still in its trial window for this plan.
// Uses TrialEndsAt to avoid daylight-saving time issues.
func (p Plan) IsTrialActive(startedAt time.Time) bool {
	if p.TrialDays <= 0 {
		return false
	}
	return time.Now().UTC().Before(p.TrialEndsAt(startedAt))
}

// validatePlans checks plan configurations for validity: limit keys must be
// two-part "feature.metric" identifiers and trial days non-negative.
func validatePlans(plans map[string]Plan) error {
	for planID, plan := range plans {
		if plan.TrialDays < 0 {
			return errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative trial days: %d", planID, plan.TrialDays))
		}
		for metricKey := range plan.Limits {
			feature, metric, ok := strings.Cut(metricKey, ".")
			if !ok || feature == "" || metric == "" {
				return errors.Join(ErrInvalidPlanConfiguration,
					fmt.Errorf("plan %s has malformed limit key %q: want \"feature.metric\"", planID, metricKey))
			}
		}
	}
	return nil
}
