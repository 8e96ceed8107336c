package limits

import (
	"context"
	"maps"
	"sync"
)

// Source defines how plans are loaded into the limit service.
type Source interface {
	Load(ctx context.Context) (map[string]Plan, error)
}

// inMemSource implements the Source interface using an in-memory plan map.
type inMemSource struct {
	mu    sync.RWMutex
	plans map[string]Plan
}

// NewInMemSource returns an in-memory Source with a deep copy of the given plans.
func NewInMemSource(plans map[string]Plan) Source {
	return &inMemSource{plans: clonePlans(plans)}
}

// Load returns a copy of all available plans from memory.
// The returned map is not protected by the mutex after return.
func (s *inMemSource) Load(ctx context.Context) (map[string]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePlans(s.plans), nil
}

func clonePlans(plans map[string]Plan) map[string]Plan {
	plansCopy := make(map[string]Plan, len(plans))
	for id, plan := range plans {
		plansCopy[id] = Plan{
			ID:          plan.ID,
			Name:        plan.Name,
			Description: plan.Description,
			Limits:      maps.Clone(plan.Limits),
			Public:      plan.Public,
			TrialDays:   plan.TrialDays,
		}
	}
	return plansCopy
}
