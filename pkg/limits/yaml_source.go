package limits

import (
	"context"
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlSource loads the plan catalogue from a YAML file. Plans usually ship
// as deploy-time configuration, so the file is re-read on every Load and a
// service restart (or re-init) picks up catalogue changes.
//
// Expected format:
//
//	plans:
//	  free:
//	    name: Free
//	    limits:
//	      api.calls: 100
//	      storage.mb: 512
//	  pro:
//	    name: Pro
//	    public: true
//	    trial_days: 14
//	    limits:
//	      api.calls: -1
type yamlSource struct {
	path string
}

// NewYAMLSource returns a Source reading the plan catalogue from path.
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

type yamlCatalogue struct {
	Plans map[string]yamlPlan `yaml:"plans"`
}

type yamlPlan struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description"`
	Limits      map[string]int64 `yaml:"limits"`
	Public      bool             `yaml:"public"`
	TrialDays   int              `yaml:"trial_days"`
}

func (s *yamlSource) Load(ctx context.Context) (map[string]Plan, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	var catalogue yamlCatalogue
	if err := yaml.Unmarshal(raw, &catalogue); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	plans := make(map[string]Plan, len(catalogue.Plans))
	for id, p := range catalogue.Plans {
		plans[id] = Plan{
			ID:          id,
			Name:        p.Name,
			Description: p.Description,
			Limits:      p.Limits,
			Public:      p.Public,
			TrialDays:   p.TrialDays,
		}
	}
	return plans, nil
}
