package metering

import "time"

// Config carries the environment-driven knobs of the engine. Load it with
// the config package and feed it to New via Options().
type Config struct {
	// KeyPrefix namespaces counter keys in the shared counter store.
	KeyPrefix string `env:"METERING_KEY_PREFIX" envDefault:"usage"`
	// AlertDedupWindow is the trailing window within which duplicate
	// alerts are suppressed.
	AlertDedupWindow time.Duration `env:"METERING_ALERT_DEDUP_WINDOW" envDefault:"24h"`
	// AlertThresholds are the usage percentages that raise alerts.
	AlertThresholds []int `env:"METERING_ALERT_THRESHOLDS" envDefault:"80,100" envSeparator:","`
}

// Options translates the config into service options.
func (c Config) Options() []Option {
	opts := make([]Option, 0, 2)
	if c.AlertDedupWindow > 0 {
		opts = append(opts, WithDedupWindow(c.AlertDedupWindow))
	}
	if len(c.AlertThresholds) > 0 {
		opts = append(opts, WithThresholds(c.AlertThresholds...))
	}
	return opts
}
