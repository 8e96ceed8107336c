package limits

// Limit constants
const (
	// Unlimited represents a metric with no limit (-1)
	Unlimited int64 = -1
)

// LimitInfo contains the configured limit for one metric key.
type LimitInfo struct {
	MetricKey string `json:"metric_key"` // "feature.metric"
	Limit     int64  `json:"limit"`      // -1 = unlimited
}
