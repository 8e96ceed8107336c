package metering

// Feature names a meterable product area (e.g. "api", "storage").
type Feature string

// Metric names a measured dimension within a feature (e.g. "calls", "mb").
type Metric string

// MetricKey builds the two-part "feature.metric" identifier used by
// plan limit configuration.
func MetricKey(f Feature, m Metric) string {
	return string(f) + "." + string(m)
}

// EventKind classifies how a metering call changes a counter.
type EventKind string

const (
	// EventIncrement adds the amount to the counter.
	EventIncrement EventKind = "increment"
	// EventDecrement subtracts the amount from the counter (floored at zero).
	EventDecrement EventKind = "decrement"
	// EventReset sets the counter to the amount outright. Used for
	// administrative corrections.
	EventReset EventKind = "reset"
)

// Valid reports whether the event kind is one of the known kinds.
func (k EventKind) Valid() bool {
	switch k {
	case EventIncrement, EventDecrement, EventReset:
		return true
	}
	return false
}

// Unlimited is the limit value meaning "no limit configured" (-1).
const Unlimited int64 = -1
