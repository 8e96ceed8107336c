package metering

import "time"

// PeriodKind is one of the overlapping accounting windows a counter is
// tracked under. Each kind is addressed independently; there is no
// rollover job, a new period simply starts at zero the first time it is
// touched after the boundary.
type PeriodKind string

const (
	PeriodDaily   PeriodKind = "daily"
	PeriodWeekly  PeriodKind = "weekly"
	PeriodMonthly PeriodKind = "monthly"
	PeriodYearly  PeriodKind = "yearly"
)

// PeriodKinds lists all period kinds in ascending window length.
// Track adjusts a counter for every kind in this list.
var PeriodKinds = []PeriodKind{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}

// Valid reports whether the period kind is one of the known kinds.
func (k PeriodKind) Valid() bool {
	switch k {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Start returns the canonical start instant of the period containing t.
// All period math is done in UTC: daily periods start at midnight, weekly
// periods on Monday, monthly on the first day of the month, yearly on
// January 1st.
func (k PeriodKind) Start(t time.Time) time.Time {
	t = t.UTC()
	switch k {
	case PeriodDaily:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodWeekly:
		// time.Weekday numbers Sunday as 0; shift so weeks start on Monday.
		offset := (int(t.Weekday()) + 6) % 7
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return day.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYearly:
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// AddPeriods returns the start instant of the period n steps away from the
// period containing t. Negative n walks backwards in time.
func (k PeriodKind) AddPeriods(t time.Time, n int) time.Time {
	start := k.Start(t)
	switch k {
	case PeriodDaily:
		return start.AddDate(0, 0, n)
	case PeriodWeekly:
		return start.AddDate(0, 0, 7*n)
	case PeriodMonthly:
		return start.AddDate(0, n, 0)
	case PeriodYearly:
		return start.AddDate(n, 0, 0)
	}
	return start
}

// TTL returns the counter expiration for this period kind: roughly twice
// the period length, a safety margin against clock skew and delayed reads.
func (k PeriodKind) TTL() time.Duration {
	switch k {
	case PeriodDaily:
		return 48 * time.Hour
	case PeriodWeekly:
		return 14 * 24 * time.Hour
	case PeriodMonthly:
		return 62 * 24 * time.Hour
	case PeriodYearly:
		return 2 * 366 * 24 * time.Hour
	}
	return 48 * time.Hour
}
