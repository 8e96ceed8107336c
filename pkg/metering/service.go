package metering

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
)

// LimitSource resolves the numeric limit for a "feature.metric" key scoped
// to the tenant's current plan. Implementations return Unlimited (-1) when
// the plan carries no limit for the key, and ErrNoActivePlan (possibly
// wrapped) when the tenant has no active plan to resolve against.
type LimitSource interface {
	GetLimit(ctx context.Context, tenantID uuid.UUID, metricKey string) (int64, error)
}

// LimitSourceFunc adapts a function to the LimitSource interface.
type LimitSourceFunc func(ctx context.Context, tenantID uuid.UUID, metricKey string) (int64, error)

func (f LimitSourceFunc) GetLimit(ctx context.Context, tenantID uuid.UUID, metricKey string) (int64, error) {
	return f(ctx, tenantID, metricKey)
}

// PeriodUsage is one period's worth of summaries, used by analytics.
type PeriodUsage struct {
	PeriodStart time.Time               `json:"period_start"`
	Summaries   map[string]UsageSummary `json:"summaries"` // keyed by "feature.metric"
}

// Service is the usage metering and quota enforcement engine. It counts
// tenant consumption across overlapping time windows, reconciles durable
// summaries, gates further consumption and raises deduplicated threshold
// alerts.
type Service struct {
	counters   CounterStore
	ledger     EventLedger
	summaries  SummaryStore
	alerts     AlertStore
	limits     LimitSource
	dispatcher Dispatcher
	log        *slog.Logger

	now         func() time.Time
	thresholds  []int
	dedupWindow time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used for swallowed Track failures.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDispatcher sets the alert hand-off target. Without one, alerts are
// only persisted.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatcher = d
		}
	}
}

// WithClock overrides the time source. Intended for tests that need to
// cross period boundaries deterministically.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithThresholds overrides the alert thresholds. Values are kept in
// ascending order; non-positive values are dropped.
func WithThresholds(thresholds ...int) Option {
	return func(s *Service) {
		clean := make([]int, 0, len(thresholds))
		for _, t := range thresholds {
			if t > 0 {
				clean = append(clean, t)
			}
		}
		if len(clean) > 0 {
			slices.Sort(clean)
			s.thresholds = clean
		}
	}
}

// WithDedupWindow overrides the trailing alert deduplication window.
func WithDedupWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.dedupWindow = window
		}
	}
}

// New creates the metering service. Counter store, ledger, summary store,
// alert store and limit source are all required.
func New(counters CounterStore, ledger EventLedger, summaries SummaryStore, alerts AlertStore, limits LimitSource, opts ...Option) (*Service, error) {
	switch {
	case counters == nil:
		return nil, ErrCounterStoreRequired
	case ledger == nil:
		return nil, ErrLedgerRequired
	case summaries == nil:
		return nil, ErrSummaryStoreRequired
	case alerts == nil:
		return nil, ErrAlertStoreRequired
	case limits == nil:
		return nil, ErrLimitSourceRequired
	}

	s := &Service{
		counters:    counters,
		ledger:      ledger,
		summaries:   summaries,
		alerts:      alerts,
		limits:      limits,
		log:         slog.Default(),
		now:         func() time.Time { return time.Now().UTC() },
		thresholds:  slices.Clone(DefaultThresholds),
		dedupWindow: DefaultDedupWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Track records one metering call: ledger append, counter adjustment for
// every period kind, summary reconciliation for the monthly and yearly
// windows, and an alert check against the monthly counter. The steps are
// not transactional as a group; a failure aborts the remaining steps and
// already-applied counter mutations are not rolled back. Callers must read
// a false return as "usage may be partially recorded".
func (s *Service) Track(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, amount float64, kind EventKind, eventCtx map[string]any) bool {
	if err := s.track(ctx, tenantID, feature, metric, amount, kind, eventCtx); err != nil {
		s.log.ErrorContext(ctx, "usage tracking failed",
			slog.Any("error", err),
			slog.String("tenant_id", tenantID.String()),
			slog.String("feature", string(feature)),
			slog.String("metric", string(metric)),
			slog.Float64("amount", amount),
			slog.String("kind", string(kind)),
		)
		return false
	}
	return true
}

func (s *Service) track(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, amount float64, kind EventKind, eventCtx map[string]any) error {
	if !kind.Valid() {
		return ErrInvalidEventKind
	}

	now := s.now()

	// Ledger first: on partial failure the audit trail must be at least
	// as complete as the counters.
	if _, err := s.ledger.Record(ctx, UsageEvent{
		TenantID:  tenantID,
		Feature:   feature,
		Metric:    metric,
		Amount:    signedAmount(amount, kind),
		Kind:      kind,
		Context:   eventCtx,
		CreatedAt: now,
	}); err != nil {
		return errors.Join(ErrFailedToRecordEvent, err)
	}

	for _, period := range PeriodKinds {
		if _, err := s.counters.Adjust(ctx, Key(tenantID, feature, metric, period, now), amount, kind); err != nil {
			return err
		}
	}

	for _, period := range []PeriodKind{PeriodMonthly, PeriodYearly} {
		if err := s.reconcile(ctx, tenantID, feature, metric, period, now); err != nil {
			return err
		}
	}

	return s.maybeAlert(ctx, tenantID, feature, metric, now)
}

// GetCurrentUsage returns the counter value for the period of the given
// kind containing "now".
func (s *Service) GetCurrentUsage(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, kind PeriodKind) (float64, error) {
	if !kind.Valid() {
		return 0, ErrInvalidPeriodKind
	}
	return s.counters.Read(ctx, Key(tenantID, feature, metric, kind, s.now()))
}

// GetUsageSummary returns the tenant's durable summaries for the current
// period of the given kind, keyed by "feature.metric". Summaries exist for
// the monthly and yearly kinds only.
func (s *Service) GetUsageSummary(ctx context.Context, tenantID uuid.UUID, kind PeriodKind) (map[string]UsageSummary, error) {
	if !kind.Valid() {
		return nil, ErrInvalidPeriodKind
	}

	rows, err := s.summaries.ListByPeriod(ctx, tenantID, kind, kind.Start(s.now()))
	if err != nil {
		return nil, err
	}

	out := make(map[string]UsageSummary, len(rows))
	for _, row := range rows {
		out[MetricKey(row.Feature, row.Metric)] = row
	}
	return out, nil
}

// CanConsume answers whether the tenant may consume amount more units of
// the metric right now, based on the monthly counter and the plan limit.
// The check is advisory: it reserves nothing, so two concurrent callers can
// both pass and then both Track past the limit. No active plan denies
// (fail-closed); an absent or unlimited limit allows unconditionally.
func (s *Service) CanConsume(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, amount float64) bool {
	limit, err := s.limits.GetLimit(ctx, tenantID, MetricKey(feature, metric))
	if err != nil {
		return false
	}
	if limit == Unlimited {
		return true
	}

	usage, err := s.counters.Read(ctx, Key(tenantID, feature, metric, PeriodMonthly, s.now()))
	if err != nil {
		s.log.ErrorContext(ctx, "quota gate counter read failed",
			slog.Any("error", err),
			slog.String("tenant_id", tenantID.String()),
			slog.String("metric_key", MetricKey(feature, metric)),
		)
		return false
	}

	return usage+amount <= float64(limit)
}

// ResetUsageForPeriod clears every counter of the given period kind for the
// tenant. Summaries and the event ledger are untouched; the reset itself is
// recorded per metric only if the caller Tracks reset events explicitly.
func (s *Service) ResetUsageForPeriod(ctx context.Context, tenantID uuid.UUID, kind PeriodKind) error {
	if !kind.Valid() {
		return ErrInvalidPeriodKind
	}
	return s.counters.ResetPeriod(ctx, tenantID, kind)
}

// GetAnalytics returns per-period summaries for the tenant covering the
// current period and periodsBack-1 periods before it, oldest first.
func (s *Service) GetAnalytics(ctx context.Context, tenantID uuid.UUID, kind PeriodKind, periodsBack int) ([]PeriodUsage, error) {
	if !kind.Valid() {
		return nil, ErrInvalidPeriodKind
	}
	if periodsBack < 1 {
		periodsBack = 1
	}

	now := s.now()
	out := make([]PeriodUsage, 0, periodsBack)
	for i := periodsBack - 1; i >= 0; i-- {
		periodStart := kind.AddPeriods(now, -i)

		rows, err := s.summaries.ListByPeriod(ctx, tenantID, kind, periodStart)
		if err != nil {
			return nil, err
		}

		usage := PeriodUsage{
			PeriodStart: periodStart,
			Summaries:   make(map[string]UsageSummary, len(rows)),
		}
		for _, row := range rows {
			usage.Summaries[MetricKey(row.Feature, row.Metric)] = row
		}
		out = append(out, usage)
	}
	return out, nil
}

// GetAlerts returns the tenant's alerts created at or after since, newest
// first. Read surface for back-office consumers; delivery is external.
func (s *Service) GetAlerts(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]UsageAlert, error) {
	return s.alerts.ListByTenant(ctx, tenantID, since)
}

// reconcile reads the current counter and limit and upserts the durable
// summary row. Read-modify-write by design: the summary is a best-effort
// reporting cache, last writer wins.
func (s *Service) reconcile(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, kind PeriodKind, now time.Time) error {
	key := Key(tenantID, feature, metric, kind, now)

	usage, err := s.counters.Read(ctx, key)
	if err != nil {
		return err
	}

	// Limit resolution failure is indistinguishable from "no limit
	// configured": reconciliation fails open to unlimited.
	limit, err := s.limits.GetLimit(ctx, tenantID, MetricKey(feature, metric))
	if err != nil {
		limit = Unlimited
	}

	var percentage float64
	if limit > 0 {
		percentage = min(usage/float64(limit), 1.0) * 100
	}

	if err := s.summaries.Upsert(ctx, UsageSummary{
		TenantID:    tenantID,
		Feature:     feature,
		Metric:      metric,
		PeriodKind:  kind,
		PeriodStart: key.PeriodStart,
		TotalUsage:  usage,
		LimitValue:  limit,
		Percentage:  percentage,
		Exceeded:    limit > 0 && usage > float64(limit),
		UpdatedAt:   now,
	}); err != nil {
		return errors.Join(ErrFailedToUpsertSummary, err)
	}
	return nil
}

// maybeAlert compares monthly usage against the thresholds and creates a
// deduplicated alert per crossed threshold. The existence check and insert
// are not atomic: two near-simultaneous calls can both observe "no alert"
// and both insert one. The dedup window narrows the race, it does not
// eliminate it.
func (s *Service) maybeAlert(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, now time.Time) error {
	limit, err := s.limits.GetLimit(ctx, tenantID, MetricKey(feature, metric))
	if err != nil || limit == Unlimited || limit == 0 {
		return nil
	}

	usage, err := s.counters.Read(ctx, Key(tenantID, feature, metric, PeriodMonthly, now))
	if err != nil {
		return err
	}

	percentage := usage / float64(limit) * 100

	for _, threshold := range s.thresholds {
		if percentage < float64(threshold) {
			break
		}

		kind := alertKindFor(threshold, usage, limit)

		exists, err := s.alerts.ExistsSince(ctx, tenantID, feature, metric, kind, now.Add(-s.dedupWindow))
		if err != nil {
			return errors.Join(ErrFailedToCreateAlert, err)
		}
		if exists {
			continue
		}

		alert := UsageAlert{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Feature:   feature,
			Metric:    metric,
			Kind:      kind,
			Threshold: threshold,
			Usage:     usage,
			Limit:     limit,
			CreatedAt: now,
			Payload: map[string]any{
				"metric_key": MetricKey(feature, metric),
				"usage":      usage,
				"limit":      limit,
				"percentage": percentage,
			},
		}
		if err := s.alerts.Create(ctx, alert); err != nil {
			return errors.Join(ErrFailedToCreateAlert, err)
		}

		if s.dispatcher != nil {
			if err := s.dispatcher.Dispatch(ctx, alert); err != nil {
				s.log.ErrorContext(ctx, "alert dispatch failed",
					slog.Any("error", err),
					slog.String("tenant_id", tenantID.String()),
					slog.String("metric_key", MetricKey(feature, metric)),
					slog.String("alert_kind", string(kind)),
				)
			}
		}
	}
	return nil
}

// signedAmount stores decrements as negative amounts in the ledger so the
// raw history is replayable without consulting the kind column.
func signedAmount(amount float64, kind EventKind) float64 {
	if kind == EventDecrement {
		return -amount
	}
	return amount
}
