package metering

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgEventLedger implements EventLedger on PostgreSQL.
type PgEventLedger struct {
	pool *pgxpool.Pool
}

// NewPgEventLedger creates a Postgres-backed event ledger.
func NewPgEventLedger(pool *pgxpool.Pool) *PgEventLedger {
	return &PgEventLedger{pool: pool}
}

func (l *PgEventLedger) Record(ctx context.Context, event UsageEvent) (uuid.UUID, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	_, err := l.pool.Exec(ctx, `
		INSERT INTO usage_events (id, tenant_id, feature, metric, amount, kind, context, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.TenantID, string(event.Feature), string(event.Metric),
		event.Amount, string(event.Kind), event.Context, event.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, errors.Join(ErrFailedToRecordEvent, err)
	}
	return event.ID, nil
}

// PgSummaryStore implements SummaryStore on PostgreSQL. Upsert is a single
// INSERT .. ON CONFLICT DO UPDATE statement, so concurrent reconcilers can
// never tear a row; the later write simply wins.
type PgSummaryStore struct {
	pool *pgxpool.Pool
}

// NewPgSummaryStore creates a Postgres-backed summary store.
func NewPgSummaryStore(pool *pgxpool.Pool) *PgSummaryStore {
	return &PgSummaryStore{pool: pool}
}

func (s *PgSummaryStore) Upsert(ctx context.Context, summary UsageSummary) error {
	if summary.UpdatedAt.IsZero() {
		summary.UpdatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO usage_summaries
			(tenant_id, feature, metric, period_kind, period_start, total_usage, limit_value, percentage, exceeded, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (tenant_id, feature, metric, period_kind, period_start) DO UPDATE SET
			total_usage = EXCLUDED.total_usage,
			limit_value = EXCLUDED.limit_value,
			percentage  = EXCLUDED.percentage,
			exceeded    = EXCLUDED.exceeded,
			updated_at  = EXCLUDED.updated_at`,
		summary.TenantID, string(summary.Feature), string(summary.Metric),
		string(summary.PeriodKind), summary.PeriodStart.UTC(),
		summary.TotalUsage, summary.LimitValue, summary.Percentage,
		summary.Exceeded, summary.UpdatedAt,
	)
	if err != nil {
		return errors.Join(ErrFailedToUpsertSummary, err)
	}
	return nil
}

func (s *PgSummaryStore) Get(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, kind PeriodKind, periodStart time.Time) (*UsageSummary, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT tenant_id, feature, metric, period_kind, period_start, total_usage, limit_value, percentage, exceeded, updated_at
		FROM usage_summaries
		WHERE tenant_id = $1 AND feature = $2 AND metric = $3 AND period_kind = $4 AND period_start = $5`,
		tenantID, string(feature), string(metric), string(kind), periodStart.UTC(),
	)

	var summary UsageSummary
	if err := row.Scan(
		&summary.TenantID, &summary.Feature, &summary.Metric, &summary.PeriodKind,
		&summary.PeriodStart, &summary.TotalUsage, &summary.LimitValue,
		&summary.Percentage, &summary.Exceeded, &summary.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &summary, nil
}

func (s *PgSummaryStore) ListByPeriod(ctx context.Context, tenantID uuid.UUID, kind PeriodKind, periodStart time.Time) ([]UsageSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT tenant_id, feature, metric, period_kind, period_start, total_usage, limit_value, percentage, exceeded, updated_at
		FROM usage_summaries
		WHERE tenant_id = $1 AND period_kind = $2 AND period_start = $3
		ORDER BY feature, metric`,
		tenantID, string(kind), periodStart.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UsageSummary
	for rows.Next() {
		var summary UsageSummary
		if err := rows.Scan(
			&summary.TenantID, &summary.Feature, &summary.Metric, &summary.PeriodKind,
			&summary.PeriodStart, &summary.TotalUsage, &summary.LimitValue,
			&summary.Percentage, &summary.Exceeded, &summary.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

// PgAlertStore implements AlertStore on PostgreSQL.
type PgAlertStore struct {
	pool *pgxpool.Pool
}

// NewPgAlertStore creates a Postgres-backed alert store.
func NewPgAlertStore(pool *pgxpool.Pool) *PgAlertStore {
	return &PgAlertStore{pool: pool}
}

func (s *PgAlertStore) Create(ctx context.Context, alert UsageAlert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO usage_alerts
			(id, tenant_id, feature, metric, kind, threshold, usage, limit_value, sent, sent_at, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		alert.ID, alert.TenantID, string(alert.Feature), string(alert.Metric),
		string(alert.Kind), alert.Threshold, alert.Usage, alert.Limit,
		alert.Sent, alert.SentAt, alert.Payload, alert.CreatedAt,
	)
	if err != nil {
		return errors.Join(ErrFailedToCreateAlert, err)
	}
	return nil
}

func (s *PgAlertStore) ExistsSince(ctx context.Context, tenantID uuid.UUID, feature Feature, metric Metric, kind AlertKind, since time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM usage_alerts
			WHERE tenant_id = $1 AND feature = $2 AND metric = $3 AND kind = $4 AND created_at >= $5
		)`,
		tenantID, string(feature), string(metric), string(kind), since.UTC(),
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (s *PgAlertStore) ListByTenant(ctx context.Context, tenantID uuid.UUID, since time.Time) ([]UsageAlert, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, feature, metric, kind, threshold, usage, limit_value, sent, sent_at, payload, created_at
		FROM usage_alerts
		WHERE tenant_id = $1 AND created_at >= $2
		ORDER BY created_at DESC`,
		tenantID, since.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []UsageAlert
	for rows.Next() {
		var alert UsageAlert
		if err := rows.Scan(
			&alert.ID, &alert.TenantID, &alert.Feature, &alert.Metric, &alert.Kind,
			&alert.Threshold, &alert.Usage, &alert.Limit, &alert.Sent, &alert.SentAt,
			&alert.Payload, &alert.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, alert)
	}
	return out, rows.Err()
}

var (
	_ EventLedger  = (*PgEventLedger)(nil)
	_ SummaryStore = (*PgSummaryStore)(nil)
	_ AlertStore   = (*PgAlertStore)(nil)
)
