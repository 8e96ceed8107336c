// Package pg provides PostgreSQL bootstrap helpers for the durable metering
// stores: connection pooling via pgx/v5, schema migrations via goose/v3,
// health checks and common error predicates.
//
// The building blocks are deliberately decoupled:
//
//   - Config: declarative struct populated from environment variables,
//     controlling pool limits, retry cadence and the migrations path.
//   - Connect: opens a *pgxpool.Pool with retry and backoff until the
//     database becomes available.
//   - Migrate: applies goose migrations through the same pool, so the
//     usage_events / usage_summaries / usage_alerts schema is current
//     before the service takes traffic.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
//
//	ledger := metering.NewPgEventLedger(pool)
//
// The error predicates (IsNotFoundError, IsDuplicateKeyError, ...) keep
// store implementations free of driver-specific error codes.
package pg
