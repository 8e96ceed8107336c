package pg

import "time"

// Config describes the Postgres pool behind the ledger, summary and alert
// stores. Load it with the config package.
type Config struct {
	// ConnectionString in pgx URL or DSN form.
	ConnectionString string `env:"PG_CONN_URL,required"`
	// MaxOpenConns caps the pool size.
	MaxOpenConns int32 `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	// MaxIdleConns is the minimum number of idle connections kept warm.
	MaxIdleConns int32 `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	// HealthCheckPeriod is how often the pool checks idle connections.
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	// MaxConnIdleTime evicts connections idle for longer than this.
	MaxConnIdleTime time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	// MaxConnLifetime bounds how long any connection is reused.
	MaxConnLifetime time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	// RetryAttempts bounds how many times Connect retries the initial ping.
	RetryAttempts int `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the base pause between attempts (linear backoff).
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`

	// MigrationsPath points at the goose migrations directory.
	MigrationsPath string `env:"PG_MIGRATIONS_PATH" envDefault:"migrations"`
	// MigrationsTable is where goose records the applied version.
	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
}
