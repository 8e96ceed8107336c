package mongo

import "time"

// Config describes the MongoDB deployment holding the document-store event
// ledger. Load it with the config package.
type Config struct {
	// ConnectionURL in mongodb:// or mongodb+srv:// form.
	ConnectionURL string `env:"MONGODB_URL,required"`
	// ConnectTimeout bounds the driver's dial per attempt.
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	// MaxPoolSize caps driver connections; ledger writes are small and
	// frequent, so the default is generous.
	MaxPoolSize uint64 `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	// MinPoolSize keeps this many connections warm.
	MinPoolSize uint64 `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	// MaxConnIdleTime evicts connections idle for longer than this.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	// RetryWrites enables driver-level write retries.
	RetryWrites bool `env:"MONGODB_RETRY_WRITES" envDefault:"true"`
	// RetryReads enables driver-level read retries.
	RetryReads bool `env:"MONGODB_RETRY_READS" envDefault:"true"`
	// RetryAttempts bounds how many times New retries the initial ping.
	RetryAttempts int `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	// RetryInterval is the pause between connection attempts.
	RetryInterval time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}
