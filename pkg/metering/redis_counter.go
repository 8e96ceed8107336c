package metering

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// periodStartLayout renders a period start instant inside a counter key.
	// Date precision is enough: every period kind starts at UTC midnight.
	periodStartLayout = "2006-01-02"

	defaultKeyPrefix     = "usage"
	defaultScanBatchSize = 1000
)

// RedisCounterStore implements CounterStore on Redis. INCRBYFLOAT gives the
// per-key atomicity the engine relies on; everything else here is key
// bookkeeping.
type RedisCounterStore struct {
	client        redis.UniversalClient
	prefix        string
	scanBatchSize int64
}

// RedisCounterOption configures a RedisCounterStore.
type RedisCounterOption func(*RedisCounterStore)

// WithKeyPrefix overrides the default "usage" key prefix. Useful when
// several environments share one Redis database.
func WithKeyPrefix(prefix string) RedisCounterOption {
	return func(s *RedisCounterStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithScanBatchSize overrides the SCAN page size used by ResetPeriod.
func WithScanBatchSize(n int64) RedisCounterOption {
	return func(s *RedisCounterStore) {
		if n > 0 {
			s.scanBatchSize = n
		}
	}
}

// NewRedisCounterStore creates a Redis-backed counter store.
func NewRedisCounterStore(client redis.UniversalClient, opts ...RedisCounterOption) *RedisCounterStore {
	s := &RedisCounterStore{
		client:        client,
		prefix:        defaultKeyPrefix,
		scanBatchSize: defaultScanBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisCounterStore) key(key CounterKey) string {
	return s.prefix + ":" + key.TenantID.String() +
		":" + string(key.Feature) + ":" + string(key.Metric) +
		":" + string(key.PeriodKind) + ":" + key.PeriodStart.UTC().Format(periodStartLayout)
}

func (s *RedisCounterStore) Adjust(ctx context.Context, key CounterKey, delta float64, kind EventKind) (float64, error) {
	if !kind.Valid() {
		return 0, ErrInvalidEventKind
	}

	k := s.key(key)
	ttl := key.PeriodKind.TTL()

	var (
		value float64
		err   error
	)

	switch kind {
	case EventIncrement:
		value, err = s.client.IncrByFloat(ctx, k, delta).Result()
	case EventDecrement:
		value, err = s.client.IncrByFloat(ctx, k, -delta).Result()
	case EventReset:
		if delta < 0 {
			delta = 0
		}
		err = s.client.Set(ctx, k, strconv.FormatFloat(delta, 'f', -1, 64), ttl).Err()
		value = delta
	}
	if err != nil {
		return 0, errors.Join(ErrFailedToAdjustCounter, err)
	}

	// Counters floor at zero. The clamp after a decrement is a separate
	// write, so a concurrent increment can be overwritten in the window
	// between the two commands; decrements are rare administrative
	// corrections and the ledger keeps the raw amounts either way.
	if value < 0 {
		if err := s.client.Set(ctx, k, "0", ttl).Err(); err != nil {
			return 0, errors.Join(ErrFailedToAdjustCounter, err)
		}
		value = 0
	}

	// Re-arm expiration on every write so active counters survive the
	// whole period while abandoned ones age out.
	if kind != EventReset {
		if err := s.client.Expire(ctx, k, ttl).Err(); err != nil {
			return 0, errors.Join(ErrFailedToAdjustCounter, err)
		}
	}

	return value, nil
}

func (s *RedisCounterStore) Read(ctx context.Context, key CounterKey) (float64, error) {
	val, err := s.client.Get(ctx, s.key(key)).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Join(ErrFailedToReadCounter, err)
	}
	return val, nil
}

func (s *RedisCounterStore) ResetPeriod(ctx context.Context, tenantID uuid.UUID, kind PeriodKind) error {
	if !kind.Valid() {
		return ErrInvalidPeriodKind
	}

	// prefix:tenant:feature:metric:kind:period-start
	pattern := s.prefix + ":" + tenantID.String() + ":*:*:" + string(kind) + ":*"

	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, pattern, s.scanBatchSize).Result()
		if err != nil {
			return errors.Join(ErrFailedToAdjustCounter, err)
		}

		if len(batch) > 0 {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return errors.Join(ErrFailedToAdjustCounter, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

// Healthcheck returns a health check function for the underlying Redis
// connection, suitable for readiness probes.
func (s *RedisCounterStore) Healthcheck() func(context.Context) error {
	return func(ctx context.Context) error {
		return s.client.Ping(ctx).Err()
	}
}

var (
	_ CounterStore = (*RedisCounterStore)(nil)
	_ CounterStore = (*MemoryCounterStore)(nil)
)
