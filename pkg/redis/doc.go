// Package redis provides helpers for connecting to the Redis instance that
// backs the shared usage counter store.
//
// It wraps the go-redis client with:
//
//   - Connect, which retries the connection using the supplied
//     configuration before giving up.
//   - A health-check helper for liveness / readiness probes.
//
// Configuration is described by the Config struct whose fields are
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
//	counters := metering.NewRedisCounterStore(client)
package redis
