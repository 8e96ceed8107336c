// Package config provides a type-safe, cached loader for environment-based
// configuration.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: values
// come from optional .env files plus the process environment, are parsed
// into annotated structs, and each configuration type is parsed at most
// once per process.
//
// # Usage
//
//	type RedisConfig struct {
//	    URL            string        `env:"REDIS_URL,required"`
//	    ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg RedisConfig
//	config.MustLoad(&cfg)
//
// Tests that need to reload a type after changing the environment call
// ResetCache first.
package config
