package config

import "errors"

var (
	// ErrParsingConfig wraps env parse failures (missing required vars,
	// unparseable values) and .env load failures.
	ErrParsingConfig = errors.New("failed to parse environment into config")

	// ErrConfigNotLoaded means the cache holds no value for the type after
	// a Load that reported no error; indicates a programming error.
	ErrConfigNotLoaded = errors.New("configuration has not been loaded")

	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("nil pointer passed to config loader")
)
