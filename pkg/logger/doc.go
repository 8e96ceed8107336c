// Package logger builds configured slog.Logger instances with context-aware
// attribute injection.
//
// The factory wraps the chosen slog handler in a decorator that runs
// registered ContextExtractor functions on every handled record, so
// request-scoped values (tenant ID, request ID) appear in logs without
// threading them through call sites.
//
// Basic usage:
//
//	log := logger.New(
//	    logger.WithProduction("metering"),
//	    logger.WithContextValue("request_id", requestIDKey{}),
//	)
//	logger.SetAsDefault(log)
//
// The attr helpers (TenantID, MetricKey, Period, Amount, Error) keep
// attribute keys consistent across the module.
package logger
