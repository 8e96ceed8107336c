// Package metering provides usage metering and quota enforcement for
// multi-tenant SaaS applications: it counts tenant consumption of metered
// features across overlapping time windows, compares it against
// plan-defined limits, gates further consumption and raises deduplicated
// threshold alerts.
//
// The engine is built from five collaborators:
//
//   - EventLedger: append-only audit trail of every metering call
//   - CounterStore: shared, low-latency accumulator keyed by tenant,
//     feature, metric and period; the only linearizable piece
//   - SummaryStore: durable, eventually-consistent reporting rows for the
//     monthly and yearly windows
//   - AlertStore: created-once threshold alerts with a 24h dedup window
//   - LimitSource: read-only provider of plan limits for "feature.metric"
//     keys (-1 = unlimited)
//
// Counters are addressed by the canonical start instant of the current
// period, so periods roll over implicitly: the first write after a boundary
// starts a fresh counter and the old one stays readable until it expires.
// No background job is involved.
//
// Basic usage:
//
//	counters := metering.NewMemoryCounterStore() // or NewRedisCounterStore(client)
//	svc, err := metering.New(
//	    counters,
//	    metering.NewMemoryLedger(),
//	    metering.NewMemorySummaryStore(),
//	    metering.NewMemoryAlertStore(),
//	    limitSource,
//	    metering.WithLogger(log),
//	)
//	if err != nil {
//	    // handle error
//	}
//
//	if svc.CanConsume(ctx, tenantID, "api", "calls", 1) {
//	    // perform the action, then record it
//	    svc.Track(ctx, tenantID, "api", "calls", 1, metering.EventIncrement, nil)
//	}
//
// Track is synchronous and inline with the request path. Its steps are not
// transactional as a group: a failure aborts the remaining steps, is logged
// and surfaces as a false return, and already-applied counter mutations are
// not rolled back. The ledger is written first so it is always at least as
// complete as the counters.
//
// CanConsume is advisory. It does not reserve capacity, so two concurrent
// callers can both pass the gate and push the monthly total past the limit;
// hard enforcement must rely on post-hoc alerting.
package metering
