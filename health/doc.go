// Package health reports the client's own fitness: circuit breaker states
// and credential freshness, aggregated into a single status.
//
// Checkers are cheap in-process inspections, not network probes. The
// aggregator runs them in parallel under one deadline and folds the results
// into the worst observed status.
//
// Example:
//
//	agg := health.NewAggregator()
//	agg.Register("breakers", health.NewBreakerChecker(client.Breakers()))
//	agg.Register("credential", health.NewCredentialChecker(client.Store(), 5*time.Minute))
//
//	results := agg.CheckAll(ctx)
//	status := health.OverallStatus(results)
package health
