/*
Package observability turns save pipeline lifecycle hooks into metrics and structured logs.

Hooks from several sources combine with domain.LifecycleHooks.Merge:

	metrics, _ := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := metrics.Hooks().Merge(observability.LogHooks(logger))
*/
package observability
