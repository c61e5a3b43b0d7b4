// Package metrics exposes Prometheus instrumentation for the mirror.
//
// Counters and histograms are registered on the default registry at package
// initialisation. ObserveDiagnostic plugs into proxy loaders and writers:
//
//	l := proxy.NewLoader(doc, ctx, log, metrics.Hook())
//
// Handler serves the registry at /metrics.
package metrics
