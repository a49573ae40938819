/*
Package metrics provides Prometheus instrumentation for chunkflow components.

All metrics live under the "chunkflow" namespace with per-component
subsystems (chunkio, retry, codec). Components opt in to metrics through
their NewWithConfigAndMetrics constructors:

	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	engine, err := chunkio.NewWithConfigAndMetrics(chunkio.Config{
		Path: "data.bin",
		Mode: chunkio.Read,
	}, "importer", config)

Each metrics-enabled component should use its own registry to avoid
duplicate-registration conflicts when several instances share a name.

Exposing metrics over HTTP uses the standard promhttp handler:

	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
*/
package metrics
