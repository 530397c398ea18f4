// Package telemetry wires OpenTelemetry tracing and metrics for thinware
// servers.
//
// Setup builds tracer and meter providers, with metrics exported in the
// Prometheus format through Providers.PrometheusHTTP. A Collector turns
// adapter events into metrics:
//
//	providers, _ := telemetry.Setup(ctx, telemetry.DefaultConfig(), logger)
//	collector, _ := telemetry.NewCollector(providers.Meter)
//	events := make(chan core.Event, 256)
//	go collector.Run(ctx, events)
//
//	a := adapter.New(target, args,
//	    adapter.WithTracer(providers.Tracer),
//	    adapter.WithEvents(events))
package telemetry
