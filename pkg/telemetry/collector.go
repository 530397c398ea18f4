package telemetry

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jdziat/thinware/pkg/core"
)

// Metric names recorded by Collector.
const (
	MetricInvocations = "thinware_invocations_total"
	MetricDuration    = "thinware_invocation_duration_seconds"
	MetricFailures    = "thinware_invocation_failures_total"
	MetricInFlight    = "thinware_invocations_in_flight"
)

// Collector turns adapter events into metrics.
type Collector struct {
	invocations metric.Int64Counter
	duration    metric.Float64Histogram
	failures    metric.Int64Counter
	inFlight    metric.Int64UpDownCounter

	// ready is closed once Run is consuming events.
	ready chan struct{}
}

// NewCollector creates the collector's instruments on meter.
func NewCollector(meter metric.Meter) (*Collector, error) {
	invocations, err := meter.Int64Counter(
		MetricInvocations,
		metric.WithDescription("Total number of finished invocations"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		MetricDuration,
		metric.WithDescription("Invocation duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		MetricFailures,
		metric.WithDescription("Total number of failed invocations by status"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		MetricInFlight,
		metric.WithDescription("Number of invocations in progress"),
	)
	if err != nil {
		return nil, err
	}

	return &Collector{
		invocations: invocations,
		duration:    duration,
		failures:    failures,
		inFlight:    inFlight,
		ready:       make(chan struct{}),
	}, nil
}

// WaitReady blocks until Run is consuming events.
func (c *Collector) WaitReady() {
	<-c.ready
}

// Run records every event received on events.
// Blocks until ctx is cancelled or events is closed.
func (c *Collector) Run(ctx context.Context, events <-chan core.Event) {
	close(c.ready)
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			c.Record(ctx, e)
		}
	}
}

// Record records a single event.
func (c *Collector) Record(ctx context.Context, e core.Event) {
	switch ev := e.(type) {
	case *core.InvocationStarted:
		c.inFlight.Add(ctx, 1, metric.WithAttributes(attribute.String("target", ev.Target)))
	case *core.InvocationSucceeded:
		attrs := metric.WithAttributes(
			attribute.String("target", ev.Target),
			attribute.String("outcome", string(core.OutcomeSucceeded)),
			attribute.Bool("chained", ev.Chained),
		)
		c.finish(ctx, ev.Target)
		c.invocations.Add(ctx, 1, attrs)
		c.duration.Record(ctx, ev.Duration.Seconds(), attrs)
	case *core.InvocationFailed:
		attrs := metric.WithAttributes(
			attribute.String("target", ev.Target),
			attribute.String("outcome", string(core.OutcomeFailed)),
			attribute.Bool("chained", ev.Chained),
		)
		c.finish(ctx, ev.Target)
		c.invocations.Add(ctx, 1, attrs)
		c.duration.Record(ctx, ev.Duration.Seconds(), attrs)
		c.failures.Add(ctx, 1, metric.WithAttributes(
			attribute.String("target", ev.Target),
			attribute.String("status", strconv.Itoa(ev.Status)),
		))
	}
}

func (c *Collector) finish(ctx context.Context, target string) {
	c.inFlight.Add(ctx, -1, metric.WithAttributes(attribute.String("target", target)))
}
