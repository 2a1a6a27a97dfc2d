package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider shutdowner
	meter          otelmetric.Meter
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	runCounter     otelmetric.Int64Counter
	firedHistogram otelmetric.Int64Histogram
}

type shutdowner interface {
	Shutdown(ctx context.Context) error
}

// New installs the global meter provider (Prometheus exporter) and, when
// tracingEndpoint is set, a Jaeger-backed tracer provider.
func New(serviceName, tracingEndpoint string, sampleRatio float64) *Observability {
	o := &Observability{}

	if tracingEndpoint != "" {
		tp, err := newTracerProvider(serviceName, tracingEndpoint, sampleRatio)
		if err != nil {
			log.Printf("Failed to create Jaeger tracer provider: %v", err)
		} else {
			otel.SetTracerProvider(tp)
			o.tracerProvider = tp
		}
	}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	o.jobCounter, _ = meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	o.runCounter, _ = meter.Int64Counter(
		"inference.runs",
		otelmetric.WithDescription("Number of inference runs by outcome"),
	)
	o.firedHistogram, _ = meter.Int64Histogram(
		"inference.rules_fired",
		otelmetric.WithDescription("Rules fired per inference run"),
	)

	o.meterProvider = provider
	o.meter = meter
	return o
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobCounter == nil {
		return
	}
	o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

// RecordInference records one engine run.
func (o *Observability) RecordInference(ctx context.Context, rulesFired, recommendations int) {
	if o == nil || o.runCounter == nil || o.firedHistogram == nil {
		return
	}
	outcome := "matched"
	if recommendations == 0 {
		outcome = "empty"
	}
	o.runCounter.Add(ctx, 1, otelmetric.WithAttributes(attribute.String("outcome", outcome)))
	o.firedHistogram.Record(ctx, int64(rulesFired))
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
}
