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

// Observability holds the OpenTelemetry instruments for jobs and batch
// passes. A nil or zero value records nothing.
type Observability struct {
	provider *metric.MeterProvider

	jobs        otelmetric.Int64Counter
	jobDuration otelmetric.Float64Histogram

	batchCompanies otelmetric.Int64Counter
	batchFailures  otelmetric.Int64Counter
	batchDuration  otelmetric.Float64Histogram
}

// New registers a Prometheus-backed meter provider as the global provider.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("observability: prometheus exporter unavailable: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName)
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)
	o := &Observability{provider: provider}

	o.jobs, _ = meter.Int64Counter("worker.jobs.processed",
		otelmetric.WithDescription("Zeebe jobs handled, by task type and outcome"))
	o.jobDuration, _ = meter.Float64Histogram("worker.jobs.duration",
		otelmetric.WithDescription("Zeebe job handling time"),
		otelmetric.WithUnit("ms"))

	o.batchCompanies, _ = meter.Int64Counter("batch.companies.processed",
		otelmetric.WithDescription("Companies visited by a batch pass"))
	o.batchFailures, _ = meter.Int64Counter("batch.companies.failed",
		otelmetric.WithDescription("Companies a batch pass could not process"))
	o.batchDuration, _ = meter.Float64Histogram("batch.pass.duration",
		otelmetric.WithDescription("Wall time of a batch pass"),
		otelmetric.WithUnit("s"))

	return o
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o == nil || o.jobs == nil {
		return
	}
	o.jobs.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration) {
	if o == nil || o.jobDuration == nil {
		return
	}
	o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

// RecordBatchPass records one match-all or process-alerts run.
func (o *Observability) RecordBatchPass(ctx context.Context, pass string, companies, failed int, duration time.Duration) {
	if o == nil || o.batchCompanies == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("pass", pass))
	o.batchCompanies.Add(ctx, int64(companies), attrs)
	o.batchFailures.Add(ctx, int64(failed), attrs)
	o.batchDuration.Record(ctx, duration.Seconds(), attrs)
}

func (o *Observability) Shutdown() {
	if o == nil || o.provider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.provider.Shutdown(ctx); err != nil {
		log.Printf("observability: shutdown: %v", err)
	}
}
