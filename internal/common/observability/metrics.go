package observability

import (
	"context"
	"errors"
	"time"

	"visual-mapper/internal/common/logger"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Options configures New.
type Options struct {
	ServiceName    string
	TracingEnabled bool
	JaegerEndpoint string
	SampleRatio    float64
	// Registerer receives the prometheus exporter; nil means the default
	// registry.
	Registerer promclient.Registerer
}

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	mapCounter     otelmetric.Int64Counter
	mapDuration    otelmetric.Float64Histogram
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
}

// New sets up the meter provider and, when enabled, Jaeger span export.
// Setup failures are logged and leave the affected part disabled.
func New(opts Options, log logger.Logger) *Observability {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	o := &Observability{}
	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))

	exporterOpts := []prometheus.Option{}
	if opts.Registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err.Error()})
	} else {
		o.meterProvider = metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
		otel.SetMeterProvider(o.meterProvider)
		o.meter = o.meterProvider.Meter(opts.ServiceName)

		o.mapCounter, _ = o.meter.Int64Counter(
			"layout_mappings",
			otelmetric.WithDescription("Number of layouts mapped"),
		)
		o.mapDuration, _ = o.meter.Float64Histogram(
			"layout_mapping_duration",
			otelmetric.WithDescription("Layout mapping duration"),
			otelmetric.WithUnit("ms"),
		)
		o.jobCounter, _ = o.meter.Int64Counter(
			"jobs_processed",
			otelmetric.WithDescription("Number of jobs processed"),
		)
		o.jobDuration, _ = o.meter.Float64Histogram(
			"jobs_duration",
			otelmetric.WithDescription("Job processing duration"),
			otelmetric.WithUnit("ms"),
		)
	}

	if opts.TracingEnabled && opts.JaegerEndpoint != "" {
		spanExporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.JaegerEndpoint)))
		if err != nil {
			log.Warn("Failed to create Jaeger exporter, tracing disabled", map[string]interface{}{"error": err.Error()})
		} else {
			o.tracerProvider = sdktrace.NewTracerProvider(
				sdktrace.WithBatcher(spanExporter),
				sdktrace.WithResource(res),
				sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(opts.SampleRatio))),
			)
			otel.SetTracerProvider(o.tracerProvider)
			log.Info("Tracing enabled", map[string]interface{}{"endpoint": opts.JaegerEndpoint})
		}
	}
	o.tracer = otel.GetTracerProvider().Tracer(opts.ServiceName)
	return o
}

// StartSpan starts a span named name. Without tracing it is a no-op span.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// RecordMapping records one mapped layout.
func (o *Observability) RecordMapping(ctx context.Context, template string, duration time.Duration) {
	if o == nil || o.mapCounter == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("template", template))
	o.mapCounter.Add(ctx, 1, attrs)
	o.mapDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}

func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o != nil && o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, status string) {
	if o != nil && o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

// Shutdown flushes pending spans and stops both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil {
		return nil
	}
	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
