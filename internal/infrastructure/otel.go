package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/VRaz104/Business-Reporting-Tool/internal/config"
	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts"
)

const (
	ServiceName = "salesreport"
	MeterName   = "github.com/VRaz104/Business-Reporting-Tool"
)

// OTelConfig holds OpenTelemetry configuration
type OTelConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	TraceExporter  string // "none", "stdout", "file"
	TraceFile      string
	TraceWriter    io.Writer // overrides stdout for the stdout exporter
	SampleRatio    float64
}

// OTelProviders holds the OpenTelemetry providers of one process.
// Metrics are always collected into a private Prometheus registry so a run
// can write them to a textfile; tracing is optional.
type OTelProviders struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *sdkmetric.MeterProvider
	Tracer         trace.Tracer
	Meter          metric.Meter
	Registry       *promclient.Registry
	Logger         *slog.Logger

	traceFile *os.File
}

// OTelConfigFromTelemetry builds an OTelConfig from the loaded configuration
func OTelConfigFromTelemetry(cfg config.TelemetryConfig) *OTelConfig {
	otelCfg := DefaultOTelConfig()
	otelCfg.TraceExporter = cfg.TraceExporter
	otelCfg.TraceFile = cfg.TraceFile
	return otelCfg
}

// DefaultOTelConfig returns a default OpenTelemetry configuration
func DefaultOTelConfig() *OTelConfig {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &OTelConfig{
		ServiceName:    ServiceName,
		ServiceVersion: contracts.Version,
		Environment:    env,
		TraceExporter:  config.TraceExporterNone,
		SampleRatio:    1.0,
	}
}

// InitializeOTel initializes tracing and metrics. Providers are returned to
// the caller rather than installed globally.
func InitializeOTel(cfg *OTelConfig, logger *slog.Logger) (*OTelProviders, error) {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx := context.Background()

	res, err := createResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	providers := &OTelProviders{
		Logger: logger,
	}

	if err := initializeTracing(ctx, cfg, res, providers); err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	if err := initializeMetrics(ctx, cfg, res, providers); err != nil {
		_ = providers.Shutdown(ctx)
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	return providers, nil
}

// createResource creates the OpenTelemetry resource
func createResource(cfg *OTelConfig) (*resource.Resource, error) {
	hostname, _ := os.Hostname()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironmentName(cfg.Environment),
		attribute.String("host.name", hostname),
	), nil
}

// initializeTracing sets up OpenTelemetry tracing
func initializeTracing(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	var (
		exporter sdktrace.SpanExporter
		err      error
	)

	switch cfg.TraceExporter {
	case config.TraceExporterNone, "":
		providers.Tracer = noop.NewTracerProvider().Tracer(MeterName)
		return nil
	case config.TraceExporterStdout:
		writer := cfg.TraceWriter
		if writer == nil {
			writer = os.Stdout
		}
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(writer),
			stdouttrace.WithPrettyPrint(),
		)
	case config.TraceExporterFile:
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		file, openErr := os.OpenFile(cfg.TraceFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if openErr != nil {
			return fmt.Errorf("failed to open trace file: %w", openErr)
		}
		providers.traceFile = file
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(file))
	default:
		return fmt.Errorf("unsupported trace exporter: %s", cfg.TraceExporter)
	}

	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRatio)),
	)

	providers.TracerProvider = tp
	providers.Tracer = tp.Tracer(MeterName, trace.WithInstrumentationVersion(cfg.ServiceVersion))

	providers.Logger.DebugContext(ctx, "Tracing initialized",
		slog.String("exporter", cfg.TraceExporter),
		slog.Float64("sample_ratio", cfg.SampleRatio))

	return nil
}

// initializeMetrics sets up OpenTelemetry metrics backed by a private
// Prometheus registry
func initializeMetrics(ctx context.Context, cfg *OTelConfig, res *resource.Resource, providers *OTelProviders) error {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(
		prometheus.WithRegisterer(registry),
		prometheus.WithoutScopeInfo(),
		prometheus.WithoutTargetInfo(),
	)
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	providers.Registry = registry
	providers.MeterProvider = mp
	providers.Meter = mp.Meter(MeterName, metric.WithInstrumentationVersion(cfg.ServiceVersion))

	providers.Logger.DebugContext(ctx, "Metrics initialized", slog.String("exporter", "prometheus"))
	return nil
}

// WriteMetricsTextfile writes the current metric values in the Prometheus
// text format, for collection by node_exporter's textfile collector.
func (p *OTelProviders) WriteMetricsTextfile(path string) error {
	if p.Registry == nil {
		return fmt.Errorf("metrics are not initialized")
	}
	if err := promclient.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Shutdown flushes and shuts down the OpenTelemetry providers
func (p *OTelProviders) Shutdown(ctx context.Context) error {
	var errs []error

	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}

	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}

	if p.traceFile != nil {
		if err := p.traceFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("trace file close: %w", err))
		}
		p.traceFile = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("opentelemetry shutdown errors: %v", errs)
	}
	return nil
}

// Metric label names. They stay in the classic Prometheus charset so the
// textfile parses with any text-format reader; spans keep dotted keys.
const (
	labelStepID       = "step_id"
	labelArtifactKind = "artifact_kind"
	labelErrorType    = "error_type"
)

// BusinessMetrics holds the report run metrics
type BusinessMetrics struct {
	RunsTotal        metric.Int64Counter
	RunDuration      metric.Float64Histogram
	StepsTotal       metric.Int64Counter
	StepDuration     metric.Float64Histogram
	RowsLoaded       metric.Int64Counter
	RowsSkipped      metric.Int64Counter
	ArtifactsWritten metric.Int64Counter
	ArtifactBytes    metric.Int64Counter
}

// CreateBusinessMetrics registers the report run instruments on meter
func CreateBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	m := &BusinessMetrics{}

	counters := []struct {
		dst        *metric.Int64Counter
		name, help string
		unit       string
	}{
		{&m.RunsTotal, "salesreport_runs_total", "Total number of report runs", ""},
		{&m.StepsTotal, "salesreport_steps_total", "Total number of pipeline steps executed", ""},
		{&m.RowsLoaded, "salesreport_rows_loaded_total", "Total number of input rows accepted", ""},
		{&m.RowsSkipped, "salesreport_rows_skipped_total", "Total number of invalid input rows skipped", ""},
		{&m.ArtifactsWritten, "salesreport_artifacts_written_total", "Total number of output artifacts committed", ""},
		{&m.ArtifactBytes, "salesreport_artifact_bytes", "Total bytes of output artifacts committed", "By"},
	}
	for _, c := range counters {
		opts := []metric.Int64CounterOption{metric.WithDescription(c.help)}
		if c.unit != "" {
			opts = append(opts, metric.WithUnit(c.unit))
		}
		counter, err := meter.Int64Counter(c.name, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", c.name, err)
		}
		*c.dst = counter
	}

	histograms := []struct {
		dst        *metric.Float64Histogram
		name, help string
	}{
		{&m.RunDuration, "salesreport_run_duration_seconds", "Report run duration in seconds"},
		{&m.StepDuration, "salesreport_step_duration_seconds", "Pipeline step duration in seconds"},
	}
	for _, h := range histograms {
		histogram, err := meter.Float64Histogram(h.name, metric.WithDescription(h.help), metric.WithUnit("s"))
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", h.name, err)
		}
		*h.dst = histogram
	}

	return m, nil
}

// TraceIDFromContext extracts trace ID from context for logging correlation
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.IsValid() {
		return spanCtx.TraceID().String()
	}
	return ""
}

// RecordSpanError marks span as failed with err. AppErrors also tag the
// span with their error class.
func RecordSpanError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", errorType(err)))
	span.SetStatus(codes.Error, err.Error())
}

// RecordRunMetrics records the outcome of a whole report run
func RecordRunMetrics(ctx context.Context, metrics *BusinessMetrics, duration time.Duration, err error) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{statusAttr(err == nil)}
	if err != nil {
		attrs = append(attrs, attribute.String(labelErrorType, errorType(err)))
	}

	metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordStepMetrics records metrics for one pipeline step
func RecordStepMetrics(ctx context.Context, metrics *BusinessMetrics, stepID string, duration time.Duration, success bool) {
	if metrics == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(labelStepID, stepID),
		statusAttr(success),
	}

	metrics.StepsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.StepDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordRowMetrics records how many input rows were accepted and skipped
func RecordRowMetrics(ctx context.Context, metrics *BusinessMetrics, loaded, skipped int) {
	if metrics == nil {
		return
	}
	metrics.RowsLoaded.Add(ctx, int64(loaded))
	metrics.RowsSkipped.Add(ctx, int64(skipped))
}

// RecordArtifactMetrics records one committed artifact
func RecordArtifactMetrics(ctx context.Context, metrics *BusinessMetrics, kind string, size int64) {
	if metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(labelArtifactKind, kind))
	metrics.ArtifactsWritten.Add(ctx, 1, attrs)
	metrics.ArtifactBytes.Add(ctx, size, attrs)
}

func statusAttr(success bool) attribute.KeyValue {
	if success {
		return attribute.String("status", "success")
	}
	return attribute.String("status", "failure")
}

// errorType returns the error class used as a metric label
func errorType(err error) string {
	if appErr, ok := errors.AsAppError(err); ok {
		return string(appErr.Type)
	}
	return "UNKNOWN"
}
