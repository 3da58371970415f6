package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/VRaz104/Business-Reporting-Tool/internal/infrastructure"
)

const (
	TracerName = "salesreport.operation"
)

var noopTracer = noop.NewTracerProvider().Tracer(TracerName)

// OperationTracer provides OpenTelemetry instrumentation for report runs.
// A nil *OperationTracer is valid and records nothing.
type OperationTracer struct {
	tracer          trace.Tracer
	businessMetrics *infrastructure.BusinessMetrics
}

// NewOperationTracer creates a tracer from initialized providers
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	if providers == nil {
		return nil, fmt.Errorf("opentelemetry providers are required")
	}

	businessMetrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}

	tracer := providers.Tracer
	if tracer == nil {
		tracer = noopTracer
	}

	return &OperationTracer{
		tracer:          tracer,
		businessMetrics: businessMetrics,
	}, nil
}

func (t *OperationTracer) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil {
		return noopTracer.Start(ctx, name)
	}
	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// TraceRun creates a span for a whole report run
func (t *OperationTracer) TraceRun(ctx context.Context, state *OperationState) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("run.id", state.RunID),
		attribute.Bool("run.dry_run", state.DryRun),
	}
	if state.Paths != nil {
		attrs = append(attrs,
			attribute.String("run.input", state.Paths.InputFile),
			attribute.String("run.output_dir", state.Paths.OutputDir))
	}
	return t.start(ctx, "report.run", attrs...)
}

// TraceStep creates a span for one step
func (t *OperationTracer) TraceStep(ctx context.Context, runID string, step Step) (context.Context, trace.Span) {
	return t.start(ctx, fmt.Sprintf("report.step.%s", step.ID()),
		attribute.String("run.id", runID),
		attribute.String("step.id", step.ID()),
		attribute.String("step.name", step.Name()),
	)
}

// RecordStepCompletion ends a step span and records step metrics
func (t *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	defer span.End()

	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))
	if err != nil {
		infrastructure.RecordSpanError(span, err)
	} else {
		span.SetStatus(codes.Ok, "step completed")
	}

	if t != nil {
		infrastructure.RecordStepMetrics(ctx, t.businessMetrics, stepID, duration, err == nil)
	}
}

// RecordStepSkipped ends the span of a step that did not run
func (t *OperationTracer) RecordStepSkipped(span trace.Span, reason string) {
	span.SetAttributes(attribute.String("step.skip_reason", reason))
	span.End()
}

// RecordRunCompletion ends the run span and records run metrics
func (t *OperationTracer) RecordRunCompletion(ctx context.Context, span trace.Span, state *OperationState, duration time.Duration, err error) {
	defer span.End()

	span.SetAttributes(
		attribute.Float64("run.duration_seconds", duration.Seconds()),
		attribute.Int("run.artifacts", len(state.GetArtifacts())),
		attribute.Bool("run.committed", state.Committed),
	)
	if state.Table != nil {
		span.SetAttributes(
			attribute.Int("run.records", state.Table.Len()),
			attribute.Int("run.skipped_rows", len(state.Table.Skipped)))
	}

	if err != nil {
		infrastructure.RecordSpanError(span, err)
	} else {
		span.SetStatus(codes.Ok, "run completed")
	}

	if t != nil {
		infrastructure.RecordRunMetrics(ctx, t.businessMetrics, duration, err)
	}
}

// RecordRows records the accepted and skipped row counts of the load
func (t *OperationTracer) RecordRows(ctx context.Context, loaded, skipped int) {
	if t == nil {
		return
	}
	infrastructure.RecordRowMetrics(ctx, t.businessMetrics, loaded, skipped)
}

// RecordArtifact records one committed output file
func (t *OperationTracer) RecordArtifact(ctx context.Context, kind string, size int64) {
	if t == nil {
		return
	}
	infrastructure.RecordArtifactMetrics(ctx, t.businessMetrics, kind, size)
}
