package operations

import (
	"context"
	"log/slog"
	"time"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
)

// run_id is not logged here: the handler adds it from the context.

// logRunStart logs the start of a report run
func (m *Manager) logRunStart(ctx context.Context, state *OperationState, stepCount int) {
	attrs := []any{
		slog.Bool("dry_run", state.DryRun),
		slog.Int("step_count", stepCount),
	}
	if state.Paths != nil {
		attrs = append(attrs,
			slog.String("input", state.Paths.InputFile),
			slog.String("output_dir", state.Paths.OutputDir))
	}
	m.logger.InfoContext(ctx, "run_start", attrs...)
}

// logRunComplete logs the completion of a report run
func (m *Manager) logRunComplete(ctx context.Context, state *OperationState) {
	m.logger.InfoContext(ctx, "run_complete",
		slog.String("status", string(state.Status)),
		slog.Bool("committed", state.Committed),
		slog.Duration("duration", state.Duration()))
}

// logRunError logs a failed report run
func (m *Manager) logRunError(ctx context.Context, state *OperationState, err error) {
	m.logger.ErrorContext(ctx, "run_error",
		slog.Int("exit_code", errors.ExitCode(err)),
		slog.Duration("duration", state.Duration()),
		slog.String("error", err.Error()))
}

// logStepStart logs the start of a step
func (m *Manager) logStepStart(ctx context.Context, stepID string) {
	m.logger.InfoContext(ctx, "step_start",
		slog.String("step", stepID))
}

// logStepComplete logs the completion of a step
func (m *Manager) logStepComplete(ctx context.Context, stepID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "step_complete",
		slog.String("step", stepID),
		slog.Duration("duration", duration))
}

// logStepError logs a step failure with the error's class and context
func (m *Manager) logStepError(ctx context.Context, stepID string, err error) {
	attrs := []any{slog.String("step", stepID)}
	if appErr, ok := errors.AsAppError(err); ok {
		attrs = append(attrs, appErr.LogAttrs()...)
	} else {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	m.logger.ErrorContext(ctx, "step_error", attrs...)
}

// logStepSkipped logs a step that did not run
func (m *Manager) logStepSkipped(ctx context.Context, stepID, reason string) {
	m.logger.InfoContext(ctx, "step_skipped",
		slog.String("step", stepID),
		slog.String("reason", reason))
}
