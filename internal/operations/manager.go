package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/internal/infrastructure"
)

// Manager executes the steps of a report run in order
type Manager struct {
	registry *Registry
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a manager. tracer may be nil.
func NewManager(logger *slog.Logger, tracer *OperationTracer) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		registry: NewRegistry(),
		tracer:   tracer,
		logger:   logger.With(slog.String("component", "operations")),
	}
}

// RegisterStep appends a step to the pipeline
func (m *Manager) RegisterStep(step Step) error {
	return m.registry.Register(step)
}

// GetRegistry returns the registry of the pipeline's steps
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs every registered step against state. The first failing step
// stops the run; later steps are marked skipped. The staging directory is
// removed before Execute returns, whatever the outcome.
func (m *Manager) Execute(ctx context.Context, state *OperationState) (*RunResult, error) {
	steps := m.registry.List()
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	if infrastructure.GetRunID(ctx) != state.RunID {
		ctx = infrastructure.WithRunID(ctx, state.RunID)
	}
	ctx, span := m.tracer.TraceRun(ctx, state)
	state.Start()
	m.logRunStart(ctx, state, len(steps))

	err := m.executeSequential(ctx, state, steps)
	removeStaging(state, m.logger)

	if err != nil {
		state.Fail(err)
		m.logRunError(ctx, state, err)
	} else {
		state.Complete()
		m.logRunComplete(ctx, state)
	}
	m.tracer.RecordRunCompletion(ctx, span, state, state.Duration(), err)

	return m.createResult(state), err
}

func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		stepState := state.GetStep(step.ID())

		if state.DryRun && step.WritesOutput() {
			m.skipStep(ctx, state, step, "dry run")
			continue
		}

		m.logger.DebugContext(ctx, "executing_step",
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step, stepState); err != nil {
			m.skipRemaining(ctx, state, steps[i+1:], step.ID())
			return err
		}
	}
	return nil
}

// executeStep validates and runs a single step
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step, stepState *StepState) error {
	stepCtx, span := m.tracer.TraceStep(ctx, state.RunID, step)

	if err := step.Validate(state); err != nil {
		wrapped := errors.NewComputationError(fmt.Sprintf("step %s cannot run", step.ID()), err).
			WithContext("stage", step.ID())
		stepState.Fail(wrapped)
		m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), 0, wrapped)
		m.logStepError(stepCtx, step.ID(), wrapped)
		return wrapped
	}

	stepState.Start()
	m.logStepStart(stepCtx, step.ID())

	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, err)

	if err != nil {
		err = withStage(err, step.ID())
		stepState.Fail(err)
		m.logStepError(stepCtx, step.ID(), err)
		return err
	}

	stepState.Complete()
	m.logStepComplete(stepCtx, step.ID(), duration)
	return nil
}

// skipRemaining marks the steps after a failure as skipped
func (m *Manager) skipRemaining(ctx context.Context, state *OperationState, remaining []Step, failedStepID string) {
	reason := fmt.Sprintf("step %s failed", failedStepID)
	for _, step := range remaining {
		m.skipStep(ctx, state, step, reason)
	}
}

func (m *Manager) skipStep(ctx context.Context, state *OperationState, step Step, reason string) {
	state.GetStep(step.ID()).Skip(reason)
	_, span := m.tracer.TraceStep(ctx, state.RunID, step)
	m.tracer.RecordStepSkipped(span, reason)
	m.logStepSkipped(ctx, step.ID(), reason)
}

// withStage tags an AppError with the step it came from. Other errors are
// classified as failures of the step.
func withStage(err error, stepID string) error {
	if appErr, ok := errors.AsAppError(err); ok {
		if _, tagged := appErr.Context["stage"]; !tagged {
			appErr.WithContext("stage", stepID)
		}
		return err
	}
	return errors.NewAppError(errors.ErrTypeComputation, fmt.Sprintf("step %s failed", stepID), err).
		WithContext("stage", stepID)
}

func (m *Manager) createResult(state *OperationState) *RunResult {
	result := &RunResult{
		RunID:    state.RunID,
		Status:   state.Status,
		DryRun:   state.DryRun,
		Duration: state.Duration(),
		Summary:  state.Summary,
		Series:   state.Series,
		Steps:    state.StepResults(),
	}
	if state.Table != nil {
		result.Records = state.Table.Len()
		result.Skipped = state.Table.Skipped
	}
	if state.Committed {
		result.Artifacts = state.GetArtifacts()
	}
	if state.Error != nil {
		result.Error = state.Error.Error()
	}
	return result
}
