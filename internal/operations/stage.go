package operations

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Step is one unit of a report run. Steps share data through the
// OperationState: each reads what earlier steps produced and adds its own.
type Step interface {
	ID() string
	Name() string

	// Execute does the step's work against state
	Execute(ctx context.Context, state *OperationState) error

	// Validate reports whether state holds what Execute needs
	Validate(state *OperationState) error

	// WritesOutput reports whether the step writes files. Such steps are
	// skipped in a dry run.
	WritesOutput() bool
}

// StepStatus is the lifecycle position of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState tracks one step through a run. Transitions are guarded so the
// manager and the tracer can read it while it changes.
type StepState struct {
	mu       sync.RWMutex
	id       string
	name     string
	status   StepStatus
	started  time.Time
	finished time.Time
	message  string
	err      error
}

// NewStepState returns a pending StepState
func NewStepState(id, name string) *StepState {
	return &StepState{id: id, name: name, status: StepStatusPending}
}

// Start marks the step active
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = time.Now()
	s.status = StepStatusActive
}

// Complete marks the step completed
func (s *StepState) Complete() {
	s.finish(StepStatusCompleted, "", nil)
}

// Fail marks the step failed and keeps err's text as the step message
func (s *StepState) Fail(err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.finish(StepStatusFailed, msg, err)
}

// Skip marks the step skipped for reason. A skipped step never started.
func (s *StepState) Skip(reason string) {
	s.finish(StepStatusSkipped, reason, nil)
}

func (s *StepState) finish(status StepStatus, message string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = time.Now()
	s.status = status
	s.message = message
	s.err = err
}

// GetStatus returns the current status
func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Err returns the error the step failed with, if any
func (s *StepState) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Duration is zero for steps that never started and runs up to now for
// steps still active.
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed(time.Now())
}

func (s *StepState) elapsed(now time.Time) time.Duration {
	switch {
	case s.started.IsZero():
		return 0
	case s.finished.IsZero():
		return now.Sub(s.started)
	default:
		return s.finished.Sub(s.started)
	}
}

// Result snapshots the state for a RunResult
func (s *StepState) Result() StepResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StepResult{
		ID:       s.id,
		Name:     s.name,
		Status:   s.status,
		Duration: s.elapsed(time.Now()),
		Message:  s.message,
	}
}

// BaseStage carries the identity shared by every step. Steps embed it and
// override Validate when they depend on earlier steps.
type BaseStage struct {
	id     string
	name   string
	writes bool
}

// NewBaseStage returns a BaseStage. writes marks steps that touch the output
// directory.
func NewBaseStage(id, name string, writes bool) BaseStage {
	return BaseStage{id: id, name: name, writes: writes}
}

func (b *BaseStage) ID() string {
	if b == nil {
		return ""
	}
	return b.id
}

func (b *BaseStage) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

func (b *BaseStage) WritesOutput() bool {
	return b != nil && b.writes
}

// Validate accepts any state
func (b *BaseStage) Validate(*OperationState) error {
	if b == nil {
		return fmt.Errorf("step is nil")
	}
	return nil
}
