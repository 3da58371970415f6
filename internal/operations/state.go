package operations

import (
	"sync"
	"time"

	"github.com/VRaz104/Business-Reporting-Tool/internal/config"
	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// OperationStatus represents the overall run status
type OperationStatus string

const (
	OperationStatusPending   OperationStatus = "pending"
	OperationStatusRunning   OperationStatus = "running"
	OperationStatusCompleted OperationStatus = "completed"
	OperationStatusFailed    OperationStatus = "failed"
)

// OperationState is the state of one report run. Steps communicate through
// it: each step reads what earlier steps produced and records its own output.
type OperationState struct {
	mu sync.RWMutex

	RunID     string          `json:"run_id"`
	Status    OperationStatus `json:"status"`
	StartTime time.Time       `json:"start_time"`
	EndTime   *time.Time      `json:"end_time,omitempty"`
	DryRun    bool            `json:"dry_run"`

	Paths      *config.Paths        `json:"paths"`
	Names      config.ArtifactNames `json:"names"`
	StagingDir string               `json:"staging_dir,omitempty"`

	Table     *domain.TransactionTable `json:"-"`
	Summary   *domain.MetricsSummary   `json:"summary,omitempty"`
	Series    []domain.DailyRevenue    `json:"series,omitempty"`
	Artifacts []Artifact               `json:"artifacts,omitempty"`
	Committed bool                     `json:"committed"`

	Steps map[string]*StepState `json:"steps"`
	order []string

	Error error `json:"error,omitempty"`
}

// NewOperationState creates the state of a run started at startedAt.
// names are the artifact file names derived from the same start time.
func NewOperationState(runID string, startedAt time.Time, paths *config.Paths, names config.ArtifactNames) *OperationState {
	return &OperationState{
		RunID:     runID,
		Status:    OperationStatusPending,
		StartTime: startedAt,
		Paths:     paths,
		Names:     names,
		Steps:     make(map[string]*StepState),
	}
}

// Start marks the run as running
func (s *OperationState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = OperationStatusRunning
}

// Complete marks the run as completed
func (s *OperationState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = OperationStatusCompleted
}

// Fail marks the run as failed
func (s *OperationState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.EndTime = &now
	s.Status = OperationStatusFailed
	s.Error = err
}

// GetStep returns the state of a specific Step
func (s *OperationState) GetStep(stepID string) *StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Steps[stepID]
}

// SetStep records the state of a Step, keeping first-registration order
func (s *OperationState) SetStep(stepID string, state *StepState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Steps[stepID]; !exists {
		s.order = append(s.order, stepID)
	}
	s.Steps[stepID] = state
}

// StepResults returns a snapshot of every step in execution order
func (s *OperationState) StepResults() []StepResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]StepResult, 0, len(s.order))
	for _, id := range s.order {
		results = append(results, s.Steps[id].Result())
	}
	return results
}

// AddArtifact records a staged artifact
func (s *OperationState) AddArtifact(artifact Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Artifacts = append(s.Artifacts, artifact)
}

// GetArtifacts returns a copy of the staged artifacts
func (s *OperationState) GetArtifacts() []Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	artifacts := make([]Artifact, len(s.Artifacts))
	copy(artifacts, s.Artifacts)
	return artifacts
}

// Duration returns the duration of the run
func (s *OperationState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.EndTime != nil {
		return s.EndTime.Sub(s.StartTime)
	}
	return time.Since(s.StartTime)
}
