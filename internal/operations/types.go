package operations

import (
	"time"

	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// Step identifiers
const (
	StepIDPrepare   = "prepare"
	StepIDLoad      = "load"
	StepIDAggregate = "aggregate"
	StepIDTrend     = "trend"
	StepIDReport    = "write_report"
	StepIDChart     = "render_chart"
	StepIDCommit    = "commit"
)

// Step names
const (
	StepNamePrepare   = "Prepare Run"
	StepNameLoad      = "Load Transactions"
	StepNameAggregate = "Aggregate Metrics"
	StepNameTrend     = "Derive Daily Trend"
	StepNameReport    = "Write Report"
	StepNameChart     = "Render Chart"
	StepNameCommit    = "Commit Outputs"
)

// Artifact kinds
const (
	ArtifactSummary     = "summary"
	ArtifactDailySeries = "daily_series"
	ArtifactWorkbook    = "workbook"
	ArtifactChart       = "chart"
)

// Artifact is one output file of a run. StagedPath is where a step wrote it;
// FinalPath is where commit moves it.
type Artifact struct {
	Kind       string `json:"kind"`
	StagedPath string `json:"staged_path"`
	FinalPath  string `json:"final_path"`
	Size       int64  `json:"size"`
}

// StepResult is the outcome of one step in a RunResult
type StepResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Message  string        `json:"message,omitempty"`
}

// RunResult summarizes a finished run
type RunResult struct {
	RunID     string                 `json:"run_id"`
	Status    OperationStatus        `json:"status"`
	DryRun    bool                   `json:"dry_run"`
	Duration  time.Duration          `json:"duration"`
	Records   int                    `json:"records"`
	Skipped   []domain.RowIssue      `json:"skipped,omitempty"`
	Summary   *domain.MetricsSummary `json:"summary,omitempty"`
	Series    []domain.DailyRevenue  `json:"series,omitempty"`
	Artifacts []Artifact             `json:"artifacts,omitempty"`
	Steps     []StepResult           `json:"steps"`
	Error     string                 `json:"error,omitempty"`
}

// ArtifactPath returns the committed path of the artifact of the given kind,
// or "" when the run did not produce one.
func (r *RunResult) ArtifactPath(kind string) string {
	if r == nil {
		return ""
	}
	for _, artifact := range r.Artifacts {
		if artifact.Kind == kind {
			return artifact.FinalPath
		}
	}
	return ""
}
