package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/VRaz104/Business-Reporting-Tool/internal/dataprocessing"
	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
)

func stepLogger(logger *slog.Logger, stepID string) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logger.With(slog.String("step", stepID))
}

// PrepareStage checks the run's paths and creates the staging directory
type PrepareStage struct {
	BaseStage
	validator PathValidator
	logger    *slog.Logger
}

// NewPrepareStage creates the prepare step
func NewPrepareStage(validator PathValidator, logger *slog.Logger) *PrepareStage {
	return &PrepareStage{
		BaseStage: NewBaseStage(StepIDPrepare, StepNamePrepare, false),
		validator: validator,
		logger:    stepLogger(logger, StepIDPrepare),
	}
}

// Validate requires resolved paths
func (s *PrepareStage) Validate(state *OperationState) error {
	if state.Paths == nil {
		return fmt.Errorf("run paths are not resolved")
	}
	return nil
}

// Execute validates the input file and, unless this is a dry run, the output
// directory, then creates the staging directory
func (s *PrepareStage) Execute(ctx context.Context, state *OperationState) error {
	if err := s.validator.ValidateInputFile(state.Paths.InputFile); err != nil {
		return err
	}

	if state.DryRun {
		s.logger.InfoContext(ctx, "Dry run, output directory left untouched",
			slog.String("output_dir", state.Paths.OutputDir))
		return nil
	}

	if err := s.validator.ValidateOutputDirectory(state.Paths.OutputDir); err != nil {
		return err
	}

	staging := state.Paths.StagingDir(state.RunID)
	if err := os.MkdirAll(staging, 0755); err != nil {
		return errors.NewStorageError("failed to create staging directory", err).
			WithContext("directory", staging)
	}
	state.StagingDir = staging

	s.logger.DebugContext(ctx, "Staging directory created",
		slog.String("staging_dir", staging))
	return nil
}

// LoadStage reads the input file
type LoadStage struct {
	BaseStage
	loader TableLoader
	tracer *OperationTracer
	logger *slog.Logger
}

// NewLoadStage creates the load step
func NewLoadStage(loader TableLoader, tracer *OperationTracer, logger *slog.Logger) *LoadStage {
	return &LoadStage{
		BaseStage: NewBaseStage(StepIDLoad, StepNameLoad, false),
		loader:    loader,
		tracer:    tracer,
		logger:    stepLogger(logger, StepIDLoad),
	}
}

// Execute loads the transaction table into the state
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	table, err := s.loader.LoadFile(ctx, state.Paths.InputFile)
	if err != nil {
		return err
	}
	state.Table = table

	s.tracer.RecordRows(ctx, table.Len(), len(table.Skipped))

	attrs := []any{
		slog.String("source", table.Source),
		slog.Int("records", table.Len()),
		slog.Int("skipped", len(table.Skipped)),
	}
	switch {
	case table.IsEmpty():
		s.logger.WarnContext(ctx, "Input holds no transactions, report totals are zero", attrs...)
	case len(table.Skipped) > 0:
		s.logger.WarnContext(ctx, "Transactions loaded with skipped rows", attrs...)
	default:
		s.logger.InfoContext(ctx, "Transactions loaded", attrs...)
	}
	return nil
}

// AggregateStage computes the metrics summary
type AggregateStage struct {
	BaseStage
	logger *slog.Logger
}

// NewAggregateStage creates the aggregate step
func NewAggregateStage(logger *slog.Logger) *AggregateStage {
	return &AggregateStage{
		BaseStage: NewBaseStage(StepIDAggregate, StepNameAggregate, false),
		logger:    stepLogger(logger, StepIDAggregate),
	}
}

// Validate requires a loaded table
func (s *AggregateStage) Validate(state *OperationState) error {
	if state.Table == nil {
		return fmt.Errorf("no transaction table loaded")
	}
	return nil
}

// Execute stores the summary of the loaded table
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	summary := dataprocessing.Aggregate(*state.Table)
	state.Summary = &summary

	s.logger.InfoContext(ctx, "Metrics aggregated",
		slog.Int("records", summary.RecordCount),
		slog.String("total_revenue", summary.TotalRevenue.StringFixed(2)),
		slog.String("total_cost", summary.TotalCost.StringFixed(2)),
		slog.String("total_profit", summary.TotalProfit.StringFixed(2)),
		slog.String("margin_pct", summary.MarginPercent().StringFixed(2)),
		slog.Bool("margin_defined", summary.MarginDefined))

	if !summary.MarginDefined {
		s.logger.WarnContext(ctx, "Total revenue is zero, profit margin reported as 0")
	}
	return nil
}

// TrendStage derives the daily revenue series
type TrendStage struct {
	BaseStage
	options dataprocessing.TrendOptions
	logger  *slog.Logger
}

// NewTrendStage creates the trend step
func NewTrendStage(options dataprocessing.TrendOptions, logger *slog.Logger) *TrendStage {
	return &TrendStage{
		BaseStage: NewBaseStage(StepIDTrend, StepNameTrend, false),
		options:   options,
		logger:    stepLogger(logger, StepIDTrend),
	}
}

// Validate requires a loaded table
func (s *TrendStage) Validate(state *OperationState) error {
	if state.Table == nil {
		return fmt.Errorf("no transaction table loaded")
	}
	return nil
}

// Execute stores the daily revenue series of the loaded table
func (s *TrendStage) Execute(ctx context.Context, state *OperationState) error {
	state.Series = dataprocessing.DailyRevenueSeries(*state.Table, s.options)

	attrs := []any{
		slog.Int("points", len(state.Series)),
		slog.Bool("fill_gaps", s.options.FillGaps),
	}
	if len(state.Series) > 0 {
		attrs = append(attrs,
			slog.String("first_day", state.Series[0].Date.Format("2006-01-02")),
			slog.String("last_day", state.Series[len(state.Series)-1].Date.Format("2006-01-02")))
	}
	s.logger.InfoContext(ctx, "Daily revenue series derived", attrs...)
	return nil
}

// ReportStage writes the summary CSV and the optional series CSV and workbook
// into the staging directory
type ReportStage struct {
	BaseStage
	writer      ReportWriter
	workbook    WorkbookWriter
	writeSeries bool
	logger      *slog.Logger
}

// NewReportStage creates the report step. workbook may be nil to skip the
// spreadsheet output.
func NewReportStage(writer ReportWriter, workbook WorkbookWriter, writeSeries bool, logger *slog.Logger) *ReportStage {
	return &ReportStage{
		BaseStage:   NewBaseStage(StepIDReport, StepNameReport, true),
		writer:      writer,
		workbook:    workbook,
		writeSeries: writeSeries,
		logger:      stepLogger(logger, StepIDReport),
	}
}

// Validate requires a summary and a staging directory
func (s *ReportStage) Validate(state *OperationState) error {
	if state.Summary == nil {
		return fmt.Errorf("no metrics summary computed")
	}
	if state.StagingDir == "" {
		return fmt.Errorf("no staging directory")
	}
	return nil
}

// Execute writes the report files
func (s *ReportStage) Execute(ctx context.Context, state *OperationState) error {
	path, err := s.writer.ExportSummary(ctx, state.stagedPath(state.Names.Summary), *state.Summary)
	if err != nil {
		return err
	}
	if err := state.stageArtifact(ArtifactSummary, path, state.Names.Summary); err != nil {
		return err
	}

	if s.writeSeries {
		path, err := s.writer.ExportDailySeries(ctx, state.stagedPath(state.Names.DailySeries), state.Series)
		if err != nil {
			return err
		}
		if err := state.stageArtifact(ArtifactDailySeries, path, state.Names.DailySeries); err != nil {
			return err
		}
	}

	if s.workbook != nil {
		path, err := s.workbook.Export(ctx, state.stagedPath(state.Names.Workbook), *state.Summary, state.Series)
		if err != nil {
			return err
		}
		if err := state.stageArtifact(ArtifactWorkbook, path, state.Names.Workbook); err != nil {
			return err
		}
	}

	s.logger.DebugContext(ctx, "Report files staged",
		slog.Int("artifacts", len(state.GetArtifacts())))
	return nil
}

// ChartStage renders the daily revenue chart into the staging directory
type ChartStage struct {
	BaseStage
	renderer ChartRenderer
	logger   *slog.Logger
}

// NewChartStage creates the chart step
func NewChartStage(renderer ChartRenderer, logger *slog.Logger) *ChartStage {
	return &ChartStage{
		BaseStage: NewBaseStage(StepIDChart, StepNameChart, true),
		renderer:  renderer,
		logger:    stepLogger(logger, StepIDChart),
	}
}

// Validate requires a staging directory
func (s *ChartStage) Validate(state *OperationState) error {
	if state.StagingDir == "" {
		return fmt.Errorf("no staging directory")
	}
	return nil
}

// Execute renders the chart. An empty series renders empty axes.
func (s *ChartStage) Execute(ctx context.Context, state *OperationState) error {
	path := state.stagedPath(state.Names.Chart)
	if err := s.renderer.Render(ctx, path, state.Series); err != nil {
		return err
	}
	if len(state.Series) == 0 {
		s.logger.WarnContext(ctx, "No transactions to plot, chart has empty axes")
	}
	return state.stageArtifact(ArtifactChart, path, state.Names.Chart)
}

// CommitStage moves the staged artifacts into the output directory
type CommitStage struct {
	BaseStage
	tracer *OperationTracer
	logger *slog.Logger
}

// NewCommitStage creates the commit step
func NewCommitStage(tracer *OperationTracer, logger *slog.Logger) *CommitStage {
	return &CommitStage{
		BaseStage: NewBaseStage(StepIDCommit, StepNameCommit, true),
		tracer:    tracer,
		logger:    stepLogger(logger, StepIDCommit),
	}
}

// Validate requires at least one staged artifact
func (s *CommitStage) Validate(state *OperationState) error {
	if len(state.GetArtifacts()) == 0 {
		return fmt.Errorf("no artifacts staged")
	}
	return nil
}

// Execute commits every staged artifact or none
func (s *CommitStage) Execute(ctx context.Context, state *OperationState) error {
	artifacts := state.GetArtifacts()
	if err := commitArtifacts(artifacts, s.logger); err != nil {
		return err
	}
	state.Committed = true

	for _, artifact := range artifacts {
		s.tracer.RecordArtifact(ctx, artifact.Kind, artifact.Size)
		s.logger.InfoContext(ctx, "Output written",
			slog.String("kind", artifact.Kind),
			slog.String("path", artifact.FinalPath),
			slog.Int64("bytes", artifact.Size))
	}
	return nil
}

// stagedPath returns the staging location of an artifact file name
func (s *OperationState) stagedPath(name string) string {
	return filepath.Join(s.StagingDir, name)
}

// stageArtifact records a file a step wrote into the staging directory
func (s *OperationState) stageArtifact(kind, stagedPath, name string) error {
	info, err := os.Stat(stagedPath)
	if err != nil {
		return errors.NewStorageError("staged artifact is missing", err).
			WithContext("artifact", kind).
			WithContext("path", stagedPath)
	}
	s.AddArtifact(Artifact{
		Kind:       kind,
		StagedPath: stagedPath,
		FinalPath:  s.Paths.OutputPath(name),
		Size:       info.Size(),
	})
	return nil
}
