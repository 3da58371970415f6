package operations

import (
	"log/slog"
	"time"

	"github.com/VRaz104/Business-Reporting-Tool/internal/chart"
	"github.com/VRaz104/Business-Reporting-Tool/internal/config"
	"github.com/VRaz104/Business-Reporting-Tool/internal/dataprocessing"
	"github.com/VRaz104/Business-Reporting-Tool/internal/exporter"
	"github.com/VRaz104/Business-Reporting-Tool/internal/infrastructure"
	"github.com/VRaz104/Business-Reporting-Tool/internal/validation"
)

// NewReportPipeline wires the report steps for cfg into a Manager
func NewReportPipeline(cfg *config.Config, logger *slog.Logger, tracer *OperationTracer) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loader := dataprocessing.NewLoader(
		infrastructure.WithComponent(logger, "loader"),
		dataprocessing.LoaderConfig{
			DateColumn:      cfg.DateColumn,
			RevenueColumn:   cfg.RevenueColumn,
			CostColumn:      cfg.CostColumn,
			DateFormat:      cfg.DateFormat,
			Delimiter:       cfg.DelimiterRune(),
			SkipInvalidRows: cfg.SkipInvalidRows(),
		})

	reportLogger := infrastructure.WithComponent(logger, "exporter")
	reports := exporter.NewReportExporter("", reportLogger, cfg.CSVBOM)

	var workbook WorkbookWriter
	if cfg.WriteWorkbook {
		workbook = exporter.NewWorkbookExporter("", exporter.ChartLabels{
			Title:  cfg.Chart.Title,
			XLabel: cfg.Chart.XLabel,
			YLabel: cfg.Chart.YLabel,
		}, reportLogger)
	}

	renderer := chart.NewRenderer(infrastructure.WithComponent(logger, "chart"), chart.Options{
		Title:    cfg.Chart.Title,
		XLabel:   cfg.Chart.XLabel,
		YLabel:   cfg.Chart.YLabel,
		WidthIn:  cfg.Chart.WidthIn,
		HeightIn: cfg.Chart.HeightIn,
		Format:   cfg.Chart.Format,
	})

	manager := NewManager(logger, tracer)
	steps := []Step{
		NewPrepareStage(validation.NewFileValidator(infrastructure.WithComponent(logger, "validation")), logger),
		NewLoadStage(loader, tracer, logger),
		NewAggregateStage(logger),
		NewTrendStage(dataprocessing.TrendOptions{FillGaps: cfg.FillGaps}, logger),
		NewReportStage(reports, workbook, cfg.WriteDailySeries, logger),
		NewChartStage(renderer, logger),
		NewCommitStage(tracer, logger),
	}
	for _, step := range steps {
		if err := manager.RegisterStep(step); err != nil {
			return nil, err
		}
	}
	return manager, nil
}

// NewRunState creates the state of a run of cfg started at startedAt
func NewRunState(cfg *config.Config, paths *config.Paths, runID string, startedAt time.Time, dryRun bool) *OperationState {
	state := NewOperationState(runID, startedAt, paths, cfg.ArtifactNames(startedAt))
	state.DryRun = dryRun
	return state
}
