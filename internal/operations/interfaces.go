package operations

import (
	"context"

	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// TableLoader reads the input file into a TransactionTable
type TableLoader interface {
	LoadFile(ctx context.Context, path string) (*domain.TransactionTable, error)
}

// ReportWriter writes the CSV report files and returns the written path
type ReportWriter interface {
	ExportSummary(ctx context.Context, fileName string, summary domain.MetricsSummary) (string, error)
	ExportDailySeries(ctx context.Context, fileName string, series []domain.DailyRevenue) (string, error)
}

// WorkbookWriter writes the spreadsheet report and returns the written path
type WorkbookWriter interface {
	Export(ctx context.Context, fileName string, summary domain.MetricsSummary, series []domain.DailyRevenue) (string, error)
}

// ChartRenderer renders the daily revenue chart to path
type ChartRenderer interface {
	Render(ctx context.Context, path string, series []domain.DailyRevenue) error
}

// PathValidator checks the input file and output directory before a run
type PathValidator interface {
	ValidateInputFile(path string) error
	ValidateOutputDirectory(dir string) error
}
