package exporter

import (
	"context"
	"log/slog"

	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// Summary CSV layout
var (
	SummaryHeaders     = []string{"Metric", "Value"}
	DailySeriesHeaders = []string{"Date", "Revenue"}
)

// Summary metric labels, in output order
const (
	MetricTotalRevenue = "Total Revenue"
	MetricTotalCost    = "Total Cost"
	MetricTotalProfit  = "Total Profit"
	MetricProfitMargin = "Profit Margin (%)"
)

// SummaryRow is one metric of the summary report
type SummaryRow struct {
	Metric string
	Value  string
}

// SummaryRows returns the summary metrics in report order. Amounts carry two
// decimal places; the margin is a percentage, 0.00 when revenue is zero.
func SummaryRows(summary domain.MetricsSummary) []SummaryRow {
	return []SummaryRow{
		{Metric: MetricTotalRevenue, Value: formatAmount(summary.TotalRevenue)},
		{Metric: MetricTotalCost, Value: formatAmount(summary.TotalCost)},
		{Metric: MetricTotalProfit, Value: formatAmount(summary.TotalProfit)},
		{Metric: MetricProfitMargin, Value: formatAmount(summary.MarginPercent())},
	}
}

// ReportExporter writes the summary and daily series CSV files
type ReportExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewReportExporter creates a report exporter writing into baseDir
func NewReportExporter(baseDir string, logger *slog.Logger, bomPrefix bool) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportExporter{
		csvWriter: NewCSVWriter(baseDir, logger).WithBOM(bomPrefix),
		logger:    logger,
	}
}

// ExportSummary writes the Metric,Value summary file and returns its path
func (r *ReportExporter) ExportSummary(ctx context.Context, fileName string, summary domain.MetricsSummary) (string, error) {
	rows := SummaryRows(summary)
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{row.Metric, row.Value})
	}

	path, err := r.csvWriter.WriteSimpleCSV(fileName, SummaryHeaders, records)
	if err != nil {
		return "", err
	}

	r.logger.InfoContext(ctx, "summary written",
		slog.String("path", path),
		slog.Bool("margin_defined", summary.MarginDefined))
	return path, nil
}

// ExportDailySeries writes the Date,Revenue series file and returns its path
func (r *ReportExporter) ExportDailySeries(ctx context.Context, fileName string, series []domain.DailyRevenue) (string, error) {
	records := make([][]string, 0, len(series))
	for _, point := range series {
		records = append(records, []string{formatDate(point.Date), formatAmount(point.Revenue)})
	}

	path, err := r.csvWriter.WriteSimpleCSV(fileName, DailySeriesHeaders, records)
	if err != nil {
		return "", err
	}

	r.logger.InfoContext(ctx, "daily revenue series written",
		slog.String("path", path),
		slog.Int("points", len(series)))
	return path, nil
}
