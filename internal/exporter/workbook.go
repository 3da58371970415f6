package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

// Workbook sheet names
const (
	SummarySheet      = "Summary"
	DailyRevenueSheet = "DailyRevenue"
)

// numFmtThousands is Excel's built-in "#,##0.00" format
const numFmtThousands = 4

// ChartLabels holds the titles of the daily revenue chart
type ChartLabels struct {
	Title  string
	XLabel string
	YLabel string
}

// WorkbookExporter writes the report as an XLSX workbook with a Summary
// sheet and a DailyRevenue sheet carrying a native line chart.
type WorkbookExporter struct {
	baseDir string
	labels  ChartLabels
	logger  *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter writing into baseDir
func NewWorkbookExporter(baseDir string, labels ChartLabels, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{baseDir: baseDir, labels: labels, logger: logger}
}

// Export writes the workbook and returns its path. The chart is omitted when
// the series is empty.
func (w *WorkbookExporter) Export(ctx context.Context, fileName string, summary domain.MetricsSummary, series []domain.DailyRevenue) (string, error) {
	fullPath := fileName
	if !filepath.IsAbs(fileName) && w.baseDir != "" {
		fullPath = filepath.Join(w.baseDir, fileName)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.buildWorkbook(f, summary, series); err != nil {
		return "", errors.NewStorageError("failed to build workbook", err).WithContext("path", fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", errors.NewStorageError("failed to create directory", err).
			WithContext("path", filepath.Dir(fullPath))
	}
	if err := f.SaveAs(fullPath); err != nil {
		return "", errors.NewStorageError("failed to save workbook", err).WithContext("path", fullPath)
	}

	w.logger.InfoContext(ctx, "workbook written",
		slog.String("path", fullPath),
		slog.Int("points", len(series)),
		slog.Bool("chart", len(series) > 0))
	return fullPath, nil
}

func (w *WorkbookExporter) buildWorkbook(f *excelize.File, summary domain.MetricsSummary, series []domain.DailyRevenue) error {
	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(DailyRevenueSheet); err != nil {
		return err
	}

	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtThousands})
	if err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	// Summary sheet
	if err := f.SetSheetRow(SummarySheet, "A1", &[]interface{}{"Metric", "Value"}); err != nil {
		return err
	}
	values := []float64{
		summary.TotalRevenue.InexactFloat64(),
		summary.TotalCost.InexactFloat64(),
		summary.TotalProfit.InexactFloat64(),
		summary.MarginPercent().InexactFloat64(),
	}
	for i, row := range SummaryRows(summary) {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+2), &[]interface{}{row.Metric, values[i]}); err != nil {
			return err
		}
	}
	lastSummaryRow := len(values) + 1
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "B2", fmt.Sprintf("B%d", lastSummaryRow), amountStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "A", "A", 20); err != nil {
		return err
	}
	if err := f.SetColWidth(SummarySheet, "B", "B", 16); err != nil {
		return err
	}

	// Daily revenue sheet
	if err := f.SetSheetRow(DailyRevenueSheet, "A1", &[]interface{}{"Date", "Revenue"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(DailyRevenueSheet, "A1", "B1", headerStyle); err != nil {
		return err
	}
	for i, point := range series {
		row := []interface{}{formatDate(point.Date), point.Revenue.InexactFloat64()}
		if err := f.SetSheetRow(DailyRevenueSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(DailyRevenueSheet, "A", "B", 14); err != nil {
		return err
	}

	if len(series) == 0 {
		return nil
	}

	lastRow := len(series) + 1
	if err := f.SetCellStyle(DailyRevenueSheet, "B2", fmt.Sprintf("B%d", lastRow), amountStyle); err != nil {
		return err
	}
	return f.AddChart(DailyRevenueSheet, "D2", w.lineChart(lastRow))
}

func (w *WorkbookExporter) lineChart(lastRow int) *excelize.Chart {
	return &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", DailyRevenueSheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", DailyRevenueSheet, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", DailyRevenueSheet, lastRow),
			Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
		}},
		Title:  []excelize.RichTextRun{{Text: w.labels.Title}},
		Legend: excelize.ChartLegend{Position: "none"},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: w.labels.XLabel}},
		},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Title:          []excelize.RichTextRun{{Text: w.labels.YLabel}},
		},
		Dimension: excelize.ChartDimension{Width: 720, Height: 360},
	}
}
