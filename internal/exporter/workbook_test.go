package exporter

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/internal/infrastructure"
	"github.com/VRaz104/Business-Reporting-Tool/pkg/contracts/domain"
)

func hasChartPart(t *testing.T, path string) bool {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "xl/charts/chart") {
			return true
		}
	}
	return false
}

func TestWorkbookExporter_Export(t *testing.T) {
	dir := t.TempDir()
	labels := ChartLabels{Title: "Daily Revenue Trend", XLabel: "Date", YLabel: "Revenue"}
	exp := NewWorkbookExporter(dir, labels, infrastructure.NewDiscardLogger())

	path, err := exp.Export(context.Background(), "report.xlsx", scenarioSummary(), scenarioSeries())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SummarySheet, DailyRevenueSheet}, f.GetSheetList())

	metric, err := f.GetCellValue(SummarySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Total Revenue", metric)

	margin, err := f.GetCellValue(SummarySheet, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Profit Margin (%)", margin)

	rows, err := f.GetRows(DailyRevenueSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Date", "Revenue"}, rows[0])
	assert.Equal(t, "2024-01-01", rows[1][0])
	assert.Equal(t, "2024-01-02", rows[2][0])

	assert.True(t, hasChartPart(t, path))
}

func TestWorkbookExporter_EmptySeriesHasNoChart(t *testing.T) {
	dir := t.TempDir()
	exp := NewWorkbookExporter(dir, ChartLabels{}, nil)

	path, err := exp.Export(context.Background(), "empty.xlsx", domain.MetricsSummary{}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(DailyRevenueSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.False(t, hasChartPart(t, path))
}

func TestWorkbookExporter_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	exp := NewWorkbookExporter(blocker, ChartLabels{}, infrastructure.NewDiscardLogger())
	_, err := exp.Export(context.Background(), "report.xlsx", scenarioSummary(), scenarioSeries())

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
}
