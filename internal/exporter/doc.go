// Package exporter writes report artifacts.
//
// This package contains three components:
//
// CSVWriter: core CSV writing with headers, optional UTF-8 BOM for Excel
// compatibility, and a sync before close.
//
// ReportExporter: writes the Metric,Value summary file and the optional
// Date,Revenue daily series file.
//
// WorkbookExporter: writes an XLSX workbook holding both tables and a native
// Excel line chart of the daily series.
//
// Relative file names are resolved against the exporter's base directory,
// which during a run is the staging directory.
//
// Example usage:
//
//	reports := exporter.NewReportExporter(stagingDir, logger, false)
//	path, err := reports.ExportSummary(ctx, "summary_20240101_120000.csv", summary)
package exporter
