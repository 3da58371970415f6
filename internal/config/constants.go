package config

// Application constants
const (
	// Application Info
	AppName = "Sales Reporting"

	// EnvPrefix namespaces every environment override (SALES_INPUT_PATH, ...)
	EnvPrefix = "SALES"

	// Input defaults
	DefaultInputPath     = "sales_data.csv"
	DefaultDateColumn    = "date"
	DefaultRevenueColumn = "revenue"
	DefaultCostColumn    = "cost"
	DefaultDateFormat    = "2006-01-02"
	DefaultDelimiter     = ","

	// Invalid row policies
	InvalidRowsAbort = "abort"
	InvalidRowsSkip  = "skip"

	// Output defaults
	DefaultOutputDirectory = "outputs"
	DefaultTimestampFormat = "20060102_150405"

	// Chart defaults
	DefaultPlotTitle     = "Daily Revenue Trend"
	DefaultPlotXLabel    = "Date"
	DefaultPlotYLabel    = "Revenue"
	DefaultChartWidthIn  = 10.0
	DefaultChartHeightIn = 5.0
	DefaultChartFormat   = "png"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogOutput = "both"
	DefaultLogFile   = "sales_analysis.log"

	// Telemetry
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterFile   = "file"
)

// Artifact file name prefixes. Every artifact of one run shares the same
// timestamp suffix.
const (
	SummaryFilePrefix      = "summary"
	ChartFilePrefix        = "daily_revenue"
	DailySeriesFilePrefix  = "daily_revenue"
	WorkbookFilePrefix     = "report"
	StagingDirectoryPrefix = ".salesreport-"
)
