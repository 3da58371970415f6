package config

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/VRaz104/Business-Reporting-Tool/internal/chart"
	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	InputPath       string `json:"input_path" yaml:"input_path" envconfig:"INPUT_PATH" validate:"required"`
	OutputDirectory string `json:"output_directory" yaml:"output_directory" envconfig:"OUTPUT_DIRECTORY" validate:"required"`

	DateColumn    string `json:"date_column" yaml:"date_column" envconfig:"DATE_COLUMN" validate:"required"`
	RevenueColumn string `json:"revenue_column" yaml:"revenue_column" envconfig:"REVENUE_COLUMN" validate:"required"`
	CostColumn    string `json:"cost_column" yaml:"cost_column" envconfig:"COST_COLUMN" validate:"required"`
	DateFormat    string `json:"date_format" yaml:"date_format" envconfig:"DATE_FORMAT" validate:"required"`
	Delimiter     string `json:"delimiter" yaml:"delimiter" envconfig:"DELIMITER" validate:"required,len=1"`
	InvalidRows   string `json:"invalid_rows" yaml:"invalid_rows" envconfig:"INVALID_ROWS" validate:"oneof=abort skip"`
	FillGaps      bool   `json:"fill_gaps" yaml:"fill_gaps" envconfig:"FILL_GAPS"`

	TimestampFormat  string `json:"timestamp_format" yaml:"timestamp_format" envconfig:"TIMESTAMP_FORMAT" validate:"required"`
	WriteDailySeries bool   `json:"write_daily_series" yaml:"write_daily_series" envconfig:"WRITE_DAILY_SERIES"`
	WriteWorkbook    bool   `json:"write_workbook" yaml:"write_workbook" envconfig:"WRITE_WORKBOOK"`
	CSVBOM           bool   `json:"csv_bom" yaml:"csv_bom" envconfig:"CSV_BOM"`

	Chart     ChartConfig     `json:"chart" yaml:"chart" envconfig:"CHART"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry" envconfig:"TELEMETRY"`

	// Flat keys accepted for compatibility with older config files.
	DataFile   string `json:"data_file" yaml:"data_file" ignored:"true"`
	OutputDir  string `json:"output_dir" yaml:"output_dir" ignored:"true"`
	LogFile    string `json:"log_file" yaml:"log_file" ignored:"true"`
	PlotTitle  string `json:"plot_title" yaml:"plot_title" ignored:"true"`
	PlotXLabel string `json:"plot_xlabel" yaml:"plot_xlabel" ignored:"true"`
	PlotYLabel string `json:"plot_ylabel" yaml:"plot_ylabel" ignored:"true"`
}

// ChartConfig contains chart rendering configuration
type ChartConfig struct {
	Title    string  `json:"title" yaml:"title" envconfig:"TITLE"`
	XLabel   string  `json:"xlabel" yaml:"xlabel" envconfig:"XLABEL"`
	YLabel   string  `json:"ylabel" yaml:"ylabel" envconfig:"YLABEL"`
	WidthIn  float64 `json:"width_in" yaml:"width_in" envconfig:"WIDTH_IN" validate:"gt=0"`
	HeightIn float64 `json:"height_in" yaml:"height_in" envconfig:"HEIGHT_IN" validate:"gt=0"`
	Format   string  `json:"format" yaml:"format" envconfig:"FORMAT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `json:"level" yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `json:"output" yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `json:"file_path" yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// TelemetryConfig contains tracing and metrics export configuration
type TelemetryConfig struct {
	TraceExporter   string `json:"trace_exporter" yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout file"`
	TraceFile       string `json:"trace_file" yaml:"trace_file" envconfig:"TRACE_FILE" validate:"required_if=TraceExporter file"`
	MetricsTextfile string `json:"metrics_textfile" yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE"`
}

// Overrides holds command-line values that take precedence over the file
// and the environment. Empty fields are left alone.
type Overrides struct {
	InputPath       string
	OutputDirectory string
}

var validate = validator.New()

// Load builds the configuration from defaults, the config file at path and
// SALES_* environment variables, in that order of precedence (lowest first).
func Load(path string, overrides Overrides) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
		if path == "" {
			return nil, errors.NewConfigError("no configuration file found", nil).
				WithContext("searched", strings.Join(configLocations, ", "))
		}
	}

	fileConfig, err := loadFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg = mergeConfigs(*cfg, *fileConfig)

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if overrides.InputPath != "" {
		cfg.InputPath = overrides.InputPath
	}
	if overrides.OutputDirectory != "" {
		cfg.OutputDirectory = overrides.OutputDirectory
	}

	cfg.normalize()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile loads configuration from a JSON or YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewConfigError("configuration file not found", err).
				WithContext("path", filePath)
		}
		return nil, errors.NewConfigError("failed to read configuration file", err).
			WithContext("path", filePath)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.NewConfigError("failed to parse configuration file", err).
			WithContext("path", filePath)
	}

	cfg.applyAliases()
	return &cfg, nil
}

// applyAliases copies the flat compatibility keys onto their structured
// counterparts when the structured key was not set.
func (c *Config) applyAliases() {
	if c.InputPath == "" {
		c.InputPath = c.DataFile
	}
	if c.OutputDirectory == "" {
		c.OutputDirectory = c.OutputDir
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = c.LogFile
	}
	if c.Chart.Title == "" {
		c.Chart.Title = c.PlotTitle
	}
	if c.Chart.XLabel == "" {
		c.Chart.XLabel = c.PlotXLabel
	}
	if c.Chart.YLabel == "" {
		c.Chart.YLabel = c.PlotYLabel
	}
	c.DataFile, c.OutputDir, c.LogFile = "", "", ""
	c.PlotTitle, c.PlotXLabel, c.PlotYLabel = "", "", ""
}

// mergeConfigs overlays every non-zero field of fileConfig onto base
func mergeConfigs(base, fileConfig Config) *Config {
	merged := base

	setString(&merged.InputPath, fileConfig.InputPath)
	setString(&merged.OutputDirectory, fileConfig.OutputDirectory)
	setString(&merged.DateColumn, fileConfig.DateColumn)
	setString(&merged.RevenueColumn, fileConfig.RevenueColumn)
	setString(&merged.CostColumn, fileConfig.CostColumn)
	setString(&merged.DateFormat, fileConfig.DateFormat)
	setString(&merged.Delimiter, fileConfig.Delimiter)
	setString(&merged.InvalidRows, fileConfig.InvalidRows)
	setString(&merged.TimestampFormat, fileConfig.TimestampFormat)
	merged.FillGaps = merged.FillGaps || fileConfig.FillGaps
	merged.WriteDailySeries = merged.WriteDailySeries || fileConfig.WriteDailySeries
	merged.WriteWorkbook = merged.WriteWorkbook || fileConfig.WriteWorkbook
	merged.CSVBOM = merged.CSVBOM || fileConfig.CSVBOM

	// Chart config
	setString(&merged.Chart.Title, fileConfig.Chart.Title)
	setString(&merged.Chart.XLabel, fileConfig.Chart.XLabel)
	setString(&merged.Chart.YLabel, fileConfig.Chart.YLabel)
	setString(&merged.Chart.Format, fileConfig.Chart.Format)
	if fileConfig.Chart.WidthIn != 0 {
		merged.Chart.WidthIn = fileConfig.Chart.WidthIn
	}
	if fileConfig.Chart.HeightIn != 0 {
		merged.Chart.HeightIn = fileConfig.Chart.HeightIn
	}

	// Logging config
	setString(&merged.Logging.Level, fileConfig.Logging.Level)
	setString(&merged.Logging.Output, fileConfig.Logging.Output)
	setString(&merged.Logging.FilePath, fileConfig.Logging.FilePath)

	// Telemetry config
	setString(&merged.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter)
	setString(&merged.Telemetry.TraceFile, fileConfig.Telemetry.TraceFile)
	setString(&merged.Telemetry.MetricsTextfile, fileConfig.Telemetry.MetricsTextfile)

	return &merged
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// normalize lower-cases enumerations and converts strftime-style date formats
func (c *Config) normalize() {
	c.InvalidRows = strings.ToLower(strings.TrimSpace(c.InvalidRows))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Output = strings.ToLower(strings.TrimSpace(c.Logging.Output))
	c.Chart.Format = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Chart.Format), "."))
	c.Telemetry.TraceExporter = strings.ToLower(strings.TrimSpace(c.Telemetry.TraceExporter))
	c.DateFormat = ToGoLayout(c.DateFormat)
	c.TimestampFormat = ToGoLayout(c.TimestampFormat)
}

// validate validates the configuration
func (c *Config) validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			fields := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return errors.NewConfigError("invalid configuration: "+strings.Join(fields, ", "), err)
		}
		return errors.NewConfigError("invalid configuration", err)
	}

	columns := map[string]string{}
	for option, column := range map[string]string{
		"date_column":    c.DateColumn,
		"revenue_column": c.RevenueColumn,
		"cost_column":    c.CostColumn,
	} {
		if other, dup := columns[column]; dup {
			return errors.NewConfigError(
				fmt.Sprintf("%s and %s both name column %q", other, option, column), nil)
		}
		columns[column] = option
	}

	if !chart.IsSupportedFormat(c.Chart.Format) {
		return errors.NewConfigError(fmt.Sprintf("chart.format %q is not supported (use one of: %s)",
			c.Chart.Format, strings.Join(chart.SupportedFormats, ", ")), nil)
	}

	if strings.ContainsAny(c.TimestampFormat, `/\:`) {
		return errors.NewConfigError("timestamp_format must not contain path separators or colons", nil).
			WithContext("timestamp_format", c.TimestampFormat)
	}

	return nil
}

// DelimiterRune returns the configured field delimiter
func (c *Config) DelimiterRune() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// SkipInvalidRows reports whether invalid input rows are skipped instead of
// failing the run.
func (c *Config) SkipInvalidRows() bool {
	return c.InvalidRows == InvalidRowsSkip
}

// configLocations are searched in order when no config path is given
var configLocations = []string{
	"config.json",
	"config.yaml",
	"config.yml",
	"configs/config.json",
	"configs/config.yaml",
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	for _, location := range configLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		InputPath:       DefaultInputPath,
		OutputDirectory: DefaultOutputDirectory,
		DateColumn:      DefaultDateColumn,
		RevenueColumn:   DefaultRevenueColumn,
		CostColumn:      DefaultCostColumn,
		DateFormat:      DefaultDateFormat,
		Delimiter:       DefaultDelimiter,
		InvalidRows:     InvalidRowsAbort,
		TimestampFormat: DefaultTimestampFormat,
		Chart: ChartConfig{
			Title:    DefaultPlotTitle,
			XLabel:   DefaultPlotXLabel,
			YLabel:   DefaultPlotYLabel,
			WidthIn:  DefaultChartWidthIn,
			HeightIn: DefaultChartHeightIn,
			Format:   DefaultChartFormat,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter: TraceExporterNone,
		},
	}
}
