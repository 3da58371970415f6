package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
)

// Paths contains every file system location a report run touches.
// All paths are absolute once returned by GetPaths.
type Paths struct {
	InputFile       string
	OutputDir       string
	LogFile         string
	TraceFile       string
	MetricsTextfile string
}

// GetPaths resolves the configured locations against the working directory
func (c *Config) GetPaths() (*Paths, error) {
	resolve := func(path string) (string, error) {
		if path == "" {
			return "", nil
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", errors.NewConfigError("failed to resolve path", err).
				WithContext("path", path)
		}
		return abs, nil
	}

	var (
		paths Paths
		err   error
	)
	if paths.InputFile, err = resolve(c.InputPath); err != nil {
		return nil, err
	}
	if paths.OutputDir, err = resolve(c.OutputDirectory); err != nil {
		return nil, err
	}
	if c.Logging.Output != "console" {
		if paths.LogFile, err = resolve(c.Logging.FilePath); err != nil {
			return nil, err
		}
	}
	if c.Telemetry.TraceExporter == TraceExporterFile {
		if paths.TraceFile, err = resolve(c.Telemetry.TraceFile); err != nil {
			return nil, err
		}
	}
	if paths.MetricsTextfile, err = resolve(c.Telemetry.MetricsTextfile); err != nil {
		return nil, err
	}

	return &paths, nil
}

// EnsureDirectories creates the parent directories of the log and telemetry
// files. The output directory is left to the run, which checks it is writable
// and does not touch it in a dry run.
func (p *Paths) EnsureDirectories() error {
	var directories []string
	for _, file := range []string{p.LogFile, p.TraceFile, p.MetricsTextfile} {
		if file != "" {
			directories = append(directories, filepath.Dir(file))
		}
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewStorageError("failed to create directory", err).
				WithContext("directory", dir)
		}
	}
	return nil
}

// StagingDir returns the run-scoped directory that artifacts are written to
// before they are committed into OutputDir. It lives inside OutputDir so the
// commit is a rename within one file system.
func (p *Paths) StagingDir(runID string) string {
	return filepath.Join(p.OutputDir, StagingDirectoryPrefix+runID)
}

// OutputPath returns the final location of an artifact
func (p *Paths) OutputPath(filename string) string {
	return filepath.Join(p.OutputDir, filename)
}

// LogPathResolution logs the resolved locations for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Debug("Path resolution summary",
		slog.Group("paths",
			slog.String("input", p.InputFile),
			slog.String("output_dir", p.OutputDir),
			slog.String("log_file", p.LogFile),
			slog.String("trace_file", p.TraceFile),
			slog.String("metrics_textfile", p.MetricsTextfile),
		),
		slog.Group("status",
			slog.Bool("input_exists", FileExists(p.InputFile)),
			slog.Bool("output_dir_exists", FileExists(p.OutputDir)),
		))
}

// ArtifactNames holds the file names of one run's artifacts. The names carry
// no directory so they can be placed in the staging or the output directory.
type ArtifactNames struct {
	Timestamp   string
	Summary     string
	Chart       string
	DailySeries string
	Workbook    string
}

// NewArtifactNames derives artifact names from the run start time. layout is
// a Go time layout; chartFormat is the chart file extension without a dot.
func NewArtifactNames(startedAt time.Time, layout, chartFormat string) ArtifactNames {
	ts := startedAt.Format(layout)
	return ArtifactNames{
		Timestamp:   ts,
		Summary:     fmt.Sprintf("%s_%s.csv", SummaryFilePrefix, ts),
		Chart:       fmt.Sprintf("%s_%s.%s", ChartFilePrefix, ts, chartFormat),
		DailySeries: fmt.Sprintf("%s_%s.csv", DailySeriesFilePrefix, ts),
		Workbook:    fmt.Sprintf("%s_%s.xlsx", WorkbookFilePrefix, ts),
	}
}

// ArtifactNames returns the artifact names for a run started at startedAt
func (c *Config) ArtifactNames(startedAt time.Time) ArtifactNames {
	return NewArtifactNames(startedAt, c.TimestampFormat, c.Chart.Format)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
