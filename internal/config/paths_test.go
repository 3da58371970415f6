package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.InputPath = filepath.Join(dir, "sales.csv")
	cfg.OutputDirectory = filepath.Join(dir, "out")
	cfg.Logging.FilePath = filepath.Join(dir, "logs", "run.log")

	paths, err := cfg.GetPaths()
	require.NoError(t, err)

	assert.Equal(t, cfg.InputPath, paths.InputFile)
	assert.Equal(t, cfg.OutputDirectory, paths.OutputDir)
	assert.Equal(t, cfg.Logging.FilePath, paths.LogFile)
	assert.Empty(t, paths.TraceFile)
	assert.Empty(t, paths.MetricsTextfile)
}

func TestGetPaths_ConsoleLoggingHasNoLogFile(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "console"

	paths, err := cfg.GetPaths()
	require.NoError(t, err)
	assert.Empty(t, paths.LogFile)
	assert.True(t, filepath.IsAbs(paths.OutputDir))
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := &Paths{
		OutputDir:       filepath.Join(dir, "reports", "sales"),
		LogFile:         filepath.Join(dir, "logs", "app.log"),
		MetricsTextfile: filepath.Join(dir, "metrics", "salesreport.prom"),
	}

	require.NoError(t, paths.EnsureDirectories())

	for _, d := range []string{filepath.Join(dir, "logs"), filepath.Join(dir, "metrics")} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	assert.False(t, FileExists(paths.OutputDir), "output directory is created by the run")
}

func TestEnsureDirectories_ParentIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	paths := &Paths{LogFile: filepath.Join(blocker, "logs", "app.log")}
	err := paths.EnsureDirectories()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}

func TestStagingAndOutputPaths(t *testing.T) {
	paths := &Paths{OutputDir: filepath.Join("base", "out")}

	assert.Equal(t, filepath.Join("base", "out", ".salesreport-abc"), paths.StagingDir("abc"))
	assert.Equal(t, filepath.Join("base", "out", "summary.csv"), paths.OutputPath("summary.csv"))
}

func TestNewArtifactNames(t *testing.T) {
	startedAt := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	names := NewArtifactNames(startedAt, DefaultTimestampFormat, "png")

	assert.Equal(t, "20240309_140507", names.Timestamp)
	assert.Equal(t, "summary_20240309_140507.csv", names.Summary)
	assert.Equal(t, "daily_revenue_20240309_140507.png", names.Chart)
	assert.Equal(t, "daily_revenue_20240309_140507.csv", names.DailySeries)
	assert.Equal(t, "report_20240309_140507.xlsx", names.Workbook)
}

func TestConfigArtifactNames(t *testing.T) {
	cfg := Default()
	cfg.TimestampFormat = ToGoLayout("%Y-%m-%d")
	cfg.Chart.Format = "svg"

	names := cfg.ArtifactNames(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "summary_2024-01-02.csv", names.Summary)
	assert.Equal(t, "daily_revenue_2024-01-02.svg", names.Chart)
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(existing, nil, 0644))

	assert.True(t, FileExists(existing))
	assert.False(t, FileExists(filepath.Join(dir, "absent.txt")))
	assert.False(t, FileExists(""))
}
