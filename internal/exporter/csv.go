package exporter

import (
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
)

// utf8BOM helps Excel recognize UTF-8
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	baseDir   string
	bomPrefix bool
	logger    *slog.Logger
}

// NewCSVWriter creates a CSV writer that resolves relative file names
// against baseDir
func NewCSVWriter(baseDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{baseDir: baseDir, logger: logger}
}

// WithBOM makes WriteSimpleCSV prefix files with a UTF-8 byte order mark
func (w *CSVWriter) WithBOM(enabled bool) *CSVWriter {
	w.bomPrefix = enabled
	return w
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file and returns its full path. The file is
// synced before it is closed.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) (string, error) {
	fullPath := w.resolvePath(filePath)

	w.logger.Debug("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", errors.NewStorageError("failed to create directory", err).
			WithContext("path", filepath.Dir(fullPath))
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.NewStorageError("failed to open file", err).WithContext("path", fullPath)
	}

	if err := writeRecords(file, options); err != nil {
		file.Close()
		return "", errors.NewStorageError("failed to write CSV file", err).WithContext("path", fullPath)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		return "", errors.NewStorageError("failed to sync CSV file", err).WithContext("path", fullPath)
	}
	if err := file.Close(); err != nil {
		return "", errors.NewStorageError("failed to close CSV file", err).WithContext("path", fullPath)
	}

	return fullPath, nil
}

// WriteSimpleCSV writes a CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) (string, error) {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: w.bomPrefix,
	})
}

func writeRecords(file *os.File, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := file.Write(utf8BOM); err != nil {
			return err
		}
	}

	writer := csv.NewWriter(file)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return err
		}
	}
	if err := writer.WriteAll(options.Records); err != nil {
		return err
	}
	return writer.Error()
}

// resolvePath resolves a file name against the base directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.baseDir == "" {
		return filePath
	}
	return filepath.Join(w.baseDir, filePath)
}
