package validation

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
)

// delimitedExtensions are the extensions expected for input files. Other
// extensions are accepted with a warning.
var delimitedExtensions = map[string]bool{
	".csv": true,
	".tsv": true,
	".txt": true,
}

// FileValidator checks the input file and output directory before a run
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateInputFile checks that path is an existing, readable regular file
func (v *FileValidator) ValidateInputFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errors.NewInputError("input file does not exist", err).WithContext("path", path)
	}
	if err != nil {
		return errors.NewInputError("failed to stat input file", err).WithContext("path", path)
	}
	if info.IsDir() {
		return errors.NewInputError("input path is a directory, not a file", nil).WithContext("path", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return errors.NewInputError("input file is not readable", err).WithContext("path", path)
	}
	file.Close()

	if ext := strings.ToLower(filepath.Ext(path)); !delimitedExtensions[ext] {
		v.logger.Warn("Input file does not have a delimited text extension",
			slog.String("file", path),
			slog.String("extension", ext))
	}

	v.logger.Debug("Input file validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the output directory exists or can be
// created, and that files can be created in it
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).WithContext("directory", dir)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		return errors.NewStorageError("output directory is not writable", err).WithContext("directory", dir)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
