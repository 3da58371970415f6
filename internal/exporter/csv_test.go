package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VRaz104/Business-Reporting-Tool/internal/errors"
	"github.com/VRaz104/Business-Reporting-Tool/internal/infrastructure"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		wantBOM bool
	}{
		{
			name: "headers and records",
			options: WriteOptions{
				Headers: []string{"Name", "Value"},
				Records: [][]string{{"a", "1"}, {"b, with comma", "2"}},
			},
		},
		{
			name: "with byte order mark",
			options: WriteOptions{
				Headers:   []string{"Name"},
				Records:   [][]string{{"a"}},
				BOMPrefix: true,
			},
			wantBOM: true,
		},
		{
			name:    "headers only",
			options: WriteOptions{Headers: []string{"Date", "Revenue"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writer := NewCSVWriter(dir, infrastructure.NewDiscardLogger())

			path, err := writer.WriteCSV("nested/out.csv", tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "nested", "out.csv"), path)

			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBOM, bytes.HasPrefix(content, utf8BOM))

			records, err := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM))).ReadAll()
			require.NoError(t, err)
			assert.Equal(t, append([][]string{tt.options.Headers}, tt.options.Records...), records)
		})
	}
}

func TestCSVWriter_AbsolutePathAndTruncate(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "abs.csv")
	writer := NewCSVWriter("/ignored/base", nil)

	_, err := writer.WriteSimpleCSV(target, []string{"h"}, [][]string{{"first"}, {"second"}})
	require.NoError(t, err)
	_, err = writer.WriteSimpleCSV(target, []string{"h"}, [][]string{{"only"}})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"h"}, {"only"}}, readCSV(t, target))
}

func TestCSVWriter_UnwritableDirectory(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	writer := NewCSVWriter(blocker, infrastructure.NewDiscardLogger())
	_, err := writer.WriteSimpleCSV("out.csv", []string{"h"}, nil)

	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeStorage))
	assert.Equal(t, errors.ExitStorage, errors.ExitCode(err))
}
