package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gradesync/pkg/contracts/domain"
)

// Format selects the export file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export extension %q, use .csv or .xlsx", filepath.Ext(path))
	}
}

// Export writes ds to w. CSV holds grade records only.
func Export(w io.Writer, format Format, ds domain.Dataset) error {
	switch format {
	case FormatCSV:
		return WriteGradesCSV(w, ds.Grades)
	case FormatXLSX:
		return WriteWorkbook(w, ds)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// ExportFile writes ds to path, creating parent directories
func ExportFile(path string, ds domain.Dataset) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Export(file, format, ds); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
