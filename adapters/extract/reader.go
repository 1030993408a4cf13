// Package extract reads raw trip extracts. An extract is a 13-column
// tabular file (CSV or XLSX); individual malformed rows surface as
// row-level errors and never abort the batch.
package extract

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cycleshare/ports"

	"github.com/xuri/excelize/v2"
)

// FileSource reads one extract file, sniffing CSV vs XLSX by extension.
type FileSource struct {
	filePath string
	fileType string // "csv" or "xlsx"
}

// NewFileSource creates a source for the given extract file.
func NewFileSource(filePath string) *FileSource {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" {
		fileType = "xlsx"
	}
	return &FileSource{filePath: filePath, fileType: fileType}
}

// Name identifies the extract in load reports and logs.
func (s *FileSource) Name() string {
	return filepath.Base(s.filePath)
}

// Read parses the extract into per-row results. The first row is
// treated as the header and skipped.
func (s *FileSource) Read(ctx context.Context) ([]ports.RowResult, error) {
	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("extract file not found: %s", s.filePath)
	}

	switch s.fileType {
	case "csv":
		return s.readCSV(ctx)
	case "xlsx":
		return s.readXLSX(ctx)
	default:
		return nil, fmt.Errorf("unsupported extract type: %s", s.fileType)
	}
}

// readCSV reads rows one at a time so that a malformed record (wrong
// column count, bad quoting) is reported for that row only instead of
// aborting the whole file, as ReadAll would.
func (s *FileSource) readCSV(ctx context.Context) ([]ports.RowResult, error) {
	file, err := os.Open(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // column-count checks happen per row in parseRow

	// Header row
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("extract %s is empty", s.Name())
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	var results []ports.RowResult
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			results = append(results, ports.RowResult{Line: line, Err: err})
			continue
		}
		results = append(results, parseRow(line, record))
	}

	return results, nil
}

// readXLSX reads Sheet1 of an Excel extract.
func (s *FileSource) readXLSX(ctx context.Context) ([]ports.RowResult, error) {
	f, err := excelize.OpenFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("extract %s is empty", s.Name())
	}

	var results []ports.RowResult
	for i := 1; i < len(rows); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, parseRow(i, rows[i]))
	}

	return results, nil
}
