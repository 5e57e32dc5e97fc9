package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	fileTimestampLayout = "20060102_150405"
	cellDateLayout      = "2006-01-02"
	defaultSheet        = "Sheet1"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrEmptyWorkbook is returned when a workbook without sheets is written.
var ErrEmptyWorkbook = errors.New("workbook has no sheets")

// Sheet is one table of a workbook.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Workbook is the tabular form of a report.
type Workbook struct {
	Kind        string
	GeneratedAt time.Time
	Sheets      []Sheet
}

// FileName returns <Kind>_Report_<YYYYMMDD_HHMMSS>.xlsx.
func (w Workbook) FileName() string {
	return fmt.Sprintf("%s_Report_%s.xlsx", w.Kind, w.GeneratedAt.Format(fileTimestampLayout))
}

// WriteXLSX writes the workbook into dir, creating dir if needed, and returns the file path.
func WriteXLSX(dir string, w Workbook) (string, error) {
	if len(w.Sheets) == 0 {
		return "", ErrEmptyWorkbook
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating reports directory: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range w.Sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet.Name); err != nil {
				return "", err
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return "", err
		}

		if err := writeSheet(f, sheet); err != nil {
			return "", fmt.Errorf("writing sheet %q: %w", sheet.Name, err)
		}
	}

	path := filepath.Join(dir, w.FileName())
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}

	return path, nil
}

func writeSheet(f *excelize.File, sheet Sheet) error {
	header := make([]any, len(sheet.Header))
	for i, title := range sheet.Header {
		header[i] = title
	}

	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		values := make([]any, len(row))
		for j, v := range row {
			values[j] = cellValue(v)
		}

		if err = f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return err
		}
	}

	return nil
}

// cellValue converts decimals to numbers and dates to ISO calendar dates.
func cellValue(v any) any {
	switch value := v.(type) {
	case decimal.Decimal:
		return value.InexactFloat64()
	case time.Time:
		return value.Format(cellDateLayout)
	case fmt.Stringer:
		return value.String()
	default:
		return v
	}
}

// WriteJSON encodes a report as indented JSON.
func WriteJSON(out io.Writer, report any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	return encoder.Encode(report)
}
