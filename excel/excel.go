// Package excel loads and writes datasets as Excel workbooks using excelize.
package excel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/datasage"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used by Write.
const DefaultSheet = "Data"

// Supported reports whether path has an extension this package can read.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// Read parses a workbook from r. sheet selects the worksheet; empty means
// the first one. The first row of the sheet is the header.
func Read(r io.Reader, name, sheet string) (datasage.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return datasage.Dataset{}, fmt.Errorf("excel: %s: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return datasage.Dataset{}, fmt.Errorf("excel: %s has no sheets: %w", name, datasage.ErrInvalidInput)
	}
	if sheet == "" {
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return datasage.Dataset{}, fmt.Errorf("excel: %s: sheet %q: %w", name, sheet, err)
	}
	if len(rows) == 0 {
		return datasage.Dataset{}, fmt.Errorf("excel: %s: sheet %q is empty: %w", name, sheet, datasage.ErrInvalidInput)
	}

	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		body = append(body, row)
	}
	return datasage.NewDataset(name, rows[0], body)
}

// ReadFile opens the workbook at path. Legacy .xls files are rejected with
// ErrUnsupportedFormat.
func ReadFile(path, sheet string) (datasage.Dataset, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return datasage.Dataset{}, fmt.Errorf("excel: %s: legacy .xls workbooks are not supported, save as .xlsx: %w",
			filepath.Base(path), datasage.ErrUnsupportedFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return datasage.Dataset{}, fmt.Errorf("excel: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path), sheet)
}

// Sheets lists the worksheet names of the workbook in r.
func Sheets(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// Write writes d to w as a single-sheet workbook with a bold header row.
// Numeric cells are stored as numbers.
func Write(w io.Writer, d datasage.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DefaultSheet); err != nil {
		return fmt.Errorf("excel: %w", err)
	}

	header := make([]any, len(d.Columns))
	for i, c := range d.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: %w", err)
	}
	if err := f.SetRowStyle(DefaultSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("excel: %w", err)
	}

	numeric := make([]bool, len(d.Columns))
	for i := range d.Columns {
		numeric[i] = d.Kind(i) == datasage.KindNumeric
	}
	for r, row := range d.Rows {
		cells := make([]any, len(row))
		for i, c := range row {
			cells[i] = cellValue(c, numeric[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return fmt.Errorf("excel: %w", err)
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &cells); err != nil {
			return fmt.Errorf("excel: row %d: %w", r+1, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("excel: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func cellValue(c string, numeric bool) any {
	if datasage.IsMissing(c) {
		return nil
	}
	if numeric {
		if v, err := datasage.ParseNumber(c); err == nil {
			return v
		}
	}
	return c
}
