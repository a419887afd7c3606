package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fwojciec/datasage"
	"github.com/fwojciec/datasage/csv"
	"github.com/fwojciec/datasage/excel"
)

// loadFile reads the dataset at path, choosing the format by extension.
func loadFile(path, sheet string) (datasage.Dataset, error) {
	if err := checkFormat(path); err != nil {
		return datasage.Dataset{}, err
	}
	if excel.Supported(path) {
		return excel.ReadFile(path, sheet)
	}
	return csv.ReadFile(path)
}

// loadUpload reads an uploaded file. name selects the format.
func loadUpload(name string, r io.Reader) (datasage.Dataset, error) {
	if err := checkFormat(name); err != nil {
		return datasage.Dataset{}, err
	}
	base := filepath.Base(name)
	if excel.Supported(name) {
		return excel.Read(r, base, "")
	}
	return csv.Read(r, base)
}

func checkFormat(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".csv", ext == ".txt", excel.Supported(path):
		return nil
	case ext == ".xls":
		return fmt.Errorf("%s: legacy .xls workbooks are not supported, save as .xlsx: %w", path, datasage.ErrUnsupportedFormat)
	default:
		return fmt.Errorf("%s: expected .csv, .xlsx or .xlsm: %w", path, datasage.ErrUnsupportedFormat)
	}
}

// writeDataset writes d as CSV or, for .xlsx/.xlsm paths, as a workbook.
func writeDataset(w io.Writer, path string, d datasage.Dataset) error {
	if excel.Supported(path) {
		return excel.Write(w, d)
	}
	return csv.Write(w, d)
}
