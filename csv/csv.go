// Package csv loads and writes datasets as comma-separated values.
package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/datasage"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Read parses CSV from r. The first record is the header. Ragged records
// are accepted and padded to the header width; a leading UTF-8 BOM is
// dropped. name becomes Dataset.Name.
func Read(r io.Reader, name string) (datasage.Dataset, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return datasage.Dataset{}, fmt.Errorf("csv: %s is empty: %w", name, datasage.ErrInvalidInput)
	}
	if err != nil {
		return datasage.Dataset{}, fmt.Errorf("csv: %s: %w", name, err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return datasage.Dataset{}, fmt.Errorf("csv: %s: %w", name, err)
		}
		if blank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return datasage.NewDataset(name, header, rows)
}

// ReadFile opens and parses the CSV file at path. The dataset is named
// after the file.
func ReadFile(path string) (datasage.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return datasage.Dataset{}, fmt.Errorf("csv: %w", err)
	}
	defer f.Close()
	return Read(f, filepath.Base(path))
}

// Write writes d as CSV with a header record.
func Write(w io.Writer, d datasage.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	if err := cw.WriteAll(d.Rows); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	return nil
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
