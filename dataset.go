package datasage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Dataset is a loaded tabular file. Cells are kept as raw strings; typed
// views are derived on demand. Every row has len(Columns) cells.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Kind classifies the values of a column.
type Kind string

const (
	KindNumeric  Kind = "numeric"
	KindBoolean  Kind = "boolean"
	KindDatetime Kind = "datetime"
	KindText     Kind = "text"
	KindEmpty    Kind = "empty" // every cell is missing
)

// NewDataset constructs a Dataset, padding or truncating rows to the header
// width. It fails with ErrInvalidInput when there are no columns.
func NewDataset(name string, columns []string, rows [][]string) (Dataset, error) {
	if len(columns) == 0 {
		return Dataset{}, fmt.Errorf("dataset %q has no columns: %w", name, ErrInvalidInput)
	}
	cols := make([]string, len(columns))
	seen := make(map[string]int, len(columns))
	for i, c := range columns {
		c = strings.TrimSpace(c)
		if c == "" {
			c = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[c]; n > 0 {
			seen[c] = n + 1
			c = fmt.Sprintf("%s_%d", c, n+1)
		} else {
			seen[c] = 1
		}
		cols[i] = c
	}
	normalized := make([][]string, 0, len(rows))
	for _, r := range rows {
		row := make([]string, len(cols))
		copy(row, r)
		normalized = append(normalized, row)
	}
	return Dataset{Name: name, Columns: cols, Rows: normalized}, nil
}

// Len returns the number of rows.
func (d Dataset) Len() int { return len(d.Rows) }

// ColumnIndex returns the index of the named column, matching
// case-insensitively, or -1.
func (d Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	for i, c := range d.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Column returns a copy of the cells of column i.
func (d Dataset) Column(i int) []string {
	out := make([]string, len(d.Rows))
	for r, row := range d.Rows {
		out[r] = row[i]
	}
	return out
}

// Clone returns a deep copy.
func (d Dataset) Clone() Dataset {
	rows := make([][]string, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = append([]string(nil), r...)
	}
	return Dataset{
		Name:    d.Name,
		Columns: append([]string(nil), d.Columns...),
		Rows:    rows,
	}
}

// Head returns a dataset holding at most n leading rows.
func (d Dataset) Head(n int) Dataset {
	if n < 0 || n > len(d.Rows) {
		n = len(d.Rows)
	}
	out := d.Clone()
	out.Rows = out.Rows[:n]
	return out
}

// Numeric returns the parsed non-missing values of column i. ok is false
// when any non-missing cell is not numeric.
func (d Dataset) Numeric(i int) (values []float64, ok bool) {
	for _, row := range d.Rows {
		cell := row[i]
		if IsMissing(cell) {
			continue
		}
		v, err := ParseNumber(cell)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// Kind infers the kind of column i.
func (d Dataset) Kind(i int) Kind {
	return InferKind(d.Column(i))
}

var missingMarkers = map[string]bool{
	"nan":  true,
	"none": true,
	"null": true,
	"na":   true,
	"n/a":  true,
}

// IsMissing reports whether a raw cell counts as a missing value.
func IsMissing(cell string) bool {
	s := strings.TrimSpace(cell)
	if s == "" {
		return true
	}
	return missingMarkers[strings.ToLower(s)]
}

// ParseNumber parses a finite decimal cell, tolerating surrounding
// whitespace. Infinities, NaN and hex floats are rejected.
func ParseNumber(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if strings.ContainsAny(s, "xX_") {
		return 0, fmt.Errorf("parse number %q: %w", s, strconv.ErrSyntax)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("parse number %q: %w", s, strconv.ErrSyntax)
	}
	return v, nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
}

// ParseDate parses a cell using the supported date layouts.
func ParseDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isBool(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

// InferKind classifies a column from its raw cells.
func InferKind(cells []string) Kind {
	numeric, boolean, datetime := true, true, true
	present := 0
	for _, c := range cells {
		if IsMissing(c) {
			continue
		}
		present++
		if numeric {
			if _, err := ParseNumber(c); err != nil {
				numeric = false
			}
		}
		if boolean && !isBool(c) {
			boolean = false
		}
		if datetime {
			if _, ok := ParseDate(c); !ok {
				datetime = false
			}
		}
		if !numeric && !boolean && !datetime {
			return KindText
		}
	}
	switch {
	case present == 0:
		return KindEmpty
	case numeric:
		return KindNumeric
	case boolean:
		return KindBoolean
	case datetime:
		return KindDatetime
	default:
		return KindText
	}
}
