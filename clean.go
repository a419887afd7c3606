package datasage

import (
	"fmt"
	"strconv"
	"strings"
)

// CleanOp names an automated cleaning operation.
type CleanOp string

const (
	OpRemoveDuplicates   CleanOp = "remove_duplicates"
	OpFixDataTypes       CleanOp = "fix_data_types"
	OpHandleMissingBasic CleanOp = "handle_missing_basic"
	OpCleanText          CleanOp = "clean_text"
	OpRemoveOutliers     CleanOp = "remove_outliers"
)

// DefaultCleanOps is the selection applied when the user picks none.
var DefaultCleanOps = []CleanOp{OpRemoveDuplicates, OpFixDataTypes, OpHandleMissingBasic}

// ParseCleanOp validates an operation name.
func ParseCleanOp(s string) (CleanOp, error) {
	switch op := CleanOp(strings.TrimSpace(s)); op {
	case OpRemoveDuplicates, OpFixDataTypes, OpHandleMissingBasic, OpCleanText, OpRemoveOutliers:
		return op, nil
	}
	return "", fmt.Errorf("unknown cleaning operation %q: %w", s, ErrInvalidInput)
}

// CleaningSummary reports what Clean changed.
type CleaningSummary struct {
	OriginalRows int
	OriginalCols int
	Rows         int
	Cols         int
	Log          []string
}

// RowsRemoved returns the number of rows dropped.
func (s CleaningSummary) RowsRemoved() int { return s.OriginalRows - s.Rows }

// Clean applies ops in order to a copy of d. The input is never mutated.
func Clean(d Dataset, ops ...CleanOp) (Dataset, CleaningSummary, error) {
	if len(ops) == 0 {
		return Dataset{}, CleaningSummary{}, fmt.Errorf("no cleaning operations selected: %w", ErrInvalidInput)
	}
	for _, op := range ops {
		if _, err := ParseCleanOp(string(op)); err != nil {
			return Dataset{}, CleaningSummary{}, err
		}
	}
	out := d.Clone()
	sum := CleaningSummary{OriginalRows: d.Len(), OriginalCols: len(d.Columns)}
	for _, op := range ops {
		var msg string
		switch op {
		case OpRemoveDuplicates:
			out, msg = removeDuplicates(out)
		case OpFixDataTypes:
			msg = fixDataTypes(out)
		case OpHandleMissingBasic:
			msg = fillMissing(out)
		case OpCleanText:
			msg = cleanText(out)
		case OpRemoveOutliers:
			out, msg = removeOutliers(out)
		}
		sum.Log = append(sum.Log, msg)
	}
	sum.Rows, sum.Cols = out.Len(), len(out.Columns)
	return out, sum, nil
}

func removeDuplicates(d Dataset) (Dataset, string) {
	dups := duplicateRows(d)
	if len(dups) == 0 {
		return d, "No duplicate rows found"
	}
	drop := make(map[int]bool, len(dups))
	for _, i := range dups {
		drop[i] = true
	}
	d.Rows = filterRows(d.Rows, func(i int, _ []string) bool { return !drop[i] })
	return d, fmt.Sprintf("Removed %d duplicate rows", len(dups))
}

// fixDataTypes strips currency, percent and thousands markers from text
// columns that become numeric once stripped. d is modified in place.
func fixDataTypes(d Dataset) string {
	var fixed []string
	for i, name := range d.Columns {
		col := d.Column(i)
		current := InferKind(col)
		if suggestKind(col, current) == current {
			continue
		}
		for _, row := range d.Rows {
			if !IsMissing(row[i]) {
				row[i] = stripNumericMarkers(row[i])
			}
		}
		fixed = append(fixed, name)
	}
	if len(fixed) == 0 {
		return "No data type conversions needed"
	}
	return fmt.Sprintf("Converted to numeric: %s", strings.Join(fixed, ", "))
}

// fillMissing fills numeric columns with the median and other columns with
// the mode, or "Unknown" when no value is present. d is modified in place.
func fillMissing(d Dataset) string {
	filled := 0
	for i := range d.Columns {
		col := d.Column(i)
		var fill string
		switch InferKind(col) {
		case KindNumeric:
			values, _ := d.Numeric(i)
			fill = strconv.FormatFloat(Describe(values).Median, 'f', -1, 64)
		case KindEmpty:
			fill = "Unknown"
		default:
			counts := make(map[string]int)
			for _, c := range col {
				if !IsMissing(c) {
					counts[strings.TrimSpace(c)]++
				}
			}
			fill, _ = mostFrequent(counts)
		}
		for _, row := range d.Rows {
			if IsMissing(row[i]) {
				row[i] = fill
				filled++
			}
		}
	}
	if filled == 0 {
		return "No missing values to fill"
	}
	return fmt.Sprintf("Filled %d missing values (median for numeric, mode for text)", filled)
}

func cleanText(d Dataset) string {
	changed := 0
	for i := range d.Columns {
		if InferKind(d.Column(i)) != KindText {
			continue
		}
		for _, row := range d.Rows {
			clean := strings.Join(strings.Fields(row[i]), " ")
			if clean != row[i] {
				row[i] = clean
				changed++
			}
		}
	}
	return fmt.Sprintf("Normalised whitespace in %d text cells", changed)
}

func removeOutliers(d Dataset) (Dataset, string) {
	type bounds struct{ lower, upper float64 }
	limits := make(map[int]bounds)
	for i := range d.Columns {
		if InferKind(d.Column(i)) != KindNumeric {
			continue
		}
		values, _ := d.Numeric(i)
		lo, hi := Describe(values).IQRBounds()
		limits[i] = bounds{lo, hi}
	}
	before := d.Len()
	d.Rows = filterRows(d.Rows, func(_ int, row []string) bool {
		for i, b := range limits {
			if IsMissing(row[i]) {
				continue
			}
			v, err := ParseNumber(row[i])
			if err == nil && (v < b.lower || v > b.upper) {
				return false
			}
		}
		return true
	})
	return d, fmt.Sprintf("Removed %d rows with outliers (IQR method)", before-d.Len())
}

func filterRows(rows [][]string, keep func(int, []string) bool) [][]string {
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		if keep(i, r) {
			out = append(out, r)
		}
	}
	return out
}
