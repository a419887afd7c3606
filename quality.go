package datasage

import (
	"fmt"
	"math"
	"strings"
)

// MissingPattern grades how much of a column is missing.
type MissingPattern string

const (
	MissingNone     MissingPattern = "none"
	MissingSparse   MissingPattern = "sparse"   // < 5%
	MissingModerate MissingPattern = "moderate" // < 30%
	MissingHeavy    MissingPattern = "heavy"    // < 100%
	MissingComplete MissingPattern = "complete" // every cell
)

// Severity grades a quality issue.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// QualityReport is the data quality assessment of a Dataset.
type QualityReport struct {
	Rows       int
	Columns    int
	Missing    MissingReport
	Duplicates DuplicateReport
	Outliers   []OutlierReport
	Types      []TypeReport
	Score      float64 // 0..100
}

// MissingReport summarises missing cells.
type MissingReport struct {
	Total           int
	Percentage      float64
	ColumnsAffected int
	Severity        Severity
	PerColumn       []ColumnMissing
}

// ColumnMissing describes missing cells of one column.
type ColumnMissing struct {
	Column     string
	Count      int
	Percentage float64
	Pattern    MissingPattern
}

// DuplicateReport summarises duplicate rows.
type DuplicateReport struct {
	Total      int
	Percentage float64
}

// OutlierReport describes outliers of one numeric column.
type OutlierReport struct {
	Column   string
	IQR      int
	ZScore   int
	Lower    float64
	Upper    float64
	Severity Severity
}

// TypeReport suggests a better kind for a column.
type TypeReport struct {
	Column    string
	Current   Kind
	Suggested Kind
}

// NeedsChange reports whether the suggested kind differs from the current one.
func (t TypeReport) NeedsChange() bool { return t.Current != t.Suggested }

// OutlierCount returns the total IQR outliers across columns.
func (q QualityReport) OutlierCount() int {
	n := 0
	for _, o := range q.Outliers {
		n += o.IQR
	}
	return n
}

// Assess computes the quality report of d.
func Assess(d Dataset) QualityReport {
	q := QualityReport{Rows: d.Len(), Columns: len(d.Columns)}
	cells := d.Len() * len(d.Columns)

	for i, name := range d.Columns {
		col := d.Column(i)
		n := 0
		for _, c := range col {
			if IsMissing(c) {
				n++
			}
		}
		if n > 0 {
			q.Missing.ColumnsAffected++
		}
		q.Missing.Total += n
		q.Missing.PerColumn = append(q.Missing.PerColumn, ColumnMissing{
			Column:     name,
			Count:      n,
			Percentage: percent(n, d.Len()),
			Pattern:    missingPattern(n, d.Len()),
		})

		current := InferKind(col)
		q.Types = append(q.Types, TypeReport{Column: name, Current: current, Suggested: suggestKind(col, current)})

		if current == KindNumeric {
			values, _ := d.Numeric(i)
			q.Outliers = append(q.Outliers, outliers(name, values))
		}
	}
	q.Missing.Percentage = percent(q.Missing.Total, cells)
	q.Missing.Severity = severity(q.Missing.Percentage, 5, 20)

	dups := len(duplicateRows(d))
	q.Duplicates = DuplicateReport{Total: dups, Percentage: percent(dups, d.Len())}

	q.Score = score(q, cells)
	return q
}

func outliers(name string, values []float64) OutlierReport {
	st := Describe(values)
	lower, upper := st.IQRBounds()
	r := OutlierReport{Column: name, Lower: round(lower, 4), Upper: round(upper, 4)}
	for _, v := range values {
		if v < lower || v > upper {
			r.IQR++
		}
		if st.Std > 0 && math.Abs(v-st.Mean)/st.Std > 3 {
			r.ZScore++
		}
	}
	r.Severity = severity(percent(r.IQR, len(values)), 1, 5)
	return r
}

// suggestKind returns a better kind for text columns whose values become
// numeric once currency, percent and thousands markers are stripped.
func suggestKind(cells []string, current Kind) Kind {
	if current != KindText {
		return current
	}
	present := 0
	for _, c := range cells {
		if IsMissing(c) {
			continue
		}
		present++
		if _, err := ParseNumber(stripNumericMarkers(c)); err != nil {
			return current
		}
	}
	if present == 0 {
		return current
	}
	return KindNumeric
}

func stripNumericMarkers(cell string) string {
	r := strings.NewReplacer("$", "", "%", "", ",", "", "€", "", "£", "")
	return strings.TrimSpace(r.Replace(cell))
}

func missingPattern(n, total int) MissingPattern {
	switch {
	case n == 0:
		return MissingNone
	case n == total:
		return MissingComplete
	}
	p := percent(n, total)
	switch {
	case p < 5:
		return MissingSparse
	case p < 30:
		return MissingModerate
	default:
		return MissingHeavy
	}
}

func severity(pct, medium, high float64) Severity {
	switch {
	case pct == 0:
		return SeverityNone
	case pct < medium:
		return SeverityLow
	case pct < high:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round(float64(n)*100/float64(total), 2)
}

func score(q QualityReport, cells int) float64 {
	s := 100.0
	s -= math.Min(q.Missing.Percentage*0.5, 40)
	s -= math.Min(q.Duplicates.Percentage*0.5, 20)
	s -= math.Min(percent(q.OutlierCount(), cells)*0.3, 20)
	changes := 0
	for _, t := range q.Types {
		if t.NeedsChange() {
			changes++
		}
	}
	s -= math.Min(float64(changes)*2, 20)
	return round(math.Max(0, math.Min(100, s)), 1)
}

// Suggestions groups cleaning recommendations by category.
type Suggestions struct {
	MissingData  []string
	Duplicates   []string
	Outliers     []string
	DataTypes    []string
	TextCleaning []string
}

// Suggest derives cleaning recommendations from a quality report.
func Suggest(q QualityReport) Suggestions {
	var s Suggestions
	for _, m := range q.Missing.PerColumn {
		switch m.Pattern {
		case MissingSparse, MissingModerate:
			s.MissingData = append(s.MissingData,
				fmt.Sprintf("Column %q has %.2f%% missing values: fill with median (numeric) or mode (text).", m.Column, m.Percentage))
		case MissingHeavy:
			s.MissingData = append(s.MissingData,
				fmt.Sprintf("Column %q has %.2f%% missing values: consider dropping the column.", m.Column, m.Percentage))
		case MissingComplete:
			s.MissingData = append(s.MissingData,
				fmt.Sprintf("Column %q is entirely empty: drop it.", m.Column))
		}
	}
	if q.Duplicates.Total > 0 {
		s.Duplicates = append(s.Duplicates,
			fmt.Sprintf("Remove %d duplicate rows (%.2f%% of the data).", q.Duplicates.Total, q.Duplicates.Percentage))
	}
	for _, o := range q.Outliers {
		if o.IQR == 0 {
			continue
		}
		s.Outliers = append(s.Outliers,
			fmt.Sprintf("Column %q has %d values outside [%s, %s]: review, cap or remove them.",
				o.Column, o.IQR, formatFloat(o.Lower), formatFloat(o.Upper)))
	}
	for _, t := range q.Types {
		if t.NeedsChange() {
			s.DataTypes = append(s.DataTypes,
				fmt.Sprintf("Convert column %q from %s to %s.", t.Column, t.Current, t.Suggested))
		}
		if t.Current == KindText {
			s.TextCleaning = append(s.TextCleaning,
				fmt.Sprintf("Trim and normalise whitespace in column %q.", t.Column))
		}
	}
	return s
}

// Empty reports whether there are no suggestions.
func (s Suggestions) Empty() bool {
	return len(s.MissingData)+len(s.Duplicates)+len(s.Outliers)+len(s.DataTypes)+len(s.TextCleaning) == 0
}
