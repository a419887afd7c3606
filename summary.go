package datasage

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Summary is the exploratory analysis of a Dataset.
type Summary struct {
	Name          string
	Rows          int
	Missing       int // total missing cells
	DuplicateRows int
	Columns       []ColumnSummary
}

// ColumnSummary describes one column.
type ColumnSummary struct {
	Name     string
	Kind     Kind
	Count    int // non-missing cells
	Missing  int
	Unique   int
	Top      string
	TopCount int
	Stats    *Stats // set for numeric columns
}

// Summarize computes the exploratory analysis of d.
func Summarize(d Dataset) Summary {
	s := Summary{
		Name:          d.Name,
		Rows:          d.Len(),
		DuplicateRows: len(duplicateRows(d)),
		Columns:       make([]ColumnSummary, len(d.Columns)),
	}
	for i, name := range d.Columns {
		cells := d.Column(i)
		cs := ColumnSummary{Name: name, Kind: InferKind(cells)}
		counts := make(map[string]int)
		for _, c := range cells {
			if IsMissing(c) {
				cs.Missing++
				continue
			}
			cs.Count++
			counts[strings.TrimSpace(c)]++
		}
		cs.Unique = len(counts)
		cs.Top, cs.TopCount = mostFrequent(counts)
		if cs.Kind == KindNumeric {
			values, _ := d.Numeric(i)
			st := Describe(values)
			cs.Stats = &st
		}
		s.Missing += cs.Missing
		s.Columns[i] = cs
	}
	return s
}

// mostFrequent returns the most frequent value, breaking ties by the
// lexically smallest value so results are deterministic.
func mostFrequent(counts map[string]int) (string, int) {
	var top string
	best := 0
	for v, n := range counts {
		if n > best || (n == best && v < top) {
			top, best = v, n
		}
	}
	return top, best
}

// duplicateRows returns the indices of rows that repeat an earlier row.
func duplicateRows(d Dataset) []int {
	seen := make(map[string]bool, len(d.Rows))
	var dups []int
	for i, row := range d.Rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			dups = append(dups, i)
			continue
		}
		seen[key] = true
	}
	return dups
}

// Column returns the summary for the named column.
func (s Summary) Column(name string) (ColumnSummary, bool) {
	for _, c := range s.Columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// NumericColumns returns the names of numeric columns in order.
func (s Summary) NumericColumns() []string {
	var out []string
	for _, c := range s.Columns {
		if c.Kind == KindNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// String renders the summary as plain text suitable for an LLM prompt.
func (s Summary) String() string {
	var b strings.Builder
	name := s.Name
	if name == "" {
		name = "dataset"
	}
	fmt.Fprintf(&b, "Dataset %q: %d rows, %d columns, %d missing cells, %d duplicate rows.\n",
		name, s.Rows, len(s.Columns), s.Missing, s.DuplicateRows)
	b.WriteString("Columns:\n")
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "- %s (%s): %d values, %d missing, %d unique", c.Name, c.Kind, c.Count, c.Missing, c.Unique)
		if c.Stats != nil {
			st := c.Stats
			fmt.Fprintf(&b, "; min %s, mean %s, median %s, max %s, std %s",
				formatFloat(st.Min), formatFloat(st.Mean), formatFloat(st.Median), formatFloat(st.Max), formatFloat(st.Std))
		} else if c.TopCount > 0 {
			fmt.Fprintf(&b, "; most frequent %q (%d)", c.Top, c.TopCount)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// CorrelationPair is the Pearson correlation of two numeric columns.
type CorrelationPair struct {
	A, B string
	R    float64
}

// Correlations returns the pairwise correlations of numeric columns,
// strongest first. Rows with a missing value in either column are skipped
// for that pair.
func Correlations(d Dataset) []CorrelationPair {
	var numeric []int
	for i := range d.Columns {
		if d.Kind(i) == KindNumeric {
			numeric = append(numeric, i)
		}
	}
	var pairs []CorrelationPair
	for a := 0; a < len(numeric); a++ {
		for b := a + 1; b < len(numeric); b++ {
			xs, ys := pairedValues(d, numeric[a], numeric[b])
			r, ok := Correlation(xs, ys)
			if !ok {
				continue
			}
			pairs = append(pairs, CorrelationPair{A: d.Columns[numeric[a]], B: d.Columns[numeric[b]], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return abs(pairs[i].R) > abs(pairs[j].R)
	})
	return pairs
}

func pairedValues(d Dataset, a, b int) (xs, ys []float64) {
	for _, row := range d.Rows {
		if IsMissing(row[a]) || IsMissing(row[b]) {
			continue
		}
		x, errX := ParseNumber(row[a])
		y, errY := ParseNumber(row[b])
		if errX != nil || errY != nil {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(round(v, 4), 'f', -1, 64)
}
