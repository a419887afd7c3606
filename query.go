package datasage

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// QueryResult is the answer to a local data query. Table is set when the
// answer is tabular.
type QueryResult struct {
	Text  string
	Table *Dataset
}

var (
	headPattern   = regexp.MustCompile(`(?:first|head|top)\s+(\d+)`)
	uniquePattern = regexp.MustCompile(`unique values? (?:in|of|for) (?:column )?["'` + "`" + `]?([^"'` + "`" + `?]+?)["'` + "`" + `]?\s*\??$`)
)

// Query answers common questions about d without calling an LLM. It fails
// with ErrInvalidInput for an empty question and ErrUnrecognizedQuery when
// no handler matches, so that callers can fall back to the LLM.
func Query(d Dataset, question string) (QueryResult, error) {
	q := strings.ToLower(strings.TrimSpace(question))
	if q == "" {
		return QueryResult{}, fmt.Errorf("empty question: %w", ErrInvalidInput)
	}
	switch {
	case containsAny(q, "null", "missing"):
		return queryMissing(d), nil
	case containsAny(q, "data type", "dtype", "types"):
		return queryTypes(d), nil
	case containsAny(q, "correlat"):
		return queryCorrelation(d), nil
	case strings.Contains(q, "unique"):
		return queryUnique(d, q)
	case containsAny(q, "statistic", "describe", "summary", "mean", "average"):
		return queryStats(d), nil
	case containsAny(q, "shape", "how many rows", "size", "row count"):
		return QueryResult{Text: fmt.Sprintf("The dataset has %d rows and %d columns.", d.Len(), len(d.Columns))}, nil
	case containsAny(q, "columns", "column names", "fields"):
		return QueryResult{Text: "Columns: " + strings.Join(d.Columns, ", ")}, nil
	case containsAny(q, "head", "first", "preview", "sample"):
		n := 5
		if m := headPattern.FindStringSubmatch(q); m != nil {
			var err error
			if n, err = strconv.Atoi(m[1]); err != nil {
				n = d.Len()
			}
		}
		h := d.Head(n)
		return QueryResult{Text: fmt.Sprintf("First %d rows:", h.Len()), Table: &h}, nil
	}
	return QueryResult{}, fmt.Errorf("%q: %w", question, ErrUnrecognizedQuery)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func queryMissing(d Dataset) QueryResult {
	rows := make([][]string, 0, len(d.Columns))
	total := 0
	for i, name := range d.Columns {
		n := 0
		for _, c := range d.Column(i) {
			if IsMissing(c) {
				n++
			}
		}
		total += n
		rows = append(rows, []string{name, strconv.Itoa(n), formatFloat(percent(n, d.Len()))})
	}
	t := Dataset{Name: "missing_values", Columns: []string{"column", "missing", "percent"}, Rows: rows}
	return QueryResult{Text: fmt.Sprintf("%d missing values in total.", total), Table: &t}
}

func queryTypes(d Dataset) QueryResult {
	rows := make([][]string, 0, len(d.Columns))
	for i, name := range d.Columns {
		rows = append(rows, []string{name, string(d.Kind(i))})
	}
	t := Dataset{Name: "data_types", Columns: []string{"column", "kind"}, Rows: rows}
	return QueryResult{Text: "Inferred column types:", Table: &t}
}

func queryStats(d Dataset) QueryResult {
	cols := []string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	var rows [][]string
	for i, name := range d.Columns {
		values, ok := d.Numeric(i)
		if !ok || len(values) == 0 {
			continue
		}
		st := Describe(values)
		rows = append(rows, []string{
			name, strconv.Itoa(st.Count),
			formatFloat(st.Mean), formatFloat(st.Std), formatFloat(st.Min),
			formatFloat(st.Q1), formatFloat(st.Median), formatFloat(st.Q3), formatFloat(st.Max),
		})
	}
	if len(rows) == 0 {
		return QueryResult{Text: "No numeric columns to describe."}
	}
	t := Dataset{Name: "statistics", Columns: cols, Rows: rows}
	return QueryResult{Text: "Descriptive statistics of numeric columns:", Table: &t}
}

func queryCorrelation(d Dataset) QueryResult {
	pairs := Correlations(d)
	if len(pairs) == 0 {
		return QueryResult{Text: "At least two numeric columns with variance are needed for correlation."}
	}
	rows := make([][]string, len(pairs))
	for i, p := range pairs {
		rows[i] = []string{p.A, p.B, formatFloat(p.R)}
	}
	t := Dataset{Name: "correlation", Columns: []string{"column_a", "column_b", "pearson_r"}, Rows: rows}
	return QueryResult{Text: "Pairwise correlations, strongest first:", Table: &t}
}

func queryUnique(d Dataset, q string) (QueryResult, error) {
	m := uniquePattern.FindStringSubmatch(q)
	if m == nil {
		rows := make([][]string, len(d.Columns))
		for i, name := range d.Columns {
			rows[i] = []string{name, strconv.Itoa(len(distinct(d.Column(i))))}
		}
		t := Dataset{Name: "unique_counts", Columns: []string{"column", "unique"}, Rows: rows}
		return QueryResult{Text: "Unique value counts:", Table: &t}, nil
	}
	name := strings.TrimSpace(m[1])
	i := d.ColumnIndex(name)
	if i < 0 {
		return QueryResult{}, fmt.Errorf("column %q not found: %w", name, ErrInvalidInput)
	}
	values := distinct(d.Column(i))
	return QueryResult{Text: fmt.Sprintf("%d unique values in %s: %s", len(values), d.Columns[i], strings.Join(values, ", "))}, nil
}

func distinct(cells []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range cells {
		if IsMissing(c) {
			continue
		}
		c = strings.TrimSpace(c)
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
