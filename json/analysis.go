package json

import (
	"github.com/fwojciec/datasage"
)

// Analysis is the JSON view of a dataset's summary and quality report.
type Analysis struct {
	Summary Summary `json:"summary"`
	Quality Quality `json:"quality"`
}

// NewAnalysis summarizes and assesses d.
func NewAnalysis(d datasage.Dataset) Analysis {
	return Analysis{
		Summary: NewSummary(datasage.Summarize(d)),
		Quality: NewQuality(datasage.Assess(d)),
	}
}

// Summary is the JSON view of a [datasage.Summary].
type Summary struct {
	Name          string   `json:"name"`
	Rows          int      `json:"rows"`
	Columns       int      `json:"columns"`
	Missing       int      `json:"missing"`
	DuplicateRows int      `json:"duplicate_rows"`
	ColumnDetails []Column `json:"column_details"`
}

// Column is the JSON view of a [datasage.ColumnSummary].
type Column struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Count    int    `json:"count"`
	Missing  int    `json:"missing"`
	Unique   int    `json:"unique"`
	Top      string `json:"top,omitempty"`
	TopCount int    `json:"top_count,omitempty"`
	Stats    *Stats `json:"stats,omitempty"`
}

// Stats is the JSON view of [datasage.Stats].
type Stats struct {
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// NewSummary converts s.
func NewSummary(s datasage.Summary) Summary {
	out := Summary{
		Name:          s.Name,
		Rows:          s.Rows,
		Columns:       len(s.Columns),
		Missing:       s.Missing,
		DuplicateRows: s.DuplicateRows,
		ColumnDetails: make([]Column, len(s.Columns)),
	}
	for i, c := range s.Columns {
		col := Column{
			Name:     c.Name,
			Kind:     string(c.Kind),
			Count:    c.Count,
			Missing:  c.Missing,
			Unique:   c.Unique,
			Top:      c.Top,
			TopCount: c.TopCount,
		}
		if st := c.Stats; st != nil {
			col.Stats = &Stats{Mean: st.Mean, Std: st.Std, Min: st.Min, Q1: st.Q1, Median: st.Median, Q3: st.Q3, Max: st.Max}
		}
		out.ColumnDetails[i] = col
	}
	return out
}

// Quality is the JSON view of a [datasage.QualityReport] and its
// suggestions.
type Quality struct {
	Score       float64             `json:"score"`
	Missing     Missing             `json:"missing_data"`
	Duplicates  Duplicates          `json:"duplicates"`
	Outliers    []Outlier           `json:"outliers"`
	Types       []Type              `json:"data_types"`
	Suggestions map[string][]string `json:"suggestions"`
}

// Missing summarises missing cells.
type Missing struct {
	Total           int             `json:"total_missing"`
	Percentage      float64         `json:"percentage"`
	ColumnsAffected int             `json:"columns_with_missing"`
	Severity        string          `json:"severity"`
	Patterns        []MissingColumn `json:"patterns,omitempty"`
}

// MissingColumn describes missing cells of one column.
type MissingColumn struct {
	Column     string  `json:"column"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Pattern    string  `json:"pattern"`
}

// Duplicates summarises duplicate rows.
type Duplicates struct {
	Total      int     `json:"total_duplicates"`
	Percentage float64 `json:"percentage"`
}

// Outlier describes outliers of one numeric column.
type Outlier struct {
	Column   string  `json:"column"`
	IQR      int     `json:"iqr_outliers"`
	ZScore   int     `json:"zscore_outliers"`
	Lower    float64 `json:"lower_bound"`
	Upper    float64 `json:"upper_bound"`
	Severity string  `json:"severity"`
}

// Type is a column kind suggestion.
type Type struct {
	Column    string `json:"column"`
	Current   string `json:"current"`
	Suggested string `json:"suggested"`
}

// NewQuality converts q and attaches its suggestions by category.
func NewQuality(q datasage.QualityReport) Quality {
	out := Quality{
		Score: q.Score,
		Missing: Missing{
			Total:           q.Missing.Total,
			Percentage:      q.Missing.Percentage,
			ColumnsAffected: q.Missing.ColumnsAffected,
			Severity:        string(q.Missing.Severity),
		},
		Duplicates:  Duplicates{Total: q.Duplicates.Total, Percentage: q.Duplicates.Percentage},
		Outliers:    make([]Outlier, len(q.Outliers)),
		Types:       make([]Type, len(q.Types)),
		Suggestions: map[string][]string{},
	}
	for _, m := range q.Missing.PerColumn {
		out.Missing.Patterns = append(out.Missing.Patterns, MissingColumn{
			Column: m.Column, Count: m.Count, Percentage: m.Percentage, Pattern: string(m.Pattern),
		})
	}
	for i, o := range q.Outliers {
		out.Outliers[i] = Outlier{Column: o.Column, IQR: o.IQR, ZScore: o.ZScore, Lower: o.Lower, Upper: o.Upper, Severity: string(o.Severity)}
	}
	for i, t := range q.Types {
		out.Types[i] = Type{Column: t.Column, Current: string(t.Current), Suggested: string(t.Suggested)}
	}
	s := datasage.Suggest(q)
	for key, lines := range map[string][]string{
		"missing_data":  s.MissingData,
		"duplicates":    s.Duplicates,
		"outliers":      s.Outliers,
		"data_types":    s.DataTypes,
		"text_cleaning": s.TextCleaning,
	} {
		if len(lines) > 0 {
			out.Suggestions[key] = lines
		}
	}
	return out
}

// Query is the JSON view of a local query answer.
type Query struct {
	Question string     `json:"question"`
	Answer   string     `json:"answer"`
	Columns  []string   `json:"columns,omitempty"`
	Rows     [][]string `json:"rows,omitempty"`
}

// NewQuery converts the answer r to question.
func NewQuery(question string, r datasage.QueryResult) Query {
	q := Query{Question: question, Answer: r.Text}
	if r.Table != nil {
		q.Columns = r.Table.Columns
		q.Rows = r.Table.Rows
	}
	return q
}
