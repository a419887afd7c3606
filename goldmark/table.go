package goldmark

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/datasage"
	"github.com/mattn/go-runewidth"
)

type align int

const (
	alignLeft align = iota
	alignRight
	alignCenter
)

// minCell is the narrowest a column is squeezed to before clipping.
const minCell = 4

// table is a grid of plain cells laid out in display columns, so wide
// runes (CJK, emoji) keep the borders straight.
type table struct {
	header []string
	rows   [][]string
	align  []align
}

func (t table) columns() int {
	n := len(t.header)
	for _, r := range t.rows {
		n = max(n, len(r))
	}
	return n
}

// widths returns the display width of every column, shrinking the widest
// ones until the table fits in width.
func (t table) widths(width int) []int {
	n := t.columns()
	ws := make([]int, n)
	measure := func(cells []string) {
		for i, c := range cells {
			ws[i] = max(ws[i], runewidth.StringWidth(c))
		}
	}
	measure(t.header)
	for _, r := range t.rows {
		measure(r)
	}
	budget := width - (3*n + 1) // "│ " + " │" framing per column
	for {
		total, widest := 0, 0
		for i, w := range ws {
			total += w
			if w > ws[widest] {
				widest = i
			}
		}
		if total <= budget || ws[widest] <= minCell {
			return ws
		}
		ws[widest]--
	}
}

func (t table) render(width int, header, border lipgloss.Style) string {
	n := t.columns()
	if n == 0 {
		return ""
	}
	ws := t.widths(width)
	bar := border.Render("│")
	line := func(left, mid, right string) string {
		parts := make([]string, n)
		for i, w := range ws {
			parts[i] = strings.Repeat("─", w+2)
		}
		return border.Render(left+strings.Join(parts, mid)+right) + "\n"
	}
	row := func(cells []string, style *lipgloss.Style) string {
		var b strings.Builder
		b.WriteString(bar)
		for i, w := range ws {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			a := alignLeft
			if i < len(t.align) {
				a = t.align[i]
			}
			cell = pad(runewidth.Truncate(cell, w, "…"), w, a)
			if style != nil {
				cell = style.Render(cell)
			}
			b.WriteString(" " + cell + " " + bar)
		}
		b.WriteString("\n")
		return b.String()
	}

	var b strings.Builder
	b.WriteString(line("┌", "┬", "┐"))
	if len(t.header) > 0 {
		b.WriteString(row(t.header, &header))
		b.WriteString(line("├", "┼", "┤"))
	}
	for _, r := range t.rows {
		b.WriteString(row(r, nil))
	}
	b.WriteString(line("└", "┴", "┘"))
	return b.String()
}

func pad(s string, w int, a align) string {
	switch a {
	case alignRight:
		return runewidth.FillLeft(s, w)
	case alignCenter:
		gap := w - runewidth.StringWidth(s)
		left := gap / 2
		return strings.Repeat(" ", left) + runewidth.FillRight(s, w-left)
	default:
		return runewidth.FillRight(s, w)
	}
}

// SummaryTable renders the per-column part of s as a bordered table that
// fits in width terminal columns.
func SummaryTable(s datasage.Summary, width int, theme datasage.Theme) string {
	if width <= 0 {
		width = defaultWidth
	}
	t := table{
		header: []string{"column", "type", "values", "missing", "unique", "mean", "min", "max", "top"},
		align:  []align{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	}
	for _, c := range s.Columns {
		row := []string{c.Name, string(c.Kind), strconv.Itoa(c.Count), strconv.Itoa(c.Missing), strconv.Itoa(c.Unique), "", "", "", c.Top}
		if st := c.Stats; st != nil {
			row[5], row[6], row[7], row[8] = num(st.Mean), num(st.Min), num(st.Max), ""
		}
		t.rows = append(t.rows, row)
	}
	r := newRenderer(theme)
	return strings.TrimRight(t.render(width, r.accent, r.muted), "\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// DatasetTable renders the rows of d as a bordered table. Numeric columns
// are right-aligned.
func DatasetTable(d datasage.Dataset, width int, theme datasage.Theme) string {
	if width <= 0 {
		width = defaultWidth
	}
	t := table{header: d.Columns, rows: d.Rows, align: make([]align, len(d.Columns))}
	for i := range d.Columns {
		if d.Kind(i) == datasage.KindNumeric {
			t.align[i] = alignRight
		}
	}
	r := newRenderer(theme)
	return strings.TrimRight(t.render(width, r.accent, r.muted), "\n")
}
