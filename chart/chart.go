// Package chart renders dataset charts as PNG images using go-chart.
package chart

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/fwojciec/datasage"
	gochart "github.com/wcharczuk/go-chart/v2"
)

const (
	defaultWidth  = 1024
	defaultHeight = 576
	defaultBins   = 10

	// maxCategories bounds bar charts; pie charts fold the rest into "other".
	maxCategories = 20
	maxSlices     = 8
)

// Renderer is the chart [datasage.Renderer]. It draws out.Chart over
// out.Dataset and ignores the completion text.
type Renderer struct {
	Width  int
	Height int
}

// Interface compliance check.
var _ datasage.Renderer = Renderer{}

// Render implements [datasage.Renderer].
func (r Renderer) Render(_ context.Context, out datasage.Output, w io.Writer) error {
	if out.Dataset == nil {
		return fmt.Errorf("chart: no dataset loaded: %w", datasage.ErrInvalidInput)
	}
	return r.Draw(w, *out.Dataset, out.Chart)
}

// Draw writes a PNG chart of d to w.
func (r Renderer) Draw(w io.Writer, d datasage.Dataset, spec datasage.ChartSpec) error {
	spec, err := Resolve(d, spec)
	if err != nil {
		return err
	}
	width, height := r.Width, r.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	switch spec.Kind {
	case datasage.ChartHistogram:
		values, err := numeric(d, spec.X)
		if err != nil {
			return err
		}
		return barChart(w, spec.Title, width, height, histogram(values, spec.Bins))
	case datasage.ChartBar:
		bars, err := categories(d, spec.X, spec.Y)
		if err != nil {
			return err
		}
		if len(bars) > maxCategories {
			bars = bars[:maxCategories]
		}
		return barChart(w, spec.Title, width, height, bars)
	case datasage.ChartPie:
		slices, err := categories(d, spec.X, spec.Y)
		if err != nil {
			return err
		}
		return pieChart(w, spec.Title, width, height, foldSlices(slices))
	case datasage.ChartLine, datasage.ChartScatter:
		xs, ys, err := xy(d, spec.X, spec.Y)
		if err != nil {
			return err
		}
		style := gochart.Style{StrokeWidth: 2}
		if spec.Kind == datasage.ChartScatter {
			style = gochart.Style{StrokeWidth: gochart.Disabled, DotWidth: 4}
		}
		xName := spec.X
		if xName == "" {
			xName = "row"
		}
		graph := gochart.Chart{
			Title:  spec.Title,
			Width:  width,
			Height: height,
			XAxis:  gochart.XAxis{Name: xName},
			YAxis:  gochart.YAxis{Name: spec.Y},
			Series: []gochart.Series{
				gochart.ContinuousSeries{Name: spec.Y, XValues: xs, YValues: ys, Style: style},
			},
		}
		if err := graph.Render(gochart.PNG, w); err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		return nil
	}
	return fmt.Errorf("chart: unsupported kind %q: %w", spec.Kind, datasage.ErrInvalidInput)
}

// Resolve fills in the chart kind, columns and title that spec leaves
// empty. ChartAuto becomes a scatter plot for two or more numeric columns,
// a histogram for one and a bar chart of value counts for none.
func Resolve(d datasage.Dataset, spec datasage.ChartSpec) (datasage.ChartSpec, error) {
	if d.Len() == 0 {
		return spec, fmt.Errorf("chart: dataset %q has no rows: %w", d.Name, datasage.ErrInvalidInput)
	}
	for _, name := range []string{spec.X, spec.Y} {
		if name != "" && d.ColumnIndex(name) < 0 {
			return spec, fmt.Errorf("chart: column %q not found: %w", name, datasage.ErrInvalidInput)
		}
	}
	var nums, cats []string
	for i, c := range d.Columns {
		switch d.Kind(i) {
		case datasage.KindNumeric:
			nums = append(nums, c)
		case datasage.KindText, datasage.KindBoolean:
			cats = append(cats, c)
		}
	}
	pick := func(from []string, not string) string {
		for _, c := range from {
			if c != not {
				return c
			}
		}
		return ""
	}

	if spec.Kind == "" || spec.Kind == datasage.ChartAuto {
		switch {
		case spec.X != "" && spec.Y != "":
			spec.Kind = datasage.ChartScatter
		case len(nums) >= 2:
			spec.Kind = datasage.ChartScatter
		case len(nums) == 1:
			spec.Kind = datasage.ChartHistogram
		default:
			spec.Kind = datasage.ChartBar
		}
	}

	switch spec.Kind {
	case datasage.ChartHistogram:
		if spec.X == "" {
			spec.X = pick(nums, "")
		}
		if spec.Title == "" {
			spec.Title = "Distribution of " + spec.X
		}
	case datasage.ChartBar, datasage.ChartPie:
		if spec.X == "" {
			spec.X = pick(cats, "")
		}
		if spec.Title == "" {
			spec.Title = spec.X
			if spec.Y != "" {
				spec.Title = spec.Y + " by " + spec.X
			}
		}
	case datasage.ChartScatter:
		if spec.X == "" {
			spec.X = pick(nums, spec.Y)
		}
		if spec.Y == "" {
			spec.Y = pick(nums, spec.X)
		}
		if spec.Title == "" {
			spec.Title = spec.Y + " vs " + spec.X
		}
	case datasage.ChartLine:
		if spec.Y == "" {
			spec.Y = pick(nums, spec.X)
		}
		if spec.Title == "" {
			spec.Title = spec.Y
		}
	}
	if spec.X == "" && spec.Kind != datasage.ChartLine {
		return spec, fmt.Errorf("chart: no suitable column for a %s chart: %w", spec.Kind, datasage.ErrInvalidInput)
	}
	if spec.Y == "" && (spec.Kind == datasage.ChartScatter || spec.Kind == datasage.ChartLine) {
		return spec, fmt.Errorf("chart: a %s chart needs a numeric y column: %w", spec.Kind, datasage.ErrInvalidInput)
	}
	return spec, nil
}

func numeric(d datasage.Dataset, col string) ([]float64, error) {
	i := d.ColumnIndex(col)
	values, ok := d.Numeric(i)
	if !ok || len(values) == 0 {
		return nil, fmt.Errorf("chart: column %q is not numeric: %w", col, datasage.ErrInvalidInput)
	}
	return values, nil
}

// xy pairs column x (or the row number when x is empty) with column y,
// skipping rows where either is missing.
func xy(d datasage.Dataset, x, y string) (xs, ys []float64, err error) {
	yi := d.ColumnIndex(y)
	if _, err := numeric(d, y); err != nil {
		return nil, nil, err
	}
	xi := -1
	if x != "" {
		xi = d.ColumnIndex(x)
		if _, err := numeric(d, x); err != nil {
			return nil, nil, err
		}
	}
	for r, row := range d.Rows {
		if datasage.IsMissing(row[yi]) || (xi >= 0 && datasage.IsMissing(row[xi])) {
			continue
		}
		yv, _ := datasage.ParseNumber(row[yi])
		xv := float64(r + 1)
		if xi >= 0 {
			xv, _ = datasage.ParseNumber(row[xi])
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	if len(xs) < 2 {
		return nil, nil, fmt.Errorf("chart: need at least two points to plot %q: %w", y, datasage.ErrInvalidInput)
	}
	if xi < 0 {
		return xs, ys, nil
	}
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	sx, sy := make([]float64, len(xs)), make([]float64, len(ys))
	for i, j := range idx {
		sx[i], sy[i] = xs[j], ys[j]
	}
	return sx, sy, nil
}

// categories counts rows per value of x, or sums y per value of x when y
// is set. The result is sorted largest first.
func categories(d datasage.Dataset, x, y string) ([]gochart.Value, error) {
	xi := d.ColumnIndex(x)
	yi := -1
	if y != "" {
		if _, err := numeric(d, y); err != nil {
			return nil, err
		}
		yi = d.ColumnIndex(y)
	}
	totals := make(map[string]float64)
	var order []string
	for _, row := range d.Rows {
		key := row[xi]
		if datasage.IsMissing(key) {
			key = "(missing)"
		}
		v := 1.0
		if yi >= 0 {
			if datasage.IsMissing(row[yi]) {
				continue
			}
			v, _ = datasage.ParseNumber(row[yi])
		}
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key] += v
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("chart: column %q has no values: %w", x, datasage.ErrInvalidInput)
	}
	values := make([]gochart.Value, len(order))
	for i, k := range order {
		values[i] = gochart.Value{Label: k, Value: totals[k]}
	}
	sort.SliceStable(values, func(a, b int) bool { return values[a].Value > values[b].Value })
	return values, nil
}

func foldSlices(values []gochart.Value) []gochart.Value {
	if len(values) <= maxSlices {
		return values
	}
	out := append([]gochart.Value(nil), values[:maxSlices-1]...)
	other := gochart.Value{Label: "other"}
	for _, v := range values[maxSlices-1:] {
		other.Value += v.Value
	}
	return append(out, other)
}

// histogram buckets values into equal-width bins.
func histogram(values []float64, bins int) []gochart.Value {
	if bins <= 0 {
		bins = defaultBins
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if lo == hi {
		return []gochart.Value{{Label: label(lo), Value: float64(len(values))}}
	}
	width := (hi - lo) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range values {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}
	out := make([]gochart.Value, bins)
	for i, n := range counts {
		out[i] = gochart.Value{Label: label(lo + float64(i)*width), Value: n}
	}
	return out
}

func label(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func barChart(w io.Writer, title string, width, height int, bars []gochart.Value) error {
	barWidth := 40
	if need := len(bars)*(barWidth+10) + 160; need > width {
		width = need
	}
	bc := gochart.BarChart{
		Title:    title,
		Width:    width,
		Height:   height,
		BarWidth: barWidth,
		Bars:     bars,
		YAxis:    gochart.YAxis{Range: barRange(bars)},
	}
	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	return nil
}

// barRange anchors the y axis at zero. go-chart derives it from the bars
// otherwise and rejects the empty range left by bars of equal height.
func barRange(bars []gochart.Value) *gochart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo, hi = math.Min(lo, b.Value), math.Max(hi, b.Value)
	}
	if lo == hi {
		hi = 1
	}
	return &gochart.ContinuousRange{Min: lo, Max: hi}
}

func pieChart(w io.Writer, title string, width, height int, values []gochart.Value) error {
	pc := gochart.PieChart{
		Title:  title,
		Width:  width,
		Height: height,
		Values: values,
	}
	if err := pc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	return nil
}
