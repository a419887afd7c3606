// Package pdf renders analysis reports as PDF documents using fpdf.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/datasage"
	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 15.0
	lineHeight = 6.0

	// maxTableRows bounds the column table so wide datasets stay readable.
	maxTableRows = 40
)

// Renderer is the PDF report [datasage.Renderer]. The report holds a title,
// a dataset overview, a column table, a quality section and the completion
// text as AI insights. When Chart is set and out.Chart names a kind, the
// chart image is embedded too.
type Renderer struct {
	Title string
	Chart datasage.Renderer // must write PNG bytes

	// Now is used for the report date; nil means time.Now.
	Now func() time.Time
}

// Interface compliance check.
var _ datasage.Renderer = Renderer{}

// Render implements [datasage.Renderer].
func (r Renderer) Render(ctx context.Context, out datasage.Output, w io.Writer) error {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	title := r.Title
	if title == "" {
		title = "DataSage Analysis Report"
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetAutoPageBreak(true, pageMargin)
	doc.SetTitle(title, true)
	doc.SetCreator("datasage", true)
	doc.SetCreationDate(now())
	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-pageMargin)
		doc.SetFont("Helvetica", "I", 8)
		doc.SetTextColor(128, 128, 128)
		doc.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})
	rep := &report{doc: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	doc.AddPage()

	rep.title(title, now())
	if out.Dataset != nil {
		sum := out.Summary
		if sum == nil {
			s := datasage.Summarize(*out.Dataset)
			sum = &s
		}
		q := out.Quality
		if q == nil {
			a := datasage.Assess(*out.Dataset)
			q = &a
		}
		rep.overview(*sum, *q)
		rep.columns(*sum)
		rep.quality(*q)
	}
	if text := strings.TrimSpace(out.Completion.Text); text != "" {
		rep.heading("AI Insights")
		rep.markdown(text)
	}
	if r.Chart != nil && out.Dataset != nil && out.Chart.Kind != "" {
		rep.chart(ctx, r.Chart, out)
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

// report tracks the document being written. Text passes through tr so the
// core fonts can show Latin-1 characters.
type report struct {
	doc *fpdf.Fpdf
	tr  func(string) string
}

func (r *report) title(title string, date time.Time) {
	r.doc.SetFont("Helvetica", "B", 18)
	r.doc.SetTextColor(40, 40, 90)
	r.doc.CellFormat(0, 10, r.tr(title), "", 1, "L", false, 0, "")
	r.doc.SetFont("Helvetica", "", 9)
	r.doc.SetTextColor(110, 110, 110)
	r.doc.CellFormat(0, lineHeight, "Generated "+date.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	r.doc.Ln(4)
}

func (r *report) heading(text string) {
	r.doc.Ln(2)
	r.doc.SetFont("Helvetica", "B", 13)
	r.doc.SetTextColor(40, 40, 90)
	r.doc.CellFormat(0, 8, r.tr(text), "B", 1, "L", false, 0, "")
	r.doc.Ln(2)
	r.body()
}

func (r *report) body() {
	r.doc.SetFont("Helvetica", "", 10)
	r.doc.SetTextColor(0, 0, 0)
}

func (r *report) pair(label, value string) {
	r.doc.SetFont("Helvetica", "B", 10)
	r.doc.CellFormat(50, lineHeight, r.tr(label), "", 0, "L", false, 0, "")
	r.doc.SetFont("Helvetica", "", 10)
	r.doc.CellFormat(0, lineHeight, r.tr(value), "", 1, "L", false, 0, "")
}

func (r *report) overview(s datasage.Summary, q datasage.QualityReport) {
	r.heading("Dataset Overview")
	name := s.Name
	if name == "" {
		name = "dataset"
	}
	r.pair("Dataset", name)
	r.pair("Rows", strconv.Itoa(s.Rows))
	r.pair("Columns", strconv.Itoa(len(s.Columns)))
	r.pair("Missing cells", fmt.Sprintf("%d (%.2f%%)", q.Missing.Total, q.Missing.Percentage))
	r.pair("Duplicate rows", strconv.Itoa(s.DuplicateRows))
	r.pair("Quality score", fmt.Sprintf("%.1f / 100", q.Score))
}

var columnWidths = []float64{50, 25, 20, 20, 20, 45}

func (r *report) columns(s datasage.Summary) {
	r.heading("Columns")
	r.doc.SetFont("Helvetica", "B", 9)
	r.doc.SetFillColor(225, 228, 240)
	for i, h := range []string{"Column", "Type", "Values", "Missing", "Unique", "Mean / Top"} {
		r.doc.CellFormat(columnWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	r.doc.Ln(-1)
	r.doc.SetFont("Helvetica", "", 9)
	for i, c := range s.Columns {
		if i == maxTableRows {
			r.doc.CellFormat(0, lineHeight, fmt.Sprintf("... %d more columns", len(s.Columns)-maxTableRows), "", 1, "L", false, 0, "")
			break
		}
		detail := c.Top
		if c.Stats != nil {
			detail = strconv.FormatFloat(c.Stats.Mean, 'f', 2, 64)
		}
		cells := []string{c.Name, string(c.Kind), strconv.Itoa(c.Count), strconv.Itoa(c.Missing), strconv.Itoa(c.Unique), detail}
		for j, cell := range cells {
			align := "R"
			if j < 2 || (j == 5 && c.Stats == nil) {
				align = "L"
			}
			r.doc.CellFormat(columnWidths[j], lineHeight, r.fit(cell, columnWidths[j]-2), "1", 0, align, false, 0, "")
		}
		r.doc.Ln(-1)
	}
}

// fit clips text to width mm in the current font.
func (r *report) fit(text string, width float64) string {
	text = r.tr(text)
	if r.doc.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && r.doc.GetStringWidth(text+"...") > width {
		text = text[:len(text)-1]
	}
	return text + "..."
}

func (r *report) quality(q datasage.QualityReport) {
	r.heading("Data Quality")
	r.pair("Missing data", fmt.Sprintf("%d cells in %d columns (severity %s)", q.Missing.Total, q.Missing.ColumnsAffected, q.Missing.Severity))
	r.pair("Duplicates", fmt.Sprintf("%d rows (%.2f%%)", q.Duplicates.Total, q.Duplicates.Percentage))
	r.pair("Outliers", fmt.Sprintf("%d values (IQR method)", q.OutlierCount()))

	s := datasage.Suggest(q)
	if s.Empty() {
		r.doc.Ln(2)
		r.doc.MultiCell(0, lineHeight, "No cleaning needed.", "", "L", false)
		return
	}
	r.doc.Ln(2)
	r.doc.SetFont("Helvetica", "B", 10)
	r.doc.CellFormat(0, lineHeight, "Recommendations", "", 1, "L", false, 0, "")
	r.body()
	for _, group := range [][]string{s.MissingData, s.Duplicates, s.Outliers, s.DataTypes, s.TextCleaning} {
		for _, line := range group {
			r.bullet(line)
		}
	}
}

func (r *report) bullet(text string) {
	r.doc.CellFormat(5, lineHeight, r.tr("•"), "", 0, "L", false, 0, "")
	r.doc.MultiCell(0, lineHeight, r.tr(text), "", "L", false)
}

// markdown writes completion text, treating headings, bullets and bold
// markers the way a reader expects while dropping the rest of the syntax.
func (r *report) markdown(text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			r.doc.Ln(2)
		case strings.HasPrefix(trimmed, "#"):
			r.doc.SetFont("Helvetica", "B", 11)
			r.doc.MultiCell(0, 7, r.tr(stripInline(strings.TrimLeft(trimmed, "# "))), "", "L", false)
			r.body()
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			r.bullet(stripInline(trimmed[2:]))
		default:
			r.doc.MultiCell(0, lineHeight, r.tr(stripInline(trimmed)), "", "L", false)
		}
	}
}

var inlineMarkers = strings.NewReplacer("**", "", "__", "", "`", "")

func stripInline(s string) string {
	return inlineMarkers.Replace(s)
}

func (r *report) chart(ctx context.Context, renderer datasage.Renderer, out datasage.Output) {
	var buf bytes.Buffer
	if err := renderer.Render(ctx, out, &buf); err != nil {
		r.heading("Chart")
		r.doc.MultiCell(0, lineHeight, r.tr("Chart unavailable: "+err.Error()), "", "L", false)
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	r.doc.AddPage()
	r.heading("Chart")
	info := r.doc.RegisterImageOptionsReader("chart", opts, &buf)
	if info == nil || r.doc.Err() {
		return
	}
	pageW, _ := r.doc.GetPageSize()
	width := pageW - 2*pageMargin
	r.doc.ImageOptions("chart", pageMargin, r.doc.GetY(), width, 0, true, opts, 0, "")
}
