// Package report renders aggregate tables for people: aligned text tables
// with grouped number formatting, ASCII charts, an optional xlsx workbook
// and a head preview of the cleaned Frame.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wdm0006/janitor-reports/pkg/aggregate"
	"github.com/wdm0006/janitor-reports/pkg/profile"
)

type Options struct {
	// Charts draws an ASCII line chart under every summary table.
	Charts bool
	// ChartHeight is the chart height in rows; default 10.
	ChartHeight int
}

// Reporter writes sections to w in the order they are called.
type Reporter struct {
	w   io.Writer
	p   *message.Printer
	opt Options
}

func New(w io.Writer, opt Options) *Reporter {
	if opt.ChartHeight <= 0 {
		opt.ChartHeight = 10
	}
	return &Reporter{w: w, p: message.NewPrinter(language.English), opt: opt}
}

// Number formats v with thousands separators and two decimals.
func (r *Reporter) Number(v float64) string { return r.p.Sprintf("%.2f", v) }

func (r *Reporter) heading(title string) {
	fmt.Fprintf(r.w, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
}

func (r *Reporter) table(header []string, rows [][]string) {
	tw := tablewriter.NewWriter(r.w)
	tw.SetAutoFormatHeaders(false)
	tw.SetHeader(header)
	tw.SetAutoWrapText(false)
	aligns := make([]int, len(header))
	for i := range aligns {
		aligns[i] = tablewriter.ALIGN_RIGHT
	}
	aligns[0] = tablewriter.ALIGN_LEFT
	tw.SetColumnAlignment(aligns)
	tw.AppendBulk(rows)
	tw.Render()
}

// Stats writes one row per described column.
func (r *Reporter) Stats(title string, stats []aggregate.Stats) {
	r.heading(title)
	rows := make([][]string, len(stats))
	for i, s := range stats {
		rows[i] = []string{
			s.Column, r.p.Sprintf("%d", s.Count),
			r.Number(s.Mean), r.Number(s.Std), r.Number(s.Min),
			r.Number(s.Q1), r.Number(s.Median), r.Number(s.Q3), r.Number(s.Max),
		}
	}
	r.table([]string{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}, rows)
}

// Table writes a summary table, followed by its chart when enabled.
func (r *Reporter) Table(t aggregate.SummaryTable) {
	r.heading(t.Name)
	header := append(append([]string(nil), t.KeyNames...), t.ValueName)
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append(append([]string(nil), row.Key...), r.Number(row.Value))
	}
	r.table(header, rows)
	if r.opt.Charts {
		if c := Chart(t, r.opt.ChartHeight); c != "" {
			fmt.Fprintln(r.w, c)
		}
	}
}

// Metric writes a single named figure.
func (r *Reporter) Metric(name string, v float64, unit string) {
	fmt.Fprintf(r.w, "%s: %s%s\n", name, r.Number(v), unit)
}

// Missing writes null counts before and after cleaning.
func (r *Reporter) Missing(changes []profile.Change) {
	r.heading("Missing values")
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		before := r.p.Sprintf("%d", c.Before)
		if c.Added {
			before = "-"
		}
		rows = append(rows, []string{c.Column, before, r.p.Sprintf("%d", c.After), r.p.Sprintf("%d", c.Filled())})
	}
	r.table([]string{"column", "before", "after", "filled"}, rows)
}

// Text writes a titled free-form section.
func (r *Reporter) Text(title, body string) {
	r.heading(title)
	fmt.Fprint(r.w, body)
	if !strings.HasSuffix(body, "\n") {
		fmt.Fprintln(r.w)
	}
}
