package report

import (
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/wdm0006/janitor-reports/pkg/aggregate"
)

// Chart plots the values of t as an ASCII line chart captioned with the
// first and last key. Tables with fewer than two rows yield "".
func Chart(t aggregate.SummaryTable, height int) string {
	if len(t.Rows) < 2 {
		return ""
	}
	labels := t.Labels(" ")
	caption := t.ValueName + " by " + strings.Join(t.KeyNames, "/") +
		" (" + labels[0] + " .. " + labels[len(labels)-1] + ")"
	return asciigraph.Plot(t.Values(), asciigraph.Height(height), asciigraph.Caption(caption))
}
