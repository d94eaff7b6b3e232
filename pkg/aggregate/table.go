// Package aggregate reduces a cleaned Frame to summary tables: descriptive
// statistics per numeric column, grouped sums and means, and histograms.
// Every reduction is deterministic given row order.
package aggregate

import "strings"

// SummaryRow is one key of a SummaryTable. Key holds one part per grouping
// column, already formatted as text.
type SummaryRow struct {
	Key   []string
	Value float64
}

// SummaryTable is an ordered mapping from grouping key to an aggregate value.
type SummaryTable struct {
	Name      string
	KeyNames  []string
	ValueName string
	Rows      []SummaryRow
}

// Total sums every value in the table.
func (t SummaryTable) Total() float64 {
	s := 0.0
	for _, r := range t.Rows {
		s += r.Value
	}
	return s
}

// Lookup returns the value stored under key.
func (t SummaryTable) Lookup(key ...string) (float64, bool) {
	want := strings.Join(key, "\x00")
	for _, r := range t.Rows {
		if strings.Join(r.Key, "\x00") == want {
			return r.Value, true
		}
	}
	return 0, false
}

// Labels returns each row key joined with sep.
func (t SummaryTable) Labels(sep string) []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = strings.Join(r.Key, sep)
	}
	return out
}

// Values returns the row values in order.
func (t SummaryTable) Values() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Value
	}
	return out
}
