package aggregate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Histogram counts the non-null cells of a numeric column in bins
// equal-width bins spanning [min, max]. The last bin is closed. Keys are the
// bin ranges. Infinite and NaN cells are not counted; a column with no
// finite values yields an empty table.
func Histogram(f *j.Frame, column string, bins int) (SummaryTable, error) {
	if bins < 1 {
		return SummaryTable{}, fmt.Errorf("histogram %s: bins must be positive, got %d", column, bins)
	}
	all, err := numeric(f, column)
	if err != nil {
		return SummaryTable{}, err
	}
	vals := all[:0]
	for _, v := range all {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	t := SummaryTable{
		Name:      column + " distribution",
		KeyNames:  []string{column},
		ValueName: "count",
	}
	if len(vals) == 0 {
		return t, nil
	}
	sort.Float64s(vals)
	lo, hi := vals[0], vals[len(vals)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	upper := dividers[bins]
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, vals, nil)
	dividers[bins] = upper

	t.Rows = make([]SummaryRow, bins)
	for i, c := range counts {
		t.Rows[i] = SummaryRow{
			Key:   []string{fmt.Sprintf("%.2f-%.2f", dividers[i], dividers[i+1])},
			Value: c,
		}
	}
	return t, nil
}
