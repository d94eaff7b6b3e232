// Package impute fills null cells of a single column from a fixed policy.
// Every imputer computes its fill value from the input frame before any cell
// is written and returns a new frame; the input is left untouched.
package impute

import (
	"cmp"
	"fmt"
	"sort"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

func lookup(f *j.Frame, name string) (j.Column, error) {
	col, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", j.ErrUnknownColumn, name)
	}
	return col, nil
}

// fill sets every null cell of c to v.
func fill[T any](c *j.Vector[T], v T) {
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			c.Set(i, v)
		}
	}
}

// MedianOf returns the median of vals, averaging the two middle values for
// an even count. vals is not modified.
func MedianOf(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	s := append([]float64(nil), vals...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

// ModeOf returns the most frequent value; ties go to the smallest value.
func ModeOf[T cmp.Ordered](vals []T) (T, bool) {
	counts := make(map[T]int, len(vals))
	for _, v := range vals {
		counts[v]++
	}
	var best T
	bestc := 0
	for v, n := range counts {
		if n > bestc || (n == bestc && v < best) {
			best, bestc = v, n
		}
	}
	return best, bestc > 0
}
