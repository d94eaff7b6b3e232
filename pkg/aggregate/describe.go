package aggregate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Stats are the descriptive statistics of one numeric column over its
// non-null cells. Std is the sample standard deviation.
type Stats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes Stats for each named column, or for every numeric column
// when none are named. A column without non-null cells reports Count 0 and
// NaN everywhere else.
func Describe(f *j.Frame, columns ...string) ([]Stats, error) {
	if len(columns) == 0 {
		for _, cs := range f.Schema().Columns {
			if cs.Type.Numeric() {
				columns = append(columns, cs.Name)
			}
		}
	}
	out := make([]Stats, 0, len(columns))
	for _, name := range columns {
		vals, err := numeric(f, name)
		if err != nil {
			return nil, err
		}
		out = append(out, describe(name, vals))
	}
	return out, nil
}

func describe(name string, vals []float64) Stats {
	s := Stats{Column: name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		s.Std = math.NaN()
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q1 = Quantile(sorted, 0.25)
	s.Median = Quantile(sorted, 0.5)
	s.Q3 = Quantile(sorted, 0.75)
	return s
}

// Quantile returns the p-quantile of sorted by linear interpolation between
// the closest ranks at position (n-1)*p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := float64(n-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

// numeric returns the non-null cells of a numeric column as float64.
func numeric(f *j.Frame, name string) ([]float64, error) {
	col, ok := f.ColumnByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", j.ErrUnknownColumn, name)
	}
	if !col.Kind().Numeric() {
		return nil, fmt.Errorf("%w: %s is %s", j.ErrKindMismatch, name, col.Kind())
	}
	vals := make([]float64, 0, col.Len()-col.NullCount())
	for r := 0; r < col.Len(); r++ {
		if v, ok := j.Float(col, r); ok {
			vals = append(vals, v)
		}
	}
	return vals, nil
}
