package impute

import (
	"context"
	"fmt"
	"math"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Median fills nulls with the median of the column's non-null values.
// Int columns receive the median rounded half away from zero.
type Median struct{ Column string }

func (t *Median) Name() string { return "impute_median(" + t.Column + ")" }

func (t *Median) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := lookup(f, t.Column)
	if err != nil {
		return nil, err
	}
	switch c := col.(type) {
	case *j.FloatColumn:
		vals := c.Valid()
		if len(vals) == 0 || c.NullCount() == 0 {
			return f, nil
		}
		out := c.Clone().(*j.FloatColumn)
		fill(out, MedianOf(vals))
		return f.WithColumn(out)
	case *j.IntColumn:
		ints := c.Valid()
		if len(ints) == 0 || c.NullCount() == 0 {
			return f, nil
		}
		vals := make([]float64, len(ints))
		for i, v := range ints {
			vals[i] = float64(v)
		}
		out := c.Clone().(*j.IntColumn)
		fill(out, int64(math.Round(MedianOf(vals))))
		return f.WithColumn(out)
	}
	return nil, fmt.Errorf("%w: median of %s column %s", j.ErrKindMismatch, col.Kind(), t.Column)
}
