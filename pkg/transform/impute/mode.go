package impute

import (
	"context"
	"fmt"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Mode fills nulls with the most frequent non-null value. Ties resolve to
// the lexically (strings) or numerically (ints) smallest candidate so the
// result does not depend on row order.
type Mode struct{ Column string }

func (t *Mode) Name() string { return "impute_mode(" + t.Column + ")" }

func (t *Mode) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := lookup(f, t.Column)
	if err != nil {
		return nil, err
	}
	if col.NullCount() == 0 {
		return f, nil
	}
	switch c := col.(type) {
	case *j.StringColumn:
		best, ok := ModeOf(c.Valid())
		if !ok {
			return f, nil
		}
		out := c.Clone().(*j.StringColumn)
		fill(out, best)
		return f.WithColumn(out)
	case *j.IntColumn:
		best, ok := ModeOf(c.Valid())
		if !ok {
			return f, nil
		}
		out := c.Clone().(*j.IntColumn)
		fill(out, best)
		return f.WithColumn(out)
	}
	return nil, fmt.Errorf("%w: mode of %s column %s", j.ErrKindMismatch, col.Kind(), t.Column)
}
