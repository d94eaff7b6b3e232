package impute

import (
	"context"
	"fmt"

	"github.com/spf13/cast"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

type Constant struct {
	Column string
	// Value is coerced to the column kind (e.g. 1 for an int column,
	// "Other" for a string column).
	Value any
}

func (t *Constant) Name() string { return "impute_constant(" + t.Column + ")" }

func (t *Constant) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, err := lookup(f, t.Column)
	if err != nil {
		return nil, err
	}
	if col.NullCount() == 0 {
		return f, nil
	}
	var cerr error
	switch c := col.(type) {
	case *j.FloatColumn:
		var v float64
		if v, cerr = cast.ToFloat64E(t.Value); cerr == nil {
			out := c.Clone().(*j.FloatColumn)
			fill(out, v)
			return f.WithColumn(out)
		}
	case *j.IntColumn:
		var v int64
		if v, cerr = cast.ToInt64E(t.Value); cerr == nil {
			out := c.Clone().(*j.IntColumn)
			fill(out, v)
			return f.WithColumn(out)
		}
	case *j.StringColumn:
		var v string
		if v, cerr = cast.ToStringE(t.Value); cerr == nil {
			out := c.Clone().(*j.StringColumn)
			fill(out, v)
			return f.WithColumn(out)
		}
	case *j.BoolColumn:
		var v bool
		if v, cerr = cast.ToBoolE(t.Value); cerr == nil {
			out := c.Clone().(*j.BoolColumn)
			fill(out, v)
			return f.WithColumn(out)
		}
	default:
		cerr = fmt.Errorf("unsupported column kind %s", col.Kind())
	}
	return nil, fmt.Errorf("%w: constant %v for column %s: %v", j.ErrKindMismatch, t.Value, t.Column, cerr)
}
