// Package derive adds computed columns. Each transform is a pure function of
// existing columns: a null operand yields a null result, and re-deriving a
// column replaces it in place.
package derive

import (
	"context"
	"fmt"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Product sets Output to the product of the numeric Columns.
type Product struct {
	Output  string
	Columns []string
}

func (t *Product) Name() string { return "derive_product(" + t.Output + ")" }

func (t *Product) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	cols := make([]j.Column, len(t.Columns))
	for i, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", j.ErrUnknownColumn, name)
		}
		if !col.Kind().Numeric() {
			return nil, fmt.Errorf("%w: %s is %s", j.ErrKindMismatch, name, col.Kind())
		}
		cols[i] = col
	}
	out := j.NewFloatColumn(t.Output, f.Rows())
rows:
	for r := 0; r < f.Rows(); r++ {
		p := 1.0
		for _, c := range cols {
			v, ok := j.Float(c, r)
			if !ok {
				continue rows
			}
			p *= v
		}
		out.Set(r, p)
	}
	return f.WithColumn(out)
}
