// Package validate holds checks that pass a Frame through unchanged or fail
// the pipeline.
package validate

import (
	"context"
	"errors"
	"fmt"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// ErrOutOfRange reports numeric cells outside the allowed bounds.
var ErrOutOfRange = errors.New("value out of range")

// Range fails when a non-null cell of a numeric column lies outside
// [Min, Max]. A nil bound is unchecked.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

// Between is a Range with both bounds set.
func Between(column string, lo, hi float64) *Range {
	return &Range{Column: column, Min: &lo, Max: &hi}
}

func (t *Range) Name() string { return "validate_range(" + t.Column + ")" }

func (t *Range) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", j.ErrUnknownColumn, t.Column)
	}
	if !col.Kind().Numeric() {
		return nil, fmt.Errorf("%w: %s is %s", j.ErrKindMismatch, t.Column, col.Kind())
	}
	bad, first := 0, -1
	for i := 0; i < col.Len(); i++ {
		v, ok := j.Float(col, i)
		if !ok {
			continue
		}
		if (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max) {
			if bad == 0 {
				first = i
			}
			bad++
		}
	}
	if bad > 0 {
		return nil, fmt.Errorf("%w: column %s has %d values outside %s (first at row %d)", ErrOutOfRange, t.Column, bad, t.bounds(), first+1)
	}
	return f, nil
}

func (t *Range) bounds() string {
	lo, hi := "-inf", "+inf"
	if t.Min != nil {
		lo = fmt.Sprint(*t.Min)
	}
	if t.Max != nil {
		hi = fmt.Sprint(*t.Max)
	}
	return "[" + lo + ", " + hi + "]"
}
