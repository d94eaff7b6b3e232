package derive

import (
	"context"
	"fmt"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Bucket labels a numeric column by the interval it falls in. Edges are
// ascending; bucket i is (Edges[i], Edges[i+1]] and takes Labels[i]. With
// IncludeLowest the first bucket also contains Edges[0]. Values outside
// every bucket become null.
type Bucket struct {
	Column        string
	Output        string
	Edges         []float64
	Labels        []string
	IncludeLowest bool
}

func (t *Bucket) Name() string { return "derive_bucket(" + t.Output + ")" }

// Label returns the bucket label for v.
func (t *Bucket) Label(v float64) (string, bool) {
	for i := 0; i+1 < len(t.Edges); i++ {
		lo, hi := t.Edges[i], t.Edges[i+1]
		if (v > lo || (i == 0 && t.IncludeLowest && v == lo)) && v <= hi {
			return t.Labels[i], true
		}
	}
	return "", false
}

func (t *Bucket) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	if len(t.Edges) < 2 || len(t.Labels) != len(t.Edges)-1 {
		return nil, fmt.Errorf("bucket %s: %d edges need %d labels, got %d", t.Output, len(t.Edges), len(t.Edges)-1, len(t.Labels))
	}
	src, ok := f.ColumnByName(t.Column)
	if !ok {
		return nil, fmt.Errorf("%w: %s", j.ErrUnknownColumn, t.Column)
	}
	if !src.Kind().Numeric() {
		return nil, fmt.Errorf("%w: %s is %s", j.ErrKindMismatch, t.Column, src.Kind())
	}
	out := j.NewStringColumn(t.Output, f.Rows())
	for r := 0; r < f.Rows(); r++ {
		v, ok := j.Float(src, r)
		if !ok {
			continue
		}
		if label, ok := t.Label(v); ok {
			out.Set(r, label)
		}
	}
	return f.WithColumn(out)
}
