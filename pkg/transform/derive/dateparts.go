package derive

import (
	"context"
	"fmt"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// DateParts extracts the English month name and the year of a time column.
// An empty MonthColumn or YearColumn skips that part.
type DateParts struct {
	Column      string
	MonthColumn string
	YearColumn  string
}

func (t *DateParts) Name() string { return "derive_dateparts(" + t.Column + ")" }

func (t *DateParts) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	src, err := j.ColumnAs[*j.TimeColumn](f, t.Column)
	if err != nil {
		return nil, fmt.Errorf("date parts: %w", err)
	}
	month := j.NewStringColumn(t.MonthColumn, f.Rows())
	year := j.NewIntColumn(t.YearColumn, f.Rows())
	for r := 0; r < src.Len(); r++ {
		ts, ok := src.Get(r)
		if !ok {
			continue
		}
		month.Set(r, ts.Month().String())
		year.Set(r, int64(ts.Year()))
	}
	out := f
	if t.MonthColumn != "" {
		if out, err = out.WithColumn(month); err != nil {
			return nil, err
		}
	}
	if t.YearColumn != "" {
		if out, err = out.WithColumn(year); err != nil {
			return nil, err
		}
	}
	return out, nil
}
