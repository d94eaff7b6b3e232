package report

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/wdm0006/janitor-reports/pkg/io/csvio"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Preview renders the first n rows of f as a dataframe listing. Null cells
// show as NaN.
func Preview(f *j.Frame, n int) (string, error) {
	if n > f.Rows() {
		n = f.Rows()
	}
	if n < 0 {
		n = 0
	}
	cols := make([]series.Series, f.Cols())
	for i := 0; i < f.Cols(); i++ {
		col := f.Column(i)
		vals := make([]string, n)
		for r := 0; r < n; r++ {
			if col.IsNull(r) {
				vals[r] = "NaN"
				continue
			}
			vals[r] = csvio.FormatCell(col, r, "")
		}
		cols[i] = series.New(vals, seriesType(col.Kind()), col.Name())
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return "", df.Err
	}
	return df.String(), nil
}

func seriesType(k j.Kind) series.Type {
	switch k {
	case j.KindInt:
		return series.Int
	case j.KindFloat:
		return series.Float
	case j.KindBool:
		return series.Bool
	}
	return series.String
}
