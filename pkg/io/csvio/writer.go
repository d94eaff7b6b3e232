package csvio

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	iox "github.com/wdm0006/janitor-reports/pkg/io/ioutils"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

type WriterOptions struct {
	Delimiter rune // default ','
	// TimeLayout formats KindTime cells. Empty selects 2006-01-02 for
	// midnight values and 2006-01-02 15:04:05 otherwise.
	TimeLayout string
}

// WriteAll writes a Frame to a CSV file with headers. The file at path is
// replaced only once every row has been written; failures return a
// *janitor.WriteError and leave any previous file untouched.
func WriteAll(path string, f *j.Frame, opt WriterOptions) error {
	out, err := iox.CreateAtomic(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		out.Abort()
		return &j.WriteError{Path: path, Err: err}
	}
	return out.Close()
}

// Write encodes f as CSV with a header row.
func Write(out io.Writer, f *j.Frame, opt WriterOptions) error {
	w := csv.NewWriter(out)
	if opt.Delimiter != 0 {
		w.Comma = opt.Delimiter
	}
	if err := w.Write(f.Schema().Names()); err != nil {
		return err
	}
	row := make([]string, f.Cols())
	for r := 0; r < f.Rows(); r++ {
		for c := 0; c < f.Cols(); c++ {
			row[c] = FormatCell(f.Column(c), r, opt.TimeLayout)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// FormatCell renders one cell as text; null cells render empty.
func FormatCell(col j.Column, r int, timeLayout string) string {
	if col.IsNull(r) {
		return ""
	}
	switch c := col.(type) {
	case *j.FloatColumn:
		v, _ := c.Get(r)
		return strconv.FormatFloat(v, 'f', -1, 64)
	case *j.IntColumn:
		v, _ := c.Get(r)
		return strconv.FormatInt(v, 10)
	case *j.BoolColumn:
		v, _ := c.Get(r)
		return strconv.FormatBool(v)
	case *j.StringColumn:
		v, _ := c.Get(r)
		return v
	case *j.TimeColumn:
		v, _ := c.Get(r)
		return FormatTime(v, timeLayout)
	}
	return ""
}

// FormatTime formats t with layout, or picks a date-only layout for
// midnight values when layout is empty.
func FormatTime(t time.Time, layout string) string {
	if layout != "" {
		return t.Format(layout)
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
