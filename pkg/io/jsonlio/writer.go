package jsonlio

import (
	"bufio"
	"encoding/json"
	"io"

	csvio "github.com/wdm0006/janitor-reports/pkg/io/csvio"
	iox "github.com/wdm0006/janitor-reports/pkg/io/ioutils"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// WriteAll writes one JSON object per row to path, keys in column order.
// Null cells are written as JSON null. The file appears only on success.
func WriteAll(path string, f *j.Frame) error {
	out, err := iox.CreateAtomic(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		out.Abort()
		return &j.WriteError{Path: path, Err: err}
	}
	return out.Close()
}

func Write(out io.Writer, f *j.Frame) error {
	w := bufio.NewWriter(out)
	keys := make([][]byte, f.Cols())
	for c, name := range f.Schema().Names() {
		b, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[c] = b
	}
	for r := 0; r < f.Rows(); r++ {
		_ = w.WriteByte('{')
		for c := 0; c < f.Cols(); c++ {
			if c > 0 {
				_ = w.WriteByte(',')
			}
			_, _ = w.Write(keys[c])
			_ = w.WriteByte(':')
			b, err := json.Marshal(cellValue(f.Column(c), r))
			if err != nil {
				return err
			}
			_, _ = w.Write(b)
		}
		if _, err := w.WriteString("}\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

func cellValue(col j.Column, r int) any {
	if col.IsNull(r) {
		return nil
	}
	switch c := col.(type) {
	case *j.FloatColumn:
		v, _ := c.Get(r)
		return v
	case *j.IntColumn:
		v, _ := c.Get(r)
		return v
	case *j.BoolColumn:
		v, _ := c.Get(r)
		return v
	case *j.StringColumn:
		v, _ := c.Get(r)
		return v
	case *j.TimeColumn:
		v, _ := c.Get(r)
		return csvio.FormatTime(v, "")
	}
	return nil
}
