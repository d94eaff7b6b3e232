// Package golearn converts between janitor Frames and golearn DenseInstances
// and exports cleaned frames as ARFF.
package golearn

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sjwhitworth/golearn/base"

	"github.com/wdm0006/janitor-reports/pkg/io/csvio"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Missing is the categorical value written for null text cells.
const Missing = "?"

// floatPrecision is the number of decimals kept for numeric attributes.
const floatPrecision = 6

// ToDenseInstances converts a Frame into golearn DenseInstances. Numeric
// columns become float attributes with nulls as NaN; every other column
// becomes a categorical attribute with nulls as Missing. Attribute names and
// categorical values are escaped with Escape. The last column is the class
// attribute.
func ToDenseInstances(f *j.Frame) (*base.DenseInstances, error) {
	attrs := make([]base.Attribute, f.Cols())
	for i, cs := range f.Schema().Columns {
		if cs.Type.Numeric() {
			fa := base.NewFloatAttribute(Escape(cs.Name))
			fa.Precision = floatPrecision
			attrs[i] = fa
			continue
		}
		ca := new(base.CategoricalAttribute)
		ca.SetName(Escape(cs.Name))
		attrs[i] = ca
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}

	for c := 0; c < f.Cols(); c++ {
		col := f.Column(c)
		for r := 0; r < f.Rows(); r++ {
			if col.Kind().Numeric() {
				v, ok := j.Float(col, r)
				if !ok {
					v = math.NaN()
				}
				inst.Set(specs[c], r, base.PackFloatToBytes(v))
				continue
			}
			s := Missing
			if !col.IsNull(r) {
				s = Escape(csvio.FormatCell(col, r, ""))
			}
			inst.Set(specs[c], r, attrs[c].GetSysValFromString(s))
		}
	}
	if len(attrs) > 0 {
		if err := inst.AddClassAttribute(attrs[len(attrs)-1]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// FromDenseInstances converts golearn DenseInstances into a Frame of float
// and string columns. NaN floats and Missing categories become nulls; names
// and categories are unescaped.
func FromDenseInstances(inst base.FixedDataGrid) (*j.Frame, error) {
	attrs := inst.AllAttributes()
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := j.KindString
		if _, ok := a.(*base.FloatAttribute); ok {
			k = j.KindFloat
		}
		schema.Columns[i] = j.ColumnSchema{Name: Unescape(a.GetName()), Type: k, Nullable: true}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	f := j.NewFrame(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			if cs.Type == j.KindFloat {
				if v := base.UnpackBytesToFloat(raw); !math.IsNaN(v) {
					_ = f.SetCell(r, cs.Name, v)
				}
				continue
			}
			if v := attrs[c].GetStringFromSysVal(raw); v != Missing {
				_ = f.SetCell(r, cs.Name, Unescape(v))
			}
		}
	}
	return f, nil
}

// Escape makes s a single ARFF token. golearn splits attribute lines on
// whitespace and commas and reads data lines as CSV, so every byte outside
// letters, digits and a few punctuation marks is written as =XX. The empty
// string becomes a lone '=' and a literal Missing is escaped so it does not
// read back as null.
func Escape(s string) string {
	if s == "" {
		return "="
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if plain(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "=%02X", c)
	}
	return b.String()
}

// Unescape reverses Escape. Malformed sequences are kept as written.
func Unescape(s string) string {
	if s == "=" {
		return ""
	}
	if !strings.Contains(s, "=") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '=' && i+2 < len(s) {
			if c, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				b.WriteByte(byte(c))
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func plain(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.:/+()!#&;$^|<>[]*~", c) >= 0
}

// WriteARFF writes f to path as a dense ARFF file named relation. The file
// at path is replaced only once the whole file has been written.
func WriteARFF(path string, f *j.Frame, relation string) error {
	inst, err := ToDenseInstances(f)
	if err != nil {
		return &j.WriteError{Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &j.WriteError{Path: path, Err: err}
	}
	name := tmp.Name()
	_ = tmp.Close()
	if err := base.SerializeInstancesToDenseARFF(inst, name, relation); err != nil {
		_ = os.Remove(name)
		return &j.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return &j.WriteError{Path: path, Err: err}
	}
	return nil
}
