package janitor

import (
	"fmt"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Lookup returns the column schema with the given name.
func (s Schema) Lookup(name string) (ColumnSchema, bool) {
	for _, cs := range s.Columns {
		if cs.Name == name {
			return cs, true
		}
	}
	return ColumnSchema{}, false
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Numeric reports whether values of this kind take part in arithmetic.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	NullCount() int
	Clone() Column
}

// Vector is the storage behind every concrete column type: values plus a
// parallel null mask. A null cell's value slot holds the zero value.
type Vector[T any] struct {
	name  string
	kind  Kind
	data  []T
	nulls []bool
}

type (
	BoolColumn   = Vector[bool]
	IntColumn    = Vector[int64]
	FloatColumn  = Vector[float64]
	StringColumn = Vector[string]
	TimeColumn   = Vector[time.Time]
)

func newVector[T any](name string, kind Kind, n int) *Vector[T] {
	nulls := make([]bool, n)
	for i := range nulls {
		nulls[i] = true
	}
	return &Vector[T]{name: name, kind: kind, data: make([]T, n), nulls: nulls}
}

// The constructors below return columns of n null cells.

func NewBoolColumn(name string, n int) *BoolColumn     { return newVector[bool](name, KindBool, n) }
func NewIntColumn(name string, n int) *IntColumn       { return newVector[int64](name, KindInt, n) }
func NewFloatColumn(name string, n int) *FloatColumn   { return newVector[float64](name, KindFloat, n) }
func NewStringColumn(name string, n int) *StringColumn { return newVector[string](name, KindString, n) }
func NewTimeColumn(name string, n int) *TimeColumn     { return newVector[time.Time](name, KindTime, n) }

func (c *Vector[T]) Name() string        { return c.name }
func (c *Vector[T]) Kind() Kind          { return c.kind }
func (c *Vector[T]) Len() int            { return len(c.data) }
func (c *Vector[T]) IsNull(i int) bool   { return c.nulls[i] }
func (c *Vector[T]) Get(i int) (T, bool) { return c.data[i], !c.nulls[i] }
func (c *Vector[T]) Set(i int, v T)      { c.data[i] = v; c.nulls[i] = false }

func (c *Vector[T]) SetNull(i int) {
	var zero T
	c.data[i] = zero
	c.nulls[i] = true
}

func (c *Vector[T]) Append(v T) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}

func (c *Vector[T]) AppendNull() {
	var zero T
	c.data = append(c.data, zero)
	c.nulls = append(c.nulls, true)
}

func (c *Vector[T]) NullCount() int {
	n := 0
	for _, null := range c.nulls {
		if null {
			n++
		}
	}
	return n
}

// Valid returns the non-null values in row order.
func (c *Vector[T]) Valid() []T {
	out := make([]T, 0, len(c.data))
	for i, v := range c.data {
		if !c.nulls[i] {
			out = append(out, v)
		}
	}
	return out
}

func (c *Vector[T]) Clone() Column { return c.clone() }

func (c *Vector[T]) clone() *Vector[T] {
	out := &Vector[T]{name: c.name, kind: c.kind, data: make([]T, len(c.data)), nulls: make([]bool, len(c.nulls))}
	copy(out.data, c.data)
	copy(out.nulls, c.nulls)
	return out
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		f.cols[i] = newColumn(cs, 0)
		f.index[cs.Name] = i
	}
	return f
}

func newColumn(cs ColumnSchema, n int) Column {
	switch cs.Type {
	case KindBool:
		return NewBoolColumn(cs.Name, n)
	case KindInt:
		return NewIntColumn(cs.Name, n)
	case KindFloat:
		return NewFloatColumn(cs.Name, n)
	case KindString:
		return NewStringColumn(cs.Name, n)
	case KindTime:
		return NewTimeColumn(cs.Name, n)
	default:
		panic("invalid column kind")
	}
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

// Column returns the i-th column in schema order.
func (f *Frame) Column(i int) Column { return f.cols[i] }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// ColumnAs looks up a column by name and asserts its concrete type.
func ColumnAs[C Column](f *Frame, name string) (C, error) {
	var zero C
	col, ok := f.ColumnByName(name)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	c, ok := col.(C)
	if !ok {
		return zero, fmt.Errorf("%w: column %s is %s", ErrKindMismatch, name, col.Kind())
	}
	return c, nil
}

// Clone returns a deep copy; transforms mutate the copy and leave the input untouched.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		schema: Schema{Columns: append([]ColumnSchema(nil), f.schema.Columns...)},
		cols:   make([]Column, len(f.cols)),
		index:  make(map[string]int, len(f.index)),
		nrows:  f.nrows,
	}
	for i, c := range f.cols {
		out.cols[i] = c.Clone()
	}
	for k, v := range f.index {
		out.index[k] = v
	}
	return out
}

// WithColumn returns a copy of f with c appended, or with the existing column
// of the same name replaced in place. c must have exactly Rows() cells.
func (f *Frame) WithColumn(c Column) (*Frame, error) {
	if c.Len() != f.nrows {
		return nil, fmt.Errorf("column %s has %d rows, frame has %d", c.Name(), c.Len(), f.nrows)
	}
	out := f.Clone()
	cs := ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true}
	if i, ok := out.index[c.Name()]; ok {
		out.cols[i] = c
		out.schema.Columns[i] = cs
		return out, nil
	}
	out.index[c.Name()] = len(out.cols)
	out.cols = append(out.cols, c)
	out.schema.Columns = append(out.schema.Columns, cs)
	return out, nil
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		switch col := c.(type) {
		case *BoolColumn:
			col.AppendNull()
		case *IntColumn:
			col.AppendNull()
		case *FloatColumn:
			col.AppendNull()
		case *StringColumn:
			col.AppendNull()
		case *TimeColumn:
			col.AppendNull()
		default:
			panic("unknown column type")
		}
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist). A nil value
// marks the cell null.
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	c := f.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: column %s expects bool", ErrKindMismatch, name)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("%w: column %s expects int/int64", ErrKindMismatch, name)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("%w: column %s expects float64", ErrKindMismatch, name)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: column %s expects string", ErrKindMismatch, name)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("%w: column %s expects time.Time", ErrKindMismatch, name)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}

// Float returns the value of a numeric cell as float64. ok is false for
// null cells and non-numeric columns.
func Float(c Column, i int) (v float64, ok bool) {
	switch col := c.(type) {
	case *FloatColumn:
		return col.Get(i)
	case *IntColumn:
		x, ok := col.Get(i)
		return float64(x), ok
	}
	return 0, false
}
