// Package profile summarises a Frame column by column: non-null and null
// counts, numeric ranges and the most frequent text values. Profiles taken
// before and after cleaning are compared to report what imputation filled.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/wdm0006/janitor-reports/pkg/io/csvio"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

type NumStats struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Sum  float64 `json:"sum"`
	Mean float64 `json:"mean"`
}

type Freq struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type ColumnProfile struct {
	Name  string    `json:"name"`
	Kind  string    `json:"kind"`
	Count int       `json:"count"`
	Nulls int       `json:"nulls"`
	Num   *NumStats `json:"num,omitempty"`
	Top   []Freq    `json:"top,omitempty"`
}

// Profile is the per-column summary of one Frame.
type Profile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Of profiles f, keeping the topK most frequent values of string and time
// columns (ties by value).
func Of(f *j.Frame, topK int) Profile {
	p := Profile{Rows: f.Rows(), Columns: make([]ColumnProfile, 0, f.Cols())}
	for i := 0; i < f.Cols(); i++ {
		col := f.Column(i)
		cp := ColumnProfile{Name: col.Name(), Kind: col.Kind().String(), Nulls: col.NullCount()}
		cp.Count = col.Len() - cp.Nulls
		switch {
		case col.Kind().Numeric():
			cp.Num = numStats(col)
		case col.Kind() == j.KindString || col.Kind() == j.KindTime:
			cp.Top = top(col, topK)
		}
		p.Columns = append(p.Columns, cp)
	}
	return p
}

func numStats(col j.Column) *NumStats {
	s := &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
	n := 0
	for r := 0; r < col.Len(); r++ {
		v, ok := j.Float(col, r)
		if !ok {
			continue
		}
		n++
		s.Sum += v
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if n == 0 {
		return nil
	}
	s.Mean = s.Sum / float64(n)
	return s
}

func top(col j.Column, k int) []Freq {
	if k <= 0 {
		return nil
	}
	freqs := map[string]int{}
	for r := 0; r < col.Len(); r++ {
		if !col.IsNull(r) {
			freqs[csvio.FormatCell(col, r, "")]++
		}
	}
	arr := make([]Freq, 0, len(freqs))
	for v, c := range freqs {
		arr = append(arr, Freq{Value: v, Count: c})
	}
	sort.Slice(arr, func(a, b int) bool {
		if arr[a].Count != arr[b].Count {
			return arr[a].Count > arr[b].Count
		}
		return arr[a].Value < arr[b].Value
	})
	if len(arr) > k {
		arr = arr[:k]
	}
	return arr
}

// Column returns the profile of the named column.
func (p Profile) Column(name string) (ColumnProfile, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnProfile{}, false
}

// Change is the null count of one column before and after cleaning. Added
// marks a column that only exists after cleaning.
type Change struct {
	Column string
	Before int
	After  int
	Added  bool
}

// Filled is how many cells were filled in.
func (c Change) Filled() int {
	if c.Added {
		return 0
	}
	return c.Before - c.After
}

// Diff pairs the null counts of before and after by column name, in the
// column order of after.
func Diff(before, after Profile) []Change {
	out := make([]Change, 0, len(after.Columns))
	for _, a := range after.Columns {
		ch := Change{Column: a.Name, After: a.Nulls}
		if b, ok := before.Column(a.Name); ok {
			ch.Before = b.Nulls
		} else {
			ch.Added = true
		}
		out = append(out, ch)
	}
	return out
}

// Text renders p as an indented plain-text listing.
func (p Profile) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile Summary (%d rows)\n", p.Rows)
	for _, cp := range p.Columns {
		fmt.Fprintf(&b, "- %s (%s): count=%d nulls=%d", cp.Name, cp.Kind, cp.Count, cp.Nulls)
		if cp.Num != nil {
			fmt.Fprintf(&b, " min=%.6g max=%.6g mean=%.6g", cp.Num.Min, cp.Num.Max, cp.Num.Mean)
		}
		b.WriteByte('\n')
		for _, fr := range cp.Top {
			fmt.Fprintf(&b, "  * %q: %d\n", fr.Value, fr.Count)
		}
	}
	return b.String()
}
