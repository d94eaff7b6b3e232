package aggregate

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/wdm0006/janitor-reports/pkg/io/csvio"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Reduce folds the values of one group into a single number.
type Reduce int

const (
	Sum Reduce = iota
	Mean
)

func (r Reduce) String() string {
	if r == Mean {
		return "mean"
	}
	return "sum"
}

// KeyCompare orders two formatted key parts.
type KeyCompare func(a, b string) int

// CompareNatural orders numerically when both parts parse as numbers and
// lexically otherwise.
func CompareNatural(a, b string) int {
	x, errA := strconv.ParseFloat(a, 64)
	y, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

var monthIndex = func() map[string]int {
	m := make(map[string]int, 12)
	for i := time.January; i <= time.December; i++ {
		m[i.String()] = int(i)
	}
	return m
}()

// CompareMonth orders English month names chronologically. Unknown names
// sort after December.
func CompareMonth(a, b string) int {
	x, ok := monthIndex[a]
	if !ok {
		x = 13
	}
	y, ok := monthIndex[b]
	if !ok {
		y = 13
	}
	if x != y {
		return x - y
	}
	return strings.Compare(a, b)
}

// CompareLabels orders parts by their position in labels; parts not listed
// sort last.
func CompareLabels(labels ...string) KeyCompare {
	rank := make(map[string]int, len(labels))
	for i, l := range labels {
		rank[l] = i
	}
	pos := func(s string) int {
		if i, ok := rank[s]; ok {
			return i
		}
		return len(labels)
	}
	return func(a, b string) int {
		if d := pos(a) - pos(b); d != 0 {
			return d
		}
		return strings.Compare(a, b)
	}
}

// GroupBy reduces Value over the distinct combinations of Keys. Rows with a
// null key part or a null value are skipped. Groups are ordered by key using
// Compare (one comparator per key, CompareNatural when absent), or by
// descending value with key order breaking ties when ByValue is set.
type GroupBy struct {
	Name    string
	Keys    []string
	Value   string
	Reduce  Reduce
	Scale   float64 // multiplies each reduced value; 0 means 1
	ByValue bool
	Compare []KeyCompare
}

type group struct {
	key  []string
	vals []float64
}

// Apply computes the table over f.
func (g GroupBy) Apply(f *j.Frame) (SummaryTable, error) {
	keys := make([]j.Column, len(g.Keys))
	for i, name := range g.Keys {
		col, ok := f.ColumnByName(name)
		if !ok {
			return SummaryTable{}, fmt.Errorf("%w: %s", j.ErrUnknownColumn, name)
		}
		keys[i] = col
	}
	val, ok := f.ColumnByName(g.Value)
	if !ok {
		return SummaryTable{}, fmt.Errorf("%w: %s", j.ErrUnknownColumn, g.Value)
	}
	if !val.Kind().Numeric() {
		return SummaryTable{}, fmt.Errorf("%w: %s is %s", j.ErrKindMismatch, g.Value, val.Kind())
	}

	groups := map[string]*group{}
	var order []*group
rows:
	for r := 0; r < f.Rows(); r++ {
		v, ok := j.Float(val, r)
		if !ok {
			continue
		}
		parts := make([]string, len(keys))
		for i, k := range keys {
			if k.IsNull(r) {
				continue rows
			}
			parts[i] = csvio.FormatCell(k, r, "")
		}
		id := strings.Join(parts, "\x00")
		grp, ok := groups[id]
		if !ok {
			grp = &group{key: parts}
			groups[id] = grp
			order = append(order, grp)
		}
		grp.vals = append(grp.vals, v)
	}

	scale := g.Scale
	if scale == 0 {
		scale = 1
	}
	t := SummaryTable{
		Name:      g.Name,
		KeyNames:  append([]string(nil), g.Keys...),
		ValueName: g.Value,
		Rows:      make([]SummaryRow, len(order)),
	}
	for i, grp := range order {
		var v float64
		if g.Reduce == Mean {
			v = stat.Mean(grp.vals, nil)
		} else {
			v = floats.Sum(grp.vals)
		}
		t.Rows[i] = SummaryRow{Key: grp.key, Value: v * scale}
	}
	sort.SliceStable(t.Rows, func(a, b int) bool {
		ra, rb := t.Rows[a], t.Rows[b]
		if g.ByValue && ra.Value != rb.Value {
			return ra.Value > rb.Value
		}
		return g.compareKeys(ra.Key, rb.Key) < 0
	})
	return t, nil
}

func (g GroupBy) compareKeys(a, b []string) int {
	for i := range a {
		cmp := KeyCompare(CompareNatural)
		if i < len(g.Compare) && g.Compare[i] != nil {
			cmp = g.Compare[i]
		}
		if d := cmp(a[i], b[i]); d != 0 {
			return d
		}
	}
	return 0
}
