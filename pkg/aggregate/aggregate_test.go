package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

type row struct {
	cat   any
	year  any
	month any
	total any
}

func frame(t *testing.T, rows []row) *j.Frame {
	t.Helper()
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{
		{Name: "Category", Type: j.KindString},
		{Name: "Year", Type: j.KindInt},
		{Name: "Month", Type: j.KindString},
		{Name: "Total", Type: j.KindFloat},
	}})
	for i, r := range rows {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "Category", r.cat))
		require.NoError(t, f.SetCell(i, "Year", r.year))
		require.NoError(t, f.SetCell(i, "Month", r.month))
		require.NoError(t, f.SetCell(i, "Total", r.total))
	}
	return f
}

func sales(t *testing.T) *j.Frame {
	return frame(t, []row{
		{"TV", int64(2024), "January", 200.0},
		{"Other", int64(2023), "December", 100.0},
		{"Laptop", int64(2024), "February", 300.0},
		{"TV", int64(2024), "January", 100.0},
		{"Audio", int64(2023), "December", 200.0},
		{"Audio", nil, nil, 50.0},
		{nil, int64(2024), "February", nil},
	})
}

func TestDescribe(t *testing.T) {
	f := frame(t, []row{
		{"a", int64(1), "x", 1.0},
		{"a", int64(2), "x", 2.0},
		{"a", nil, "x", 3.0},
		{"a", int64(4), "x", 4.0},
	})
	stats, err := Describe(f, "Total", "Year")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	s := stats[0]
	assert.Equal(t, "Total", s.Column)
	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.Q1, 1e-12)
	assert.InDelta(t, 2.5, s.Median, 1e-12)
	assert.InDelta(t, 3.25, s.Q3, 1e-12)
	assert.Equal(t, 4.0, s.Max)

	assert.Equal(t, 3, stats[1].Count, "nulls are excluded")
	assert.InDelta(t, 2.0, stats[1].Median, 1e-12)
}

func TestDescribeDefaultsToNumericColumns(t *testing.T) {
	stats, err := Describe(sales(t))
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "Year", stats[0].Column)
	assert.Equal(t, "Total", stats[1].Column)
}

func TestDescribeRejectsStrings(t *testing.T) {
	_, err := Describe(sales(t), "Category")
	assert.ErrorIs(t, err, j.ErrKindMismatch)
}

func TestSumByCategory(t *testing.T) {
	f := sales(t)
	tbl, err := GroupBy{Name: "Sales by category", Keys: []string{"Category"}, Value: "Total", ByValue: true}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "TV", "Audio", "Other"}, tbl.Labels(" "))
	assert.Equal(t, []float64{300, 300, 250, 100}, tbl.Values())
	assert.Equal(t, 950.0, tbl.Total(), "every non-null Total with a category is counted once")

	v, ok := tbl.Lookup("Audio")
	assert.True(t, ok)
	assert.Equal(t, 250.0, v)
	_, ok = tbl.Lookup("Phone")
	assert.False(t, ok)
}

func TestSumByYearMonth(t *testing.T) {
	tbl, err := GroupBy{
		Name:    "Monthly sales",
		Keys:    []string{"Year", "Month"},
		Value:   "Total",
		Compare: []KeyCompare{CompareNatural, CompareMonth},
	}.Apply(sales(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"2023 December", "2024 January", "2024 February"}, tbl.Labels(" "))
	assert.Equal(t, []float64{300, 300, 300}, tbl.Values())
}

func TestMeanScaled(t *testing.T) {
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{
		{Name: "Pclass", Type: j.KindInt},
		{Name: "Survived", Type: j.KindInt},
	}})
	for i, r := range [][2]int64{{3, 0}, {1, 1}, {3, 1}, {10, 0}, {3, 0}} {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "Pclass", r[0]))
		require.NoError(t, f.SetCell(i, "Survived", r[1]))
	}
	tbl, err := GroupBy{Keys: []string{"Pclass"}, Value: "Survived", Reduce: Mean, Scale: 100}.Apply(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "10"}, tbl.Labels(""), "numeric keys sort numerically")
	assert.InDeltaSlice(t, []float64{100, 100.0 / 3, 0}, tbl.Values(), 1e-9)
}

func TestCompareLabels(t *testing.T) {
	cmp := CompareLabels("0-10", "11-20", "21-30")
	assert.Negative(t, cmp("0-10", "11-20"))
	assert.Positive(t, cmp("21-30", "11-20"))
	assert.Positive(t, cmp("x", "21-30"))
	assert.Zero(t, cmp("11-20", "11-20"))
}

func TestHistogram(t *testing.T) {
	f := frame(t, []row{
		{"a", nil, nil, 0.0},
		{"a", nil, nil, 1.0},
		{"a", nil, nil, 2.0},
		{"a", nil, nil, 10.0},
		{"a", nil, nil, nil},
	})
	h, err := Histogram(f, "Total", 5)
	require.NoError(t, err)
	require.Len(t, h.Rows, 5)
	assert.Equal(t, []float64{2, 1, 0, 0, 1}, h.Values())
	assert.Equal(t, "0.00-2.00", h.Rows[0].Key[0])
	assert.Equal(t, "8.00-10.00", h.Rows[4].Key[0])
	assert.Equal(t, 4.0, h.Total())
}

func TestHistogramSkipsNonFinite(t *testing.T) {
	f := frame(t, []row{
		{"a", nil, nil, math.Inf(1)},
		{"a", nil, nil, 5.0},
		{"a", nil, nil, math.Inf(-1)},
		{"a", nil, nil, math.NaN()},
	})
	var h SummaryTable
	require.NotPanics(t, func() {
		var err error
		h, err = Histogram(f, "Total", 4)
		require.NoError(t, err)
	})
	require.Len(t, h.Rows, 4)
	assert.Equal(t, 1.0, h.Total())

	f = frame(t, []row{{"a", nil, nil, math.Inf(1)}})
	h, err := Histogram(f, "Total", 4)
	require.NoError(t, err)
	assert.Empty(t, h.Rows)
}

func TestHistogramConstantColumn(t *testing.T) {
	f := frame(t, []row{{"a", nil, nil, 3.0}, {"a", nil, nil, 3.0}})
	h, err := Histogram(f, "Total", 3)
	require.NoError(t, err)
	assert.Equal(t, 2.0, h.Total())
}
