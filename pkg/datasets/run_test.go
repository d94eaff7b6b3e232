package datasets

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sjwhitworth/golearn/base"
	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/janitor-reports/adapters/golearn"
	"github.com/wdm0006/janitor-reports/pkg/config"
	"github.com/wdm0006/janitor-reports/pkg/io/csvio"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testdata(name string) string { return filepath.Join("..", "..", "testdata", name) }

func writeInput(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func run(t *testing.T, ds Dataset, input string) (*Result, string, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out.csv")
	var rep bytes.Buffer
	res, err := Run(context.Background(), ds, config.Default(input, out), quiet, &rep)
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	return res, string(b), rep.String()
}

func loadOutput(t *testing.T, path string, ds Dataset) *j.Frame {
	t.Helper()
	f, _, err := csvio.Load(path, csvio.ReaderOptions{HasHeader: true, Columns: ds.Columns})
	require.NoError(t, err)
	return f
}

func TestSalesScenario(t *testing.T) {
	convey.Convey("Given two sales rows with a missing price, quantity and category", t, func() {
		input := writeInput(t, "Date,Price,Quantity,Category\n2023-01-15,,2,TV\n2023-02-01,100,,\n")
		out := filepath.Join(t.TempDir(), "cleaned.csv")
		var rep bytes.Buffer
		res, err := Run(context.Background(), Sales(), config.Default(input, out), quiet, &rep)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("The cleaned file holds imputed values and derived columns", func() {
			b, err := os.ReadFile(out)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(b), convey.ShouldEqual,
				"Date,Price,Quantity,Category,Total,Month,Year\n"+
					"2023-01-15,100,2,TV,200,January,2023\n"+
					"2023-02-01,100,1,Other,100,February,2023\n")
		})

		convey.Convey("The category table sums Total per category", func() {
			tbl, ok := res.Summary.Table(SalesByCategory)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(tbl.Labels(""), convey.ShouldResemble, []string{"TV", "Other"})
			convey.So(tbl.Values(), convey.ShouldResemble, []float64{200, 100})
		})

		convey.Convey("The report lists the summaries", func() {
			convey.So(rep.String(), convey.ShouldContainSubstring, "sales: 2 records loaded")
			convey.So(rep.String(), convey.ShouldContainSubstring, "Monthly sales")
			convey.So(rep.String(), convey.ShouldContainSubstring, "Total sales: 300.00")
		})
	})
}

func TestTitanicScenario(t *testing.T) {
	convey.Convey("Given passengers aged 10, unknown and 30 among others", t, func() {
		input := writeInput(t, "Survived,Pclass,Sex,Age,Embarked,Cabin\n"+
			"0,3,male,10,S,\n"+
			"1,1,female,,C,C85\n"+
			"1,2,female,30,,\n"+
			"0,3,male,2,S,\n"+
			"1,3,female,10,Q,\n")
		res, text, _ := run(t, Titanic(), input)
		f := loadOutput(t, res.Output, Titanic())

		convey.Convey("The missing age becomes the median", func() {
			age, err := j.ColumnAs[*j.FloatColumn](f, "Age")
			convey.So(err, convey.ShouldBeNil)
			convey.So(age.Valid()[:3], convey.ShouldResemble, []float64{10, 10, 30})
		})

		convey.Convey("AgeGroup buckets follow the imputed ages", func() {
			g, err := j.ColumnAs[*j.StringColumn](f, "AgeGroup")
			convey.So(err, convey.ShouldBeNil)
			convey.So(g.Valid()[:3], convey.ShouldResemble, []string{"0-10", "0-10", "21-30"})
		})

		convey.Convey("Embarked and Cabin are filled", func() {
			convey.So(text, convey.ShouldContainSubstring, "1,2,female,30,S,Unknown,21-30\n")
		})
	})
}

func TestSalesFixture(t *testing.T) {
	res, _, rep := run(t, Sales(), testdata("electronic_sales.csv"))
	assert.Equal(t, 8, res.Loaded)
	assert.Equal(t, 8, res.Written)

	byCat, ok := res.Summary.Table(SalesByCategory)
	require.True(t, ok)
	assert.Equal(t, []string{"Phone", "TV", "Other", "Audio", "Laptop"}, byCat.Labels(""))
	assert.Equal(t, []float64{21000000, 16500000, 9000000, 4850000, 3750000}, byCat.Values())

	monthly, ok := res.Summary.Table(SalesMonthly)
	require.True(t, ok)
	assert.Equal(t, []string{"2023 January", "2023 February", "2023 March", "2024 January", "2024 February"}, monthly.Labels(" "))
	assert.Equal(t, []float64{12750000, 9350000, 12000000, 6000000, 15000000}, monthly.Values())
	assert.Equal(t, byCat.Total(), monthly.Total(), "every Total lands in exactly one month")

	share, ok := res.Summary.Table(SalesShare)
	require.True(t, ok)
	assert.InDelta(t, 100, share.Total(), 1e-9)

	hist, ok := res.Summary.Table(PriceHistogram)
	require.True(t, ok)
	assert.Len(t, hist.Rows, 15)
	assert.Equal(t, 8.0, hist.Total())

	require.Len(t, res.Summary.Stats, 3)
	price := res.Summary.Stats[0]
	assert.Equal(t, 8, price.Count)
	assert.Equal(t, 3750000.0, price.Median)

	filled := map[string]int{}
	for _, c := range res.Changes {
		filled[c.Column] = c.Filled()
	}
	assert.Equal(t, map[string]int{"Date": 0, "Product": 0, "Price": 2, "Quantity": 1, "Category": 1, "Total": 0, "Month": 0, "Year": 0}, filled)
	assert.Contains(t, rep, "Missing values")
}

func TestSalesTotalsMatchOperands(t *testing.T) {
	res, _, _ := run(t, Sales(), testdata("electronic_sales.csv"))
	f := loadOutput(t, res.Output, Sales())
	price, _ := j.ColumnAs[*j.FloatColumn](f, "Price")
	qty, _ := j.ColumnAs[*j.IntColumn](f, "Quantity")
	total, ok := f.ColumnByName("Total")
	require.True(t, ok)
	for r := 0; r < f.Rows(); r++ {
		p, ok1 := price.Get(r)
		q, ok2 := qty.Get(r)
		tv, ok3 := j.Float(total, r)
		require.True(t, ok1 && ok2 && ok3, "row %d has a null", r)
		assert.Equal(t, p*float64(q), tv, "row %d", r)
	}
}

func TestTitanicFixture(t *testing.T) {
	res, _, rep := run(t, Titanic(), testdata("titanic.csv"))
	assert.Equal(t, 11, res.Written)

	cases := map[string]map[string]float64{
		SurvivalBySex:      {"female": 100, "male": 0},
		SurvivalByClass:    {"1": 75, "2": 100, "3": 100.0 / 3},
		SurvivalByAgeGroup: {"0-10": 0, "11-20": 100, "21-30": 200.0 / 3, "31-40": 60, "51-60": 0},
	}
	for name, want := range cases {
		tbl, ok := res.Summary.Table(name)
		require.True(t, ok, name)
		require.Len(t, tbl.Rows, len(want), name)
		for k, v := range want {
			got, ok := tbl.Lookup(k)
			require.True(t, ok, "%s[%s]", name, k)
			assert.InDelta(t, v, got, 1e-9, "%s[%s]", name, k)
		}
	}
	byAge, _ := res.Summary.Table(SurvivalByAgeGroup)
	assert.Equal(t, []string{"0-10", "11-20", "21-30", "31-40", "51-60"}, byAge.Labels(""))

	require.Len(t, res.Summary.Metrics, 2)
	assert.Equal(t, 6.0, res.Summary.Metrics[0].Value)
	assert.InDelta(t, 600.0/11, res.Summary.Metrics[1].Value, 1e-9)
	assert.Contains(t, rep, "Survival rate: 54.55%")

	for _, c := range res.Changes {
		switch c.Column {
		case "Age", "Embarked":
			assert.Equal(t, 1, c.Filled(), c.Column)
		case "Cabin":
			assert.Equal(t, 7, c.Filled(), c.Column)
		}
		if c.Column != "AgeGroup" {
			assert.False(t, c.Added, c.Column)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	for _, ds := range []Dataset{Sales(), Titanic()} {
		input := testdata(ds.DefaultInput)
		_, first, rep1 := run(t, ds, input)
		_, second, rep2 := run(t, ds, input)
		assert.Equal(t, first, second, ds.Name)
		assert.Equal(t, rep1, rep2, ds.Name)
		assert.Equal(t, 1+loadedRows(t, ds, input), strings.Count(first, "\n"), "one header plus one line per loaded row")
	}
}

func loadedRows(t *testing.T, ds Dataset, input string) int {
	f, _, err := csvio.Load(input, csvio.ReaderOptions{HasHeader: true, Columns: ds.Columns})
	require.NoError(t, err)
	return f.Rows()
}

func TestImputeIsIdempotent(t *testing.T) {
	for _, ds := range []Dataset{Sales(), Titanic()} {
		f, _, err := csvio.Load(testdata(ds.DefaultInput), csvio.ReaderOptions{HasHeader: true, Columns: ds.Columns})
		require.NoError(t, err)
		once, err := ds.Impute().Run(context.Background(), f)
		require.NoError(t, err)
		twice, err := ds.Impute().Run(context.Background(), once)
		require.NoError(t, err)

		var a, b bytes.Buffer
		require.NoError(t, csvio.Write(&a, once, csvio.WriterOptions{}))
		require.NoError(t, csvio.Write(&b, twice, csvio.WriterOptions{}))
		assert.Equal(t, a.String(), b.String(), ds.Name)
		for _, name := range ds.Imputed {
			col, _ := once.ColumnByName(name)
			assert.Zero(t, col.NullCount(), "%s.%s", ds.Name, name)
		}
	}
}

func TestMissingInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	_, err := Run(context.Background(), Sales(), config.Default(filepath.Join(t.TempDir(), "nope.csv"), out), quiet, io.Discard)
	var le *j.LoadError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, j.ErrNotFound)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestMissingColumn(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.csv")
	_, err := Run(context.Background(), Sales(), config.Default(testdata("titanic.csv"), out), quiet, io.Discard)
	assert.ErrorIs(t, err, j.ErrMissingColumn)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUnwritableOutput(t *testing.T) {
	cfg := config.Default(testdata("electronic_sales.csv"), filepath.Join(t.TempDir(), "missing", "out.csv"))
	_, err := Run(context.Background(), Sales(), cfg, quiet, io.Discard)
	var we *j.WriteError
	assert.ErrorAs(t, err, &we)
}

func TestExportTypes(t *testing.T) {
	dir := t.TempDir()
	for _, typ := range config.OutputTypes {
		cfg := config.Default(testdata("titanic.csv"), filepath.Join(dir, "titanic."+typ))
		cfg.Output.Type = typ
		res, err := Run(context.Background(), Titanic(), cfg, quiet, io.Discard)
		require.NoError(t, err, typ)
		st, err := os.Stat(cfg.Output.Path)
		require.NoError(t, err, typ)
		assert.Positive(t, st.Size(), typ)
		if typ != "arff" {
			continue
		}
		inst, err := base.ParseDenseARFFToInstances(cfg.Output.Path)
		require.NoError(t, err)
		back, err := golearn.FromDenseInstances(inst)
		require.NoError(t, err)
		assert.Equal(t, res.Written, back.Rows())
		name, err := j.ColumnAs[*j.StringColumn](back, "Name")
		require.NoError(t, err)
		v, _ := name.Get(0)
		assert.Equal(t, "Braund, Mr. Owen Harris", v)
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(config.OutputTypes), "no temporary files left behind")
}

func TestWorkbookAndPreview(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default(testdata("electronic_sales.csv"), filepath.Join(dir, "out.csv"))
	cfg.Report = config.Report{Charts: true, Workbook: filepath.Join(dir, "summary.xlsx"), Preview: 3, Profile: 1}
	var rep bytes.Buffer
	_, err := Run(context.Background(), Sales(), cfg, quiet, &rep)
	require.NoError(t, err)
	_, err = os.Stat(cfg.Report.Workbook)
	assert.NoError(t, err)
	assert.Contains(t, rep.String(), "[3x8] DataFrame")
	assert.Contains(t, rep.String(), "Input profile")
	assert.Contains(t, rep.String(), "Profile Summary (8 rows)")
	assert.Contains(t, rep.String(), "- Category (string): count=")
}

func TestByName(t *testing.T) {
	ds, ok := ByName("titanic")
	assert.True(t, ok)
	assert.Equal(t, "titanic_clean.csv", ds.DefaultOutput)
	_, ok = ByName("iris")
	assert.False(t, ok)
}
