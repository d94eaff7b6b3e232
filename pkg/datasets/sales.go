package datasets

import (
	"github.com/wdm0006/janitor-reports/pkg/aggregate"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
	"github.com/wdm0006/janitor-reports/pkg/transform/derive"
	"github.com/wdm0006/janitor-reports/pkg/transform/impute"
)

const (
	SalesByCategory = "Sales by category"
	SalesShare      = "Category share"
	SalesMonthly    = "Monthly sales"
	PriceHistogram  = "Price distribution"

	// OtherCategory replaces a missing Category.
	OtherCategory = "Other"
	priceBins     = 15
)

// Sales is the electronic sales dataset: Date, Price, Quantity and Category
// are required, Total, Month and Year are derived.
func Sales() Dataset {
	return Dataset{
		Name:          "sales",
		DefaultInput:  "electronic_sales.csv",
		DefaultOutput: "cleaned_electronic_sales.csv",
		Columns: []j.ColumnSchema{
			{Name: "Date", Type: j.KindTime, Nullable: true},
			{Name: "Price", Type: j.KindFloat, Nullable: true},
			{Name: "Quantity", Type: j.KindInt, Nullable: true},
			{Name: "Category", Type: j.KindString, Nullable: true},
		},
		Imputed: []string{"Price", "Quantity", "Category"},
		Impute: func() *j.Pipeline {
			return j.NewPipeline("impute").
				Add(&impute.Median{Column: "Price"}).
				Add(&impute.Constant{Column: "Quantity", Value: 1}).
				Add(&impute.Constant{Column: "Category", Value: OtherCategory})
		},
		Derive: func() *j.Pipeline {
			return j.NewPipeline("derive").
				Add(&derive.Product{Output: "Total", Columns: []string{"Price", "Quantity"}}).
				Add(&derive.DateParts{Column: "Date", MonthColumn: "Month", YearColumn: "Year"})
		},
		Summarize: summarizeSales,
	}
}

func summarizeSales(f *j.Frame) (Summary, error) {
	stats, err := aggregate.Describe(f, "Price", "Quantity", "Total")
	if err != nil {
		return Summary{}, err
	}
	byCategory, err := aggregate.GroupBy{
		Name:    SalesByCategory,
		Keys:    []string{"Category"},
		Value:   "Total",
		ByValue: true,
	}.Apply(f)
	if err != nil {
		return Summary{}, err
	}
	monthly, err := aggregate.GroupBy{
		Name:    SalesMonthly,
		Keys:    []string{"Year", "Month"},
		Value:   "Total",
		Compare: []aggregate.KeyCompare{aggregate.CompareNatural, aggregate.CompareMonth},
	}.Apply(f)
	if err != nil {
		return Summary{}, err
	}
	hist, err := aggregate.Histogram(f, "Price", priceBins)
	if err != nil {
		return Summary{}, err
	}
	hist.Name = PriceHistogram
	return Summary{
		StatsTitle: "Sales statistics",
		Stats:      stats,
		Tables:     []aggregate.SummaryTable{byCategory, share(byCategory), monthly, hist},
		Metrics:    []Metric{{Name: "Total sales", Value: byCategory.Total()}},
	}, nil
}

// share expresses each row of t as a percentage of the table total.
func share(t aggregate.SummaryTable) aggregate.SummaryTable {
	out := aggregate.SummaryTable{
		Name:      SalesShare,
		KeyNames:  t.KeyNames,
		ValueName: "share %",
		Rows:      make([]aggregate.SummaryRow, len(t.Rows)),
	}
	total := t.Total()
	for i, r := range t.Rows {
		v := 0.0
		if total != 0 {
			v = r.Value / total * 100
		}
		out.Rows[i] = aggregate.SummaryRow{Key: r.Key, Value: v}
	}
	return out
}
