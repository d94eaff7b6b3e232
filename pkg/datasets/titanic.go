package datasets

import (
	"fmt"

	"github.com/wdm0006/janitor-reports/pkg/aggregate"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
	"github.com/wdm0006/janitor-reports/pkg/transform/derive"
	"github.com/wdm0006/janitor-reports/pkg/transform/impute"
	"github.com/wdm0006/janitor-reports/pkg/transform/validate"
)

const (
	SurvivalBySex      = "Survival by sex"
	SurvivalByClass    = "Survival by class"
	SurvivalByAgeGroup = "Survival by age group"
	AgeHistogram       = "Age distribution"

	// UnknownCabin replaces a missing Cabin.
	UnknownCabin = "Unknown"
	ageBins      = 20
)

// AgeGroups are the AgeGroup labels in bucket order.
var AgeGroups = []string{"0-10", "11-20", "21-30", "31-40", "41-50", "51-60", "61-70", "71-80"}

var ageEdges = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80}

// Titanic is the passenger dataset: Survived, Pclass, Sex, Age, Embarked and
// Cabin are required, AgeGroup is derived.
func Titanic() Dataset {
	return Dataset{
		Name:          "titanic",
		DefaultInput:  "titanic.csv",
		DefaultOutput: "titanic_clean.csv",
		Columns: []j.ColumnSchema{
			{Name: "Survived", Type: j.KindInt, Nullable: true},
			{Name: "Pclass", Type: j.KindInt, Nullable: true},
			{Name: "Sex", Type: j.KindString, Nullable: true},
			{Name: "Age", Type: j.KindFloat, Nullable: true},
			{Name: "Embarked", Type: j.KindString, Nullable: true},
			{Name: "Cabin", Type: j.KindString, Nullable: true},
		},
		Imputed: []string{"Age", "Embarked", "Cabin"},
		Impute: func() *j.Pipeline {
			return j.NewPipeline("impute").
				Add(&impute.Median{Column: "Age"}).
				Add(&impute.Mode{Column: "Embarked"}).
				Add(&impute.Constant{Column: "Cabin", Value: UnknownCabin})
		},
		Derive: func() *j.Pipeline {
			return j.NewPipeline("derive").
				Add(&derive.Bucket{Column: "Age", Output: "AgeGroup", Edges: ageEdges, Labels: AgeGroups, IncludeLowest: true})
		},
		Validate: func() *j.Pipeline {
			return j.NewPipeline("validate").
				Add(validate.Between("Survived", 0, 1)).
				Add(validate.Between("Pclass", 1, 3))
		},
		Summarize: summarizeTitanic,
	}
}

func summarizeTitanic(f *j.Frame) (Summary, error) {
	stats, err := aggregate.Describe(f)
	if err != nil {
		return Summary{}, err
	}
	survival := func(name, key string, cmp aggregate.KeyCompare) (aggregate.SummaryTable, error) {
		return aggregate.GroupBy{
			Name:    name,
			Keys:    []string{key},
			Value:   "Survived",
			Reduce:  aggregate.Mean,
			Scale:   100,
			Compare: []aggregate.KeyCompare{cmp},
		}.Apply(f)
	}
	bySex, err := survival(SurvivalBySex, "Sex", aggregate.CompareNatural)
	if err != nil {
		return Summary{}, err
	}
	byClass, err := survival(SurvivalByClass, "Pclass", aggregate.CompareNatural)
	if err != nil {
		return Summary{}, err
	}
	byAge, err := survival(SurvivalByAgeGroup, "AgeGroup", aggregate.CompareLabels(AgeGroups...))
	if err != nil {
		return Summary{}, err
	}
	hist, err := aggregate.Histogram(f, "Age", ageBins)
	if err != nil {
		return Summary{}, err
	}
	hist.Name = AgeHistogram

	survived, err := j.ColumnAs[*j.IntColumn](f, "Survived")
	if err != nil {
		return Summary{}, fmt.Errorf("survival totals: %w", err)
	}
	total := 0.0
	for _, v := range survived.Valid() {
		total += float64(v)
	}
	rate := 0.0
	if f.Rows() > 0 {
		rate = total / float64(f.Rows()) * 100
	}
	return Summary{
		StatsTitle: "Passenger statistics",
		Stats:      stats,
		Tables:     []aggregate.SummaryTable{bySex, byClass, byAge, hist},
		Metrics: []Metric{
			{Name: "Total survived", Value: total},
			{Name: "Survival rate", Value: rate, Unit: "%"},
		},
	}, nil
}
