// Package datasets instantiates the cleaning pipeline for the electronic
// sales and Titanic passenger datasets and runs it end to end.
package datasets

import (
	"github.com/wdm0006/janitor-reports/pkg/aggregate"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// Metric is a single headline figure.
type Metric struct {
	Name  string
	Value float64
	Unit  string
}

// Summary is everything handed to reporting after aggregation.
type Summary struct {
	StatsTitle string
	Stats      []aggregate.Stats
	Tables     []aggregate.SummaryTable
	Metrics    []Metric
}

// Table returns the summary table with the given name.
func (s Summary) Table(name string) (aggregate.SummaryTable, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return aggregate.SummaryTable{}, false
}

// Dataset fixes the schema, cleaning policy, derived columns and summaries
// of one kind of input.
type Dataset struct {
	Name          string
	DefaultInput  string
	DefaultOutput string
	// Columns are required in the input and parsed with the given kinds.
	Columns []j.ColumnSchema
	// Imputed lists the columns that must hold no nulls after Impute.
	Imputed []string
	Impute  func() *j.Pipeline
	Derive  func() *j.Pipeline
	// Validate, when set, checks the derived frame before aggregation.
	Validate  func() *j.Pipeline
	Summarize func(f *j.Frame) (Summary, error)
}

// ByName returns the dataset called name.
func ByName(name string) (Dataset, bool) {
	switch name {
	case "sales":
		return Sales(), true
	case "titanic":
		return Titanic(), true
	}
	return Dataset{}, false
}
