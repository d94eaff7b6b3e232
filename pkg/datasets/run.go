package datasets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/wdm0006/janitor-reports/adapters/golearn"
	"github.com/wdm0006/janitor-reports/pkg/config"
	"github.com/wdm0006/janitor-reports/pkg/io/csvio"
	"github.com/wdm0006/janitor-reports/pkg/io/jsonlio"
	"github.com/wdm0006/janitor-reports/pkg/io/parquetio"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
	"github.com/wdm0006/janitor-reports/pkg/profile"
	"github.com/wdm0006/janitor-reports/pkg/report"
)

// Result describes a completed run.
type Result struct {
	Loaded  int
	Written int
	Output  string
	Summary Summary
	Changes []profile.Change
}

// Run loads cfg.Input.Path, cleans it with ds, writes the report to out and
// exports the cleaned frame to cfg.Output.Path. The output file is written
// last and only when every earlier stage succeeded.
func Run(ctx context.Context, ds Dataset, cfg config.Config, log *slog.Logger, out io.Writer) (*Result, error) {
	inDelim, err := config.Delimiter(cfg.Input.Delimiter)
	if err != nil {
		return nil, err
	}
	f, warnings, err := csvio.Load(cfg.Input.Path, csvio.ReaderOptions{
		HasHeader: true,
		Delimiter: inDelim,
		Strict:    cfg.Input.Strict,
		Columns:   ds.Columns,
	})
	if err != nil {
		return nil, err
	}
	log.Info("loaded", "path", cfg.Input.Path, "rows", f.Rows(), "columns", f.Cols())
	if warnings != "" {
		log.Warn("input repaired", "path", cfg.Input.Path, "repairs", warnings)
	}
	before := profile.Of(f, cfg.Report.Profile)

	cleaned, err := ds.Impute().Run(ctx, f)
	if err != nil {
		return nil, err
	}
	for _, name := range ds.Imputed {
		if col, ok := cleaned.ColumnByName(name); ok && col.NullCount() > 0 {
			log.Warn("column has no values to impute from", "column", name, "nulls", col.NullCount())
		}
	}
	derived, err := ds.Derive().Run(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	if ds.Validate != nil {
		if _, err := ds.Validate().Run(ctx, derived); err != nil {
			return nil, err
		}
	}
	changes := profile.Diff(before, profile.Of(derived, 0))
	for _, c := range changes {
		if c.Filled() > 0 {
			log.Debug("imputed", "column", c.Column, "filled", c.Filled())
		}
	}
	log.Info("cleaned", "rows", derived.Rows(), "columns", derived.Cols())

	summary, err := ds.Summarize(derived)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	if err := writeReport(out, ds, cfg.Report, before, changes, summary, derived); err != nil {
		return nil, err
	}
	if cfg.Report.Workbook != "" {
		if err := report.WriteWorkbook(cfg.Report.Workbook, summary.Stats, summary.Tables); err != nil {
			return nil, err
		}
		log.Info("workbook written", "path", cfg.Report.Workbook, "sheets", len(summary.Tables)+1)
	}

	if err := Export(derived, cfg.Output, ds.Name); err != nil {
		return nil, err
	}
	log.Info("exported", "path", cfg.Output.Path, "type", outputType(cfg.Output), "rows", derived.Rows())
	return &Result{
		Loaded:  f.Rows(),
		Written: derived.Rows(),
		Output:  cfg.Output.Path,
		Summary: summary,
		Changes: changes,
	}, nil
}

func writeReport(out io.Writer, ds Dataset, opt config.Report, input profile.Profile, changes []profile.Change, s Summary, f *j.Frame) error {
	rep := report.New(out, report.Options{Charts: opt.Charts})
	fmt.Fprintf(out, "%s: %d records loaded\n", ds.Name, input.Rows)
	if opt.Profile > 0 {
		rep.Text("Input profile", input.Text())
	}
	rep.Missing(changes)
	rep.Stats(s.StatsTitle, s.Stats)
	for _, t := range s.Tables {
		rep.Table(t)
	}
	if len(s.Metrics) > 0 {
		fmt.Fprintln(out)
		for _, m := range s.Metrics {
			rep.Metric(m.Name, m.Value, m.Unit)
		}
	}
	if opt.Preview > 0 {
		text, err := report.Preview(f, opt.Preview)
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		rep.Text("Cleaned data", text)
	}
	return nil
}

func outputType(o config.Output) string {
	if o.Type != "" {
		return o.Type
	}
	return "csv"
}

// Export writes f to o.Path in the format named by o.Type. relation names
// the ARFF relation.
func Export(f *j.Frame, o config.Output, relation string) error {
	switch outputType(o) {
	case "csv":
		delim, err := config.Delimiter(o.Delimiter)
		if err != nil {
			return err
		}
		return csvio.WriteAll(o.Path, f, csvio.WriterOptions{Delimiter: delim})
	case "jsonl":
		return jsonlio.WriteAll(o.Path, f)
	case "parquet":
		return parquetio.WriteAll(o.Path, f)
	case "arff":
		if relation == "" {
			relation = strings.TrimSuffix(filepath.Base(o.Path), filepath.Ext(o.Path))
		}
		return golearn.WriteARFF(o.Path, f, relation)
	}
	return fmt.Errorf("unsupported output type %q", o.Type)
}
