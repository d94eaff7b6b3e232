package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/wdm0006/janitor-reports/pkg/aggregate"
	iox "github.com/wdm0006/janitor-reports/pkg/io/ioutils"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

const maxSheetName = 31

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// SheetName makes name usable as an xlsx sheet title.
func SheetName(name string) string {
	s := strings.TrimSpace(sheetNameReplacer.Replace(name))
	if s == "" {
		s = "Sheet"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	return s
}

// WriteWorkbook saves stats on a "Statistics" sheet and each table on its
// own sheet, replacing path only once the whole workbook is encoded.
func WriteWorkbook(path string, stats []aggregate.Stats, tables []aggregate.SummaryTable) error {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	first := "Statistics"
	if err := wb.SetSheetName("Sheet1", first); err != nil {
		return &j.WriteError{Path: path, Err: err}
	}
	if err := writeStats(wb, first, stats); err != nil {
		return &j.WriteError{Path: path, Err: err}
	}
	used := map[string]bool{first: true}
	for _, t := range tables {
		name := SheetName(t.Name)
		for i := 2; used[name]; i++ {
			name = SheetName(fmt.Sprintf("%s %d", t.Name, i))
		}
		used[name] = true
		if _, err := wb.NewSheet(name); err != nil {
			return &j.WriteError{Path: path, Err: err}
		}
		if err := writeTable(wb, name, t); err != nil {
			return &j.WriteError{Path: path, Err: err}
		}
	}

	out, err := iox.CreateAtomic(path)
	if err != nil {
		return err
	}
	if _, err := wb.WriteTo(out); err != nil {
		out.Abort()
		return &j.WriteError{Path: path, Err: err}
	}
	return out.Close()
}

func writeStats(wb *excelize.File, sheet string, stats []aggregate.Stats) error {
	header := []any{"column", "count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, s := range stats {
		row := []any{s.Column, s.Count, s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(wb *excelize.File, sheet string, t aggregate.SummaryTable) error {
	for i, name := range append(append([]string(nil), t.KeyNames...), t.ValueName) {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		for c, k := range row.Key {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := wb.SetCellValue(sheet, cell, k); err != nil {
				return err
			}
		}
		cell, _ := excelize.CoordinatesToCellName(len(row.Key)+1, r+2)
		if err := wb.SetCellValue(sheet, cell, row.Value); err != nil {
			return err
		}
	}
	return nil
}
