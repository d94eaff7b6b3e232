package parquetio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	csvio "github.com/wdm0006/janitor-reports/pkg/io/csvio"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"
)

// SchemaJSON builds the parquet-go JSON schema for s. Every column is
// OPTIONAL; times are stored as UTF8 text in the CSV layout.
func SchemaJSON(s j.Schema) string {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case j.KindFloat:
			tag += "DOUBLE"
		case j.KindInt:
			tag += "INT64"
		case j.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "BYTE_ARRAY, convertedtype=UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// WriteAll writes a Frame to a Parquet file using the parquet-go JSONWriter.
// Rows go to a temporary file that replaces path once the footer is written.
func WriteAll(path string, f *j.Frame) error {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := write(tmp, f); err != nil {
		_ = os.Remove(tmp)
		return &j.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return &j.WriteError{Path: path, Err: err}
	}
	return nil
}

func write(path string, f *j.Frame) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()
	writer, err := pw.NewJSONWriter(SchemaJSON(f.Schema()), fw, 1)
	if err != nil {
		return fmt.Errorf("parquet writer init: %w", err)
	}
	names := f.Schema().Names()
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, len(names))
		for c, name := range names {
			col := f.Column(c)
			if col.IsNull(r) {
				continue
			}
			switch cc := col.(type) {
			case *j.FloatColumn:
				rec[name], _ = cc.Get(r)
			case *j.IntColumn:
				rec[name], _ = cc.Get(r)
			case *j.BoolColumn:
				rec[name], _ = cc.Get(r)
			default:
				rec[name] = csvio.FormatCell(col, r, "")
			}
		}
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := writer.Write(string(b)); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	if err := writer.WriteStop(); err != nil {
		return fmt.Errorf("parquet finalize: %w", err)
	}
	return nil
}
