package jsonlio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

func makeFrame() *j.Frame {
	s := j.Schema{Columns: []j.ColumnSchema{
		{Name: "Date", Type: j.KindTime},
		{Name: "Price", Type: j.KindFloat},
		{Name: "Category", Type: j.KindString},
	}}
	f := j.NewFrame(s)
	f.AppendNullRow()
	f.AppendNullRow()
	_ = f.SetCell(0, "Date", time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC))
	_ = f.SetCell(0, "Price", 100.5)
	_ = f.SetCell(0, "Category", "TV")
	_ = f.SetCell(1, "Price", 7.0)
	return f
}

func TestWriteKeepsColumnOrder(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, makeFrame()); err != nil {
		t.Fatal(err)
	}
	want := `{"Date":"2023-01-15","Price":100.5,"Category":"TV"}` + "\n" +
		`{"Date":null,"Price":7,"Category":null}` + "\n"
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteAll(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.jsonl")
	if err := WriteAll(p, makeFrame()); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Count(b, []byte("\n")) != 2 {
		t.Fatalf("expected 2 lines, got %q", b)
	}
}
