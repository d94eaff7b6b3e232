package csvio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	iox "github.com/wdm0006/janitor-reports/pkg/io/ioutils"
	j "github.com/wdm0006/janitor-reports/pkg/janitor"
)

// DefaultTimeLayouts are tried in order when parsing KindTime cells.
var DefaultTimeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
}

// missingTokens are cell values (after trimming) read as null.
var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "NaN": {}, "nan": {}, "null": {}, "NULL": {}, "None": {},
}

var numre = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // rows sampled for inference; 0 reads the whole input
	Strict     bool // if true, error on short/long records and unparseable numbers
	// Columns are declared columns: each must be present in the input and
	// its kind overrides the inferred one.
	Columns     []j.ColumnSchema
	TimeLayouts []string // default DefaultTimeLayouts
}

type Reader struct {
	r   *csv.Reader
	opt ReaderOptions
	buf [][]string
	row int
	// repair/warning counters
	shortRecords int
	longRecords  int
	badCells     int
}

// Open opens a (possibly gzip compressed) CSV file and returns a Reader and
// the closer for the underlying file.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	if opt.Delimiter == 0 {
		if d, lazy, err := sniffDelimiterAndQuotes(path); err == nil && d != 0 {
			opt.Delimiter = d
			r := NewReaderFrom(rc, opt)
			r.r.LazyQuotes = lazy
			return r, rc, nil
		}
	}
	return NewReaderFrom(rc, opt), rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader.
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	rr := csv.NewReader(r)
	if opt.Delimiter != 0 {
		rr.Comma = opt.Delimiter
	}
	rr.FieldsPerRecord = -1
	if len(opt.TimeLayouts) == 0 {
		opt.TimeLayouts = DefaultTimeLayouts
	}
	return &Reader{r: rr, opt: opt}
}

// Load reads the whole file at path into a Frame whose schema is the
// inferred schema overlaid with opt.Columns, and returns the reader's repair
// warnings alongside. Every failure is a *janitor.LoadError; a missing file
// wraps janitor.ErrNotFound.
func Load(path string, opt ReaderOptions) (*j.Frame, string, error) {
	r, closer, err := Open(path, opt)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = closer.Close() }()
	schema, _, err := r.InferSchema()
	if err != nil {
		return nil, "", asLoadError(path, err)
	}
	f, err := r.ReadAll(schema)
	if err != nil {
		return nil, "", asLoadError(path, err)
	}
	return f, r.Warnings(), nil
}

func asLoadError(path string, err error) error {
	var le *j.LoadError
	if errors.As(err, &le) {
		return err
	}
	return &j.LoadError{Path: path, Err: err}
}

// InferSchema reads the header (if present) and buffers rows to determine
// column kinds: SampleRows of them, or the whole input when SampleRows is 0.
func (r *Reader) InferSchema() (j.Schema, []string, error) {
	var names []string
	rec, err := r.r.Read()
	if err == io.EOF {
		return j.Schema{}, nil, fmt.Errorf("%w: empty input", j.ErrMalformed)
	}
	if err != nil {
		return j.Schema{}, nil, err
	}
	if r.opt.HasHeader {
		names = make([]string, len(rec))
		for i := range rec {
			names[i] = strings.TrimSpace(strings.ToValidUTF8(rec[i], "?"))
		}
		// strip BOM on first header cell if present
		if len(names) > 0 {
			names[0] = strings.TrimPrefix(names[0], "\ufeff")
		}
	} else {
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
		r.buf = append(r.buf, rec)
	}

	limit := r.opt.SampleRows
	for limit <= 0 || len(r.buf) < limit {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return j.Schema{}, nil, err
		}
		r.buf = append(r.buf, rr)
	}

	kinds := inferKinds(r.buf, len(names))
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = j.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	for _, want := range r.opt.Columns {
		i := indexOf(names, want.Name)
		if i < 0 {
			return j.Schema{}, nil, fmt.Errorf("%w: %s", j.ErrMissingColumn, want.Name)
		}
		schema.Columns[i].Type = want.Type
	}
	return schema, names, nil
}

// ReadAll loads the buffered sample plus the rest of the CSV into a Frame.
func (r *Reader) ReadAll(schema j.Schema) (*j.Frame, error) {
	f := j.NewFrame(schema)
	for len(r.buf) > 0 {
		rec := r.buf[0]
		r.buf = r.buf[1:]
		if err := r.appendRecord(f, rec); err != nil {
			return nil, err
		}
	}
	for {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.appendRecord(f, rec); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (r *Reader) appendRecord(f *j.Frame, rec []string) error {
	schema := f.Schema()
	r.row++
	if len(rec) > len(schema.Columns) {
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("%w: row %d has %d fields, need %d", j.ErrMalformed, r.row, len(rec), len(schema.Columns))
		}
	}
	f.AppendNullRow()
	row := f.Rows() - 1
	for i, cs := range schema.Columns {
		if i >= len(rec) {
			r.shortRecords++
			if r.opt.Strict {
				return fmt.Errorf("%w: row %d has %d fields, need %d", j.ErrMalformed, r.row, len(rec), len(schema.Columns))
			}
			break
		}
		val := strings.ToValidUTF8(strings.TrimSpace(rec[i]), "?")
		if _, missing := missingTokens[val]; missing {
			continue
		}
		v, err := r.parseCell(cs.Type, val)
		if err != nil {
			if cs.Type != j.KindTime && !r.opt.Strict {
				r.badCells++
				continue
			}
			return fmt.Errorf("%w: row %d column %s: %q", j.ErrMalformed, r.row, cs.Name, val)
		}
		if err := f.SetCell(row, cs.Name, v); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) parseCell(k j.Kind, val string) (any, error) {
	switch k {
	case j.KindFloat:
		return strconv.ParseFloat(val, 64)
	case j.KindInt:
		if x, err := strconv.ParseInt(val, 10, 64); err == nil {
			return x, nil
		}
		x, err := strconv.ParseFloat(val, 64)
		if err != nil || x != float64(int64(x)) {
			return nil, fmt.Errorf("not an integer: %q", val)
		}
		return int64(x), nil
	case j.KindBool:
		return strconv.ParseBool(strings.ToLower(val))
	case j.KindTime:
		return parseTime(val, r.opt.TimeLayouts)
	default:
		return val, nil
	}
}

func parseTime(val string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", val)
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func inferKinds(rows [][]string, ncol int) []j.Kind {
	kinds := make([]j.Kind, ncol)
	for c := 0; c < ncol; c++ {
		num, integer, str := 0, 0, 0
		for _, row := range rows {
			if c >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[c])
			if _, missing := missingTokens[v]; missing {
				continue
			}
			if numre.MatchString(v) {
				num++
				if !strings.ContainsAny(v, ".eE") {
					integer++
				}
			} else {
				lv := strings.ToLower(v)
				if lv == "true" || lv == "false" {
					continue
				}
				str++
			}
		}
		// any text keeps the column as text so undeclared columns round-trip
		switch {
		case str == 0 && num > 0 && integer == num:
			kinds[c] = j.KindInt
		case str == 0 && num > 0:
			kinds[c] = j.KindFloat
		default:
			kinds[c] = j.KindString
		}
	}
	return kinds
}

func sniffDelimiterAndQuotes(path string) (rune, bool, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = rc.Close() }()
	br := bufio.NewReader(rc)
	sample, _ := br.Peek(4096)
	if len(sample) == 0 {
		return ',', false, nil
	}
	// only the header line decides; data cells may contain any of the candidates
	if nl := strings.IndexByte(string(sample), '\n'); nl > 0 {
		sample = sample[:nl]
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		cnt := 0
		for _, b := range sample {
			if b == c {
				cnt++
			}
		}
		if cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	quoteCount := 0
	for _, b := range sample {
		if b == '"' {
			quoteCount++
		}
	}
	return rune(best), quoteCount%2 != 0, nil
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	if r.badCells > 0 {
		parts = append(parts, fmt.Sprintf("unparsed_cells=%d", r.badCells))
	}
	return strings.Join(parts, ", ")
}
