package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownColumn is returned when a column name is not in the table header.
var ErrUnknownColumn = errors.New("unknown column")

// Options controls how a delimited file is read.
type Options struct {
	// Delimiter for CSV. If 0, picked from the file extension (.tsv is tab, else comma).
	Delimiter rune
	// Parse controls numeric interpretation of cells.
	Parse ParseOptions
}

// Table is an in-memory dataset of named, row-aligned columns. A Table is not
// modified after it is built; Coerce returns a new Table sharing the raw cells.
type Table struct {
	name    string
	header  []string
	index   map[string]int
	rows    [][]string
	numeric map[int][]Float
	parse   ParseOptions
	raw     *Table
}

// Load reads a delimited file into a Table.
func Load(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if opt.Delimiter == 0 {
		opt.Delimiter = sniffDelimiter(path)
	}
	return Read(f, filepath.Base(path), opt)
}

// Read builds a Table from delimited text. The first record is the header.
// Short rows are padded with empty cells and long rows are cut to the header width.
func Read(r io.Reader, name string, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	t := &Table{name: name, index: map[string]int{}, numeric: map[int][]Float{}, parse: opt.Parse}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return t, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t.header = make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(h)
		t.header[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	ncol := len(t.header)
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(t.rows)+1, err)
		}
		row := make([]string, ncol)
		copy(row, rec)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// Name is the base name of the source file.
func (t *Table) Name() string { return t.name }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the header in file order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Has reports whether col is in the header.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

func (t *Table) col(name string) (int, error) {
	idx, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return idx, nil
}

// Strings returns the raw cells of col.
func (t *Table) Strings(col string) ([]string, error) {
	idx, err := t.col(col)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Numeric returns col as numbers, one Float per row. Cells that do not parse
// are Missing.
func (t *Table) Numeric(col string) ([]Float, error) {
	idx, err := t.col(col)
	if err != nil {
		return nil, err
	}
	if cached, ok := t.numeric[idx]; ok {
		out := make([]Float, len(cached))
		copy(out, cached)
		return out, nil
	}
	return t.parseColumn(idx), nil
}

func (t *Table) parseColumn(idx int) []Float {
	out := make([]Float, len(t.rows))
	for i, row := range t.rows {
		out[i] = ParseNumber(row[idx], t.parse)
	}
	return out
}

// Coerce returns a Table in which the named columns are numeric. The receiver
// is left as it was and the row count never changes.
func (t *Table) Coerce(cols ...string) (*Table, error) {
	next := &Table{
		name:    t.name,
		header:  t.header,
		index:   t.index,
		rows:    t.rows,
		numeric: make(map[int][]Float, len(t.numeric)+len(cols)),
		parse:   t.parse,
		raw:     t.Raw(),
	}
	for k, v := range t.numeric {
		next.numeric[k] = v
	}
	for _, c := range cols {
		idx, err := t.col(c)
		if err != nil {
			return nil, fmt.Errorf("coerce: %w", err)
		}
		if _, done := next.numeric[idx]; !done {
			next.numeric[idx] = t.parseColumn(idx)
		}
	}
	return next, nil
}

// Raw returns the Table as it was read, before any Coerce.
func (t *Table) Raw() *Table {
	if t.raw != nil {
		return t.raw
	}
	return t
}

// IsNumeric reports whether col has been coerced, or whether every non-empty
// cell of it parses as a number and at least one does.
func (t *Table) IsNumeric(col string) bool {
	idx, ok := t.index[col]
	if !ok {
		return false
	}
	return t.isNumeric(idx)
}

func (t *Table) isNumeric(idx int) bool {
	if _, ok := t.numeric[idx]; ok {
		return true
	}
	seen := false
	for _, row := range t.rows {
		v := strings.TrimSpace(row[idx])
		if v == "" {
			continue
		}
		if !ParseNumber(v, t.parse).Valid {
			return false
		}
		seen = true
	}
	return seen
}

// NumericColumns lists the numeric columns in header order.
func (t *Table) NumericColumns() []string {
	var out []string
	for i, h := range t.header {
		if t.index[h] != i {
			continue
		}
		if t.isNumeric(i) {
			out = append(out, h)
		}
	}
	return out
}

// Head returns copies of the first n rows.
func (t *Table) Head(n int) [][]string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(t.rows[i]))
		copy(row, t.rows[i])
		out[i] = row
	}
	return out
}
