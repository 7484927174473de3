package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var shopRows = []string{
	"Rating,Number_of_Reviews,Brand,Quantity Sold,Gender,Discount",
	"4.5,120,Acme,10,Female,0.15",
	"3.9,45,Zento,n/a,Male,abc",
	"4.1,80,Acme,20,Unisex,",
	"4.8,300,Bolt,5,Female,0.3",
}

func writeCSV(t *testing.T, name string, rows []string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(strings.Join(rows, "\n")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestLoadReadsHeaderAndRows(t *testing.T) {
	p := writeCSV(t, "shop.csv", shopRows)
	tbl, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Name() != "shop.csv" {
		t.Fatalf("name = %q", tbl.Name())
	}
	if tbl.Len() != 4 {
		t.Fatalf("rows = %d, want 4", tbl.Len())
	}
	cols := tbl.Columns()
	if len(cols) != 6 || cols[3] != "Quantity Sold" {
		t.Fatalf("columns = %#v", cols)
	}
	brands, err := tbl.Strings("Brand")
	if err != nil {
		t.Fatalf("Strings: %v", err)
	}
	if strings.Join(brands, "|") != "Acme|Zento|Acme|Bolt" {
		t.Fatalf("brands = %#v", brands)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), Options{})
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLoadSniffsTSV(t *testing.T) {
	p := writeCSV(t, "shop.tsv", []string{"Brand\tDiscount", "Acme\t0.5", "Bolt\t0.25"})
	tbl, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d, err := tbl.Numeric("Discount")
	if err != nil {
		t.Fatalf("Numeric: %v", err)
	}
	if !d[0].Valid || d[0].Value != 0.5 || d[1].Value != 0.25 {
		t.Fatalf("discount = %#v", d)
	}
}

func TestReadPadsShortRowsAndStripsBOM(t *testing.T) {
	src := "\ufeffA,B,C\n1,2\n4,5,6,7\n"
	tbl, err := Read(strings.NewReader(src), "x.csv", Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !tbl.Has("A") {
		t.Fatalf("BOM not stripped: %#v", tbl.Columns())
	}
	c, _ := tbl.Strings("C")
	if c[0] != "" || c[1] != "6" {
		t.Fatalf("C = %#v", c)
	}
}

func TestReadEmptyInput(t *testing.T) {
	tbl, err := Read(strings.NewReader(""), "empty.csv", Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tbl.Len() != 0 || len(tbl.Columns()) != 0 {
		t.Fatalf("expected empty table")
	}
}

func TestCoerceMarksUnparseableMissing(t *testing.T) {
	p := writeCSV(t, "shop.csv", shopRows)
	base, err := Load(p, Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if base.IsNumeric("Quantity Sold") {
		t.Fatalf("Quantity Sold should not infer as numeric before coercion")
	}
	tbl, err := base.Coerce("Quantity Sold", "Discount")
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}
	if tbl.Len() != base.Len() {
		t.Fatalf("row count changed: %d -> %d", base.Len(), tbl.Len())
	}
	qty, _ := tbl.Numeric("Quantity Sold")
	want := []Float{Num(10), Missing, Num(20), Num(5)}
	for i := range want {
		if qty[i] != want[i] {
			t.Fatalf("qty[%d] = %#v, want %#v", i, qty[i], want[i])
		}
	}
	disc, _ := tbl.Numeric("Discount")
	if !disc[0].Valid || disc[0].Value != 0.15 || disc[1].Valid || disc[2].Valid || disc[3].Value != 0.3 {
		t.Fatalf("discount = %#v", disc)
	}
	if !tbl.IsNumeric("Quantity Sold") {
		t.Fatalf("coerced column should report numeric")
	}
	if base.IsNumeric("Quantity Sold") {
		t.Fatalf("coercion leaked into the source table")
	}
	raw, _ := tbl.Strings("Quantity Sold")
	if raw[1] != "n/a" {
		t.Fatalf("raw cells altered: %#v", raw)
	}
}

func TestCoerceUnknownColumn(t *testing.T) {
	tbl, _ := Read(strings.NewReader("A\n1\n"), "x.csv", Options{})
	if _, err := tbl.Coerce("B"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	if _, err := tbl.Numeric("B"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestNumericColumnsInference(t *testing.T) {
	p := writeCSV(t, "shop.csv", shopRows)
	tbl, _ := Load(p, Options{})
	got := strings.Join(tbl.NumericColumns(), ",")
	if got != "Rating,Number_of_Reviews" {
		t.Fatalf("numeric columns = %s", got)
	}
	coerced, _ := tbl.Coerce("Discount")
	got = strings.Join(coerced.NumericColumns(), ",")
	if got != "Rating,Number_of_Reviews,Discount" {
		t.Fatalf("numeric columns after coerce = %s", got)
	}
}

func TestRawIgnoresCoercion(t *testing.T) {
	tbl, _ := Read(strings.NewReader("Rating,Quantity Sold\n4.5,n/a\n3.9,lots\n"), "shop.csv", Options{})
	coerced, err := tbl.Coerce("Quantity Sold")
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}
	again, _ := coerced.Coerce("Rating")
	if got := strings.Join(again.NumericColumns(), ","); got != "Rating,Quantity Sold" {
		t.Fatalf("coerced numeric columns = %s", got)
	}
	if again.Raw() != tbl || tbl.Raw() != tbl {
		t.Fatalf("Raw should return the table as read")
	}
	if got := strings.Join(again.Raw().NumericColumns(), ","); got != "Rating" {
		t.Fatalf("raw numeric columns = %s", got)
	}
}

func TestHeadCopies(t *testing.T) {
	p := writeCSV(t, "shop.csv", shopRows)
	tbl, _ := Load(p, Options{})
	h := tbl.Head(2)
	if len(h) != 2 || h[0][2] != "Acme" {
		t.Fatalf("head = %#v", h)
	}
	h[0][2] = "changed"
	again := tbl.Head(10)
	if len(again) != 4 || again[0][2] != "Acme" {
		t.Fatalf("head must return copies: %#v", again)
	}
}
