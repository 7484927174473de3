package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
)

// DescribeOptions controls the dataset report.
type DescribeOptions struct {
	// SampleRows determines how many leading rows to include in the report.
	SampleRows int
	// TopValues caps the categorical values listed per column.
	TopValues int
}

// DefaultDescribeOptions returns reasonable defaults for the report.
func DefaultDescribeOptions() DescribeOptions {
	return DescribeOptions{SampleRows: 5, TopValues: 8}
}

// Report is a markdown-friendly description of a Table: head, per-column
// info and summary statistics.
type Report struct {
	Name     string
	Rows     int
	Header   []string
	Cols     []ColumnSummary
	Samples  [][]string
	Warnings []string
}

// ColumnSummary captures inferred kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|categorical|text|empty
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	// Categorical top values, most frequent first
	TopValues []CategoryCount
}

// Describe builds a Report for t.
func Describe(t *dataset.Table, opt DescribeOptions) *Report {
	if opt.SampleRows < 0 {
		opt.SampleRows = 0
	}
	if opt.TopValues <= 0 {
		opt.TopValues = 8
	}
	rep := &Report{
		Name:    t.Name(),
		Rows:    t.Len(),
		Header:  t.Columns(),
		Samples: t.Head(opt.SampleRows),
	}
	for _, name := range rep.Header {
		// duplicate header names resolve to the first column
		cells, _ := t.Strings(name)
		s := ColumnSummary{Name: name}
		if t.IsNumeric(name) {
			nums, _ := t.Numeric(name)
			summarizeNumeric(&s, nums)
			if bad := unparsed(cells, nums); bad > 0 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %d value(s) could not be read as numbers and count as missing", name, bad))
			}
		} else {
			summarizeText(&s, cells, opt.TopValues)
		}
		rep.Cols = append(rep.Cols, s)
	}
	return rep
}

func summarizeNumeric(s *ColumnSummary, nums []dataset.Float) {
	vals := dataset.Values(nums)
	s.Kind = "numeric"
	s.NonNull = len(vals)
	s.Missing = len(nums) - len(vals)
	if len(vals) == 0 {
		return
	}
	uniq := map[float64]struct{}{}
	for _, v := range vals {
		uniq[v] = struct{}{}
	}
	s.Unique = len(uniq)
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Mean = stat.Mean(sorted, nil)
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
}

func summarizeText(s *ColumnSummary, cells []string, top int) {
	counts := countValues(cells)
	for _, c := range counts {
		s.NonNull += c.Count
	}
	s.Missing = len(cells) - s.NonNull
	s.Unique = len(counts)
	switch {
	case len(counts) == 0:
		s.Kind = "empty"
		return
	case isCategorical(counts):
		s.Kind = "categorical"
	default:
		s.Kind = "text"
	}
	if len(counts) > top {
		counts = counts[:top]
	}
	s.TopValues = counts
}

// isCategorical treats short tokens as categories
func isCategorical(counts []CategoryCount) bool {
	for _, c := range counts {
		if len(c.Value) > 64 {
			return false
		}
	}
	return true
}

func unparsed(cells []string, nums []dataset.Float) int {
	n := 0
	for i, c := range cells {
		if strings.TrimSpace(c) != "" && !nums[i].Valid {
			n++
		}
	}
	return n
}

// Column returns the summary for name.
func (r *Report) Column(name string) (ColumnSummary, bool) {
	for _, c := range r.Cols {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnSummary{}, false
}

// Markdown renders a compact report suitable for terminals or standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Header)))

	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD]\n")
		b.WriteString("| ")
		for i, h := range r.Header {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(safeName(h))
		}
		b.WriteString(" |\n| ")
		for i := range r.Header {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString("---")
		}
		b.WriteString(" |\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i := range r.Header {
				if i > 0 {
					b.WriteString(" | ")
				}
				val := ""
				if i < len(row) {
					val = row[i]
				}
				if len(val) > 80 {
					val = val[:77] + "..."
				}
				b.WriteString(safeVal(val))
			}
			b.WriteString(" |\n")
		}
	}

	b.WriteString("\n[INFO]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)\n", safeName(c.Name), c.Kind, c.NonNull, missPct))
	}

	b.WriteString("\n[DESCRIBE]\n")
	for _, c := range r.Cols {
		switch c.Kind {
		case "numeric":
			if c.NonNull == 0 {
				b.WriteString(fmt.Sprintf("- %s: count 0\n", safeName(c.Name)))
				continue
			}
			b.WriteString(fmt.Sprintf("- %s: count %d, mean %.4g, std %.4g, min %.4g, 25%% %.4g, 50%% %.4g, 75%% %.4g, max %.4g\n",
				safeName(c.Name), c.NonNull, c.Mean, c.Std, c.Min, c.Q1, c.Median, c.Q3, c.Max))
		case "categorical", "text":
			b.WriteString(fmt.Sprintf("- %s: count %d, unique %d", safeName(c.Name), c.NonNull, c.Unique))
			if len(c.TopValues) > 0 {
				b.WriteString(fmt.Sprintf(", top %s (freq %d)", safeVal(c.TopValues[0].Value), c.TopValues[0].Count))
			}
			if c.Kind == "categorical" && len(c.TopValues) > 1 {
				b.WriteString(" — ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
			}
			b.WriteString("\n")
		default:
			b.WriteString(fmt.Sprintf("- %s: no values\n", safeName(c.Name)))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// quantile interpolates linearly between closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
