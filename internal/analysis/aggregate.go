package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
)

// OthersLabel names the residual bucket produced by BucketTopNPlusOther.
const OthersLabel = "Others"

// GroupSum is the total of a value column within one group.
type GroupSum struct {
	Key string  `json:"key"`
	Sum float64 `json:"sum"`
	// Count is the number of non-missing values summed.
	Count int `json:"count"`
}

// CategoryCount is the number of rows holding one distinct value.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SumByGroup sums valueCol within each distinct groupCol key. Missing values
// are skipped, and rows with an empty key are dropped. Groups come back sorted
// by descending sum; equal sums keep the order in which their keys first appear.
func SumByGroup(t *dataset.Table, groupCol, valueCol string) ([]GroupSum, error) {
	keys, err := t.Strings(groupCol)
	if err != nil {
		return nil, fmt.Errorf("sum by group: %w", err)
	}
	vals, err := t.Numeric(valueCol)
	if err != nil {
		return nil, fmt.Errorf("sum by group: %w", err)
	}
	pos := map[string]int{}
	var out []GroupSum
	for i, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		idx, ok := pos[k]
		if !ok {
			idx = len(out)
			pos[k] = idx
			out = append(out, GroupSum{Key: k})
		}
		if vals[i].Valid {
			out[idx].Sum += vals[i].Value
			out[idx].Count++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Sum > out[j].Sum })
	return out, nil
}

// TopGroups returns at most the first n groups.
func TopGroups(groups []GroupSum, n int) []GroupSum {
	if n < 0 {
		n = 0
	}
	if len(groups) > n {
		return groups[:n]
	}
	return groups
}

// Frequency counts each distinct non-empty value of col, most frequent first.
// Values with equal counts keep first-seen order.
func Frequency(t *dataset.Table, col string) ([]CategoryCount, error) {
	cells, err := t.Strings(col)
	if err != nil {
		return nil, fmt.Errorf("frequency: %w", err)
	}
	return countValues(cells), nil
}

func countValues(cells []string) []CategoryCount {
	pos := map[string]int{}
	var out []CategoryCount
	for _, v := range cells {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		idx, ok := pos[v]
		if !ok {
			idx = len(out)
			pos[v] = idx
			out = append(out, CategoryCount{Value: v})
		}
		out[idx].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// BucketTopNPlusOther keeps the first n entries of a descending frequency
// result and appends an OthersLabel entry holding the sum of the rest. The
// Others entry is always present, with a zero count when nothing was folded.
func BucketTopNPlusOther(freq []CategoryCount, n int) []CategoryCount {
	if n < 0 {
		n = 0
	}
	if n > len(freq) {
		n = len(freq)
	}
	out := make([]CategoryCount, 0, n+1)
	out = append(out, freq[:n]...)
	rest := 0
	for _, c := range freq[n:] {
		rest += c.Count
	}
	return append(out, CategoryCount{Value: OthersLabel, Count: rest})
}
