package analysis

import (
	"errors"
	"strings"
	"testing"

	"github.com/KaramelBytes/shopstats-cli/internal/dataset"
)

func readTable(t *testing.T, rows ...string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Read(strings.NewReader(strings.Join(rows, "\n")), "test.csv", dataset.Options{})
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return tbl
}

func TestSumByGroup(t *testing.T) {
	tbl := readTable(t,
		"Brand,Quantity Sold",
		"A,10",
		"B,5",
		"A,20",
	)
	got, err := SumByGroup(tbl, "Brand", "Quantity Sold")
	if err != nil {
		t.Fatalf("SumByGroup: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("groups = %#v", got)
	}
	if got[0].Key != "A" || got[0].Sum != 30 || got[1].Key != "B" || got[1].Sum != 5 {
		t.Fatalf("groups = %#v, want A:30 then B:5", got)
	}
}

func TestSumByGroupSkipsMissingAndEmptyKeys(t *testing.T) {
	tbl := readTable(t,
		"Brand,Quantity Sold",
		"A,10",
		"A,oops",
		",100",
		"C,",
		"B,7",
	)
	got, err := SumByGroup(tbl, "Brand", "Quantity Sold")
	if err != nil {
		t.Fatalf("SumByGroup: %v", err)
	}
	want := []GroupSum{{Key: "A", Sum: 10, Count: 1}, {Key: "B", Sum: 7, Count: 1}, {Key: "C", Sum: 0, Count: 0}}
	if len(got) != len(want) {
		t.Fatalf("groups = %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("group[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestSumByGroupTiesKeepFirstSeen(t *testing.T) {
	tbl := readTable(t, "Brand,Q", "Z,1", "Y,1", "X,2")
	got, _ := SumByGroup(tbl, "Brand", "Q")
	if got[0].Key != "X" || got[1].Key != "Z" || got[2].Key != "Y" {
		t.Fatalf("order = %#v", got)
	}
}

func TestSumByGroupUnknownColumn(t *testing.T) {
	tbl := readTable(t, "Brand,Q", "A,1")
	if _, err := SumByGroup(tbl, "Brand", "Nope"); !errors.Is(err, dataset.ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestTopGroups(t *testing.T) {
	groups := []GroupSum{{Key: "a"}, {Key: "b"}, {Key: "c"}}
	if got := TopGroups(groups, 2); len(got) != 2 || got[1].Key != "b" {
		t.Fatalf("top 2 = %#v", got)
	}
	if got := TopGroups(groups, 10); len(got) != 3 {
		t.Fatalf("top 10 = %#v", got)
	}
	if got := TopGroups(groups, -1); len(got) != 0 {
		t.Fatalf("top -1 = %#v", got)
	}
}

func TestFrequencyOrdersByCountThenFirstSeen(t *testing.T) {
	tbl := readTable(t, "Gender",
		"Unisex", "Male", "Female", "Male", "", "Female", "Kids", "Male",
	)
	got, err := Frequency(tbl, "Gender")
	if err != nil {
		t.Fatalf("Frequency: %v", err)
	}
	want := []CategoryCount{{"Male", 3}, {"Female", 2}, {"Unisex", 1}, {"Kids", 1}}
	if len(got) != len(want) {
		t.Fatalf("freq = %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("freq[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
}

func TestBucketTopNPlusOther(t *testing.T) {
	freq := []CategoryCount{{"X", 5}, {"Y", 3}, {"Z", 2}, {"W", 1}}
	got := BucketTopNPlusOther(freq, 3)
	want := []CategoryCount{{"X", 5}, {"Y", 3}, {"Z", 2}, {OthersLabel, 1}}
	if len(got) != len(want) {
		t.Fatalf("buckets = %#v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("bucket[%d] = %#v, want %#v", i, got[i], want[i])
		}
	}
	if len(freq) != 4 || freq[3].Value != "W" {
		t.Fatalf("input modified: %#v", freq)
	}
}

func TestBucketTopNPlusOtherFewerThanN(t *testing.T) {
	got := BucketTopNPlusOther([]CategoryCount{{"X", 5}}, 3)
	if len(got) != 2 || got[1] != (CategoryCount{OthersLabel, 0}) {
		t.Fatalf("buckets = %#v", got)
	}
	got = BucketTopNPlusOther([]CategoryCount{{"X", 5}, {"Y", 2}}, 0)
	if len(got) != 1 || got[0].Count != 7 {
		t.Fatalf("n=0 buckets = %#v", got)
	}
}
