// Package consistency reconciles what Datafeed folders contain against declared master
// expectations and classifies every name as present, missing or extra.
package consistency

import "sort"

// Category groups expected names by where they come from.
type Category string

const (
	CategoryExcel   Category = "Excel"
	CategoryParquet Category = "Parquet"
)

// Categories lists every category in reporting order.
var Categories = []Category{CategoryExcel, CategoryParquet}

// Outcome partitions expected ∪ found for one category. All three lists are sorted and
// pairwise disjoint. When a source could not be read, the Checker moves Missing to Unverified.
type Outcome struct {
	Category   Category
	Present    []string
	Missing    []string
	Extra      []string
	Unverified []string
}

// Compare computes the intersection and both set differences of expected and found.
// Duplicates in either input are collapsed.
func Compare(expected, found []string) Outcome {
	want := toSet(expected)
	got := toSet(found)

	out := Outcome{
		Present: make([]string, 0),
		Missing: make([]string, 0),
		Extra:   make([]string, 0),
	}

	for name := range want {
		if got[name] {
			out.Present = append(out.Present, name)
		} else {
			out.Missing = append(out.Missing, name)
		}
	}

	for name := range got {
		if !want[name] {
			out.Extra = append(out.Extra, name)
		}
	}

	sort.Strings(out.Present)
	sort.Strings(out.Missing)
	sort.Strings(out.Extra)

	return out
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}

	return set
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
