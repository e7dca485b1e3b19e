package consistency

import (
	"math"
	"strings"

	"blobaudit.dev/pkg/datafeed"
)

// TableSchema compares the column sets of every instance of one table name with each other.
// Common holds the columns all instances declare, All the columns any instance declares.
type TableSchema struct {
	Name      string
	Sources   []string
	Instances int
	Common    []string
	All       []string
	// Paths is filled only for inconsistent tables. Missing is relative to All, Extra to Common.
	Paths []PathColumns
}

// Consistent reports whether every instance declares the same columns. A table held by a
// single path is always consistent.
func (t *TableSchema) Consistent() bool {
	return len(t.Common) == len(t.All)
}

// Unique returns the columns that some but not all instances declare.
func (t *TableSchema) Unique() []string {
	return Compare(t.Common, t.All).Extra
}

type SchemaReport struct {
	Excluded []string
	// Skipped counts the tables dropped by the exclusion prefixes.
	Skipped int
	Tables  []TableSchema
}

func (r *SchemaReport) ConsistentTables() int {
	n := 0

	for i := range r.Tables {
		if r.Tables[i].Consistent() {
			n++
		}
	}

	return n
}

func (r *SchemaReport) Inconsistent() []TableSchema {
	var out []TableSchema

	for i := range r.Tables {
		if !r.Tables[i].Consistent() {
			out = append(out, r.Tables[i])
		}
	}

	return out
}

// ConsistencyPct is the share of consistent tables, rounded to one decimal. Zero tables give 0.
func (r *SchemaReport) ConsistencyPct() float64 {
	if len(r.Tables) == 0 {
		return 0
	}

	pct := float64(r.ConsistentTables()) / float64(len(r.Tables)) * 100

	return math.Round(pct*10) / 10
}

// ValidateColumns checks, per table name, that every path holding the table declares the same
// columns. No master path is involved. Tables whose path starts with one of exclude are skipped;
// empty prefixes are ignored.
func ValidateColumns(tables []datafeed.Table, exclude ...string) *SchemaReport {
	rep := &SchemaReport{}

	for _, prefix := range exclude {
		if prefix != "" {
			rep.Excluded = append(rep.Excluded, prefix)
		}
	}

	kept := make([]datafeed.Table, 0, len(tables))

	for _, t := range tables {
		if excluded(t.Path, rep.Excluded) {
			rep.Skipped++
			continue
		}

		kept = append(kept, t)
	}

	sources := sourcesByTable(kept)

	byName := make(map[string]bool)
	for _, t := range kept {
		byName[t.Name] = true
	}

	for _, name := range sortedKeys(byName) {
		var (
			instances []string
			sets      []map[string]bool
			all       = make(map[string]bool)
		)

		for _, p := range paths(kept) {
			if !holds(kept, p, name) {
				continue
			}

			cols := columnsOf(kept, p, name)
			instances = append(instances, p)
			sets = append(sets, cols)

			for c := range cols {
				all[c] = true
			}
		}

		common := make(map[string]bool)

		for c := range all {
			inAll := true

			for _, set := range sets {
				if !set[c] {
					inAll = false
					break
				}
			}

			if inAll {
				common[c] = true
			}
		}

		ts := TableSchema{
			Name:      name,
			Sources:   sources[name],
			Instances: len(instances),
			Common:    sortedKeys(common),
			All:       sortedKeys(all),
		}

		if !ts.Consistent() {
			for i, p := range instances {
				cols := sortedKeys(sets[i])

				ts.Paths = append(ts.Paths, PathColumns{
					Path:    p,
					Columns: cols,
					Present: cols,
					Missing: Compare(cols, ts.All).Extra,
					Extra:   Compare(ts.Common, cols).Extra,
				})
			}
		}

		rep.Tables = append(rep.Tables, ts)
	}

	return rep
}

func excluded(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
