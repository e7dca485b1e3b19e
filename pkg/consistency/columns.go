package consistency

import (
	"math"

	"blobaudit.dev/pkg/datafeed"
)

// PathColumns compares the columns one path declares for a table against the master columns.
type PathColumns struct {
	Path    string
	Columns []string
	Present []string
	Missing []string
	Extra   []string
}

func (p *PathColumns) Consistent() bool {
	return len(p.Missing) == 0 && len(p.Extra) == 0
}

// TableColumns is the column comparison of one table name across every path holding it.
type TableColumns struct {
	Name    string
	Sources []string
	// PerMaster holds the sorted columns each master path declares, in master order.
	PerMaster [][]string
	Master    []string
	Paths     []PathColumns
}

func (t *TableColumns) Consistent() bool {
	for i := range t.Paths {
		if !t.Paths[i].Consistent() {
			return false
		}
	}

	return true
}

type ColumnReport struct {
	MasterPaths []string
	Tables      []TableColumns
}

func (r *ColumnReport) ConsistentTables() int {
	n := 0

	for i := range r.Tables {
		if r.Tables[i].Consistent() {
			n++
		}
	}

	return n
}

// ConsistencyPct is the share of consistent tables, rounded to one decimal. Zero tables give 0.
func (r *ColumnReport) ConsistencyPct() float64 {
	if len(r.Tables) == 0 {
		return 0
	}

	pct := float64(r.ConsistentTables()) / float64(len(r.Tables)) * 100

	return math.Round(pct*10) / 10
}

// CompareColumns builds, per table name, the union of the master paths' columns and compares
// every path's columns against it. A table no master holds has an empty master set, so all its
// columns come out extra.
func CompareColumns(tables []datafeed.Table, masterPaths []string) *ColumnReport {
	rep := &ColumnReport{MasterPaths: masterPaths}
	sources := sourcesByTable(tables)

	byName := make(map[string]bool)
	for _, t := range tables {
		byName[t.Name] = true
	}

	for _, name := range sortedKeys(byName) {
		tc := TableColumns{Name: name, Sources: sources[name]}

		master := make(map[string]bool)

		for _, mp := range masterPaths {
			cols := columnsOf(tables, mp, name)
			tc.PerMaster = append(tc.PerMaster, sortedKeys(cols))

			for c := range cols {
				master[c] = true
			}
		}

		tc.Master = sortedKeys(master)

		for _, p := range paths(tables) {
			cols := columnsOf(tables, p, name)
			if len(cols) == 0 && !holds(tables, p, name) {
				continue
			}

			out := Compare(tc.Master, sortedKeys(cols))
			tc.Paths = append(tc.Paths, PathColumns{
				Path:    p,
				Columns: sortedKeys(cols),
				Present: out.Present,
				Missing: out.Missing,
				Extra:   out.Extra,
			})
		}

		rep.Tables = append(rep.Tables, tc)
	}

	return rep
}

func columnsOf(tables []datafeed.Table, path, name string) map[string]bool {
	cols := make(map[string]bool)

	for _, t := range tables {
		if t.Path != path || t.Name != name {
			continue
		}

		for _, c := range t.Columns {
			if c != "" {
				cols[c] = true
			}
		}
	}

	return cols
}

func holds(tables []datafeed.Table, path, name string) bool {
	for _, t := range tables {
		if t.Path == path && t.Name == name {
			return true
		}
	}

	return false
}
