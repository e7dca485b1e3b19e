package consistency

import (
	"fmt"
	"strings"

	"blobaudit.dev/pkg/datafeed"
)

// MasterTable is a table of the master set with where it was seen.
type MasterTable struct {
	Name       string
	Sources    []string
	Provenance string
}

// MasterSet is the union of the tables held by the master Datafeed paths.
type MasterSet struct {
	Paths  []string
	Tables []MasterTable
	// PerMaster holds the sorted table names of each master path, in Paths order.
	PerMaster [][]string

	index map[string]int
}

// NewMasterSet collects the union of the master paths' tables. Sources list every source type
// the name appears with anywhere in tables.
func NewMasterSet(tables []datafeed.Table, masterPaths []string) *MasterSet {
	m := &MasterSet{Paths: masterPaths, index: make(map[string]int)}

	perMaster := make([]map[string]bool, len(masterPaths))
	for i, p := range masterPaths {
		perMaster[i] = tableNames(tables, p)
		m.PerMaster = append(m.PerMaster, sortedKeys(perMaster[i]))
	}

	union := make(map[string]bool)
	for _, set := range perMaster {
		for name := range set {
			union[name] = true
		}
	}

	sources := sourcesByTable(tables)

	for _, name := range sortedKeys(union) {
		var in []int

		for i, set := range perMaster {
			if set[name] {
				in = append(in, i+1)
			}
		}

		m.index[name] = len(m.Tables)
		m.Tables = append(m.Tables, MasterTable{
			Name:       name,
			Sources:    sources[name],
			Provenance: provenance(in, len(masterPaths)),
		})
	}

	return m
}

func (m *MasterSet) Names() []string {
	names := make([]string, len(m.Tables))
	for i, t := range m.Tables {
		names[i] = t.Name
	}

	return names
}

func (m *MasterSet) Lookup(name string) (MasterTable, bool) {
	i, ok := m.index[name]
	if !ok {
		return MasterTable{}, false
	}

	return m.Tables[i], true
}

func provenance(in []int, masters int) string {
	switch {
	case len(in) == masters && masters == 2:
		return "Both Masters"
	case len(in) == masters && masters > 2:
		return "All Masters"
	case len(in) == 1:
		return fmt.Sprintf("Master Path %d only", in[0])
	default:
		parts := make([]string, len(in))
		for i, n := range in {
			parts[i] = fmt.Sprint(n)
		}

		return "Master Paths " + strings.Join(parts, ", ")
	}
}

// ExtraTable is a table a path holds that no master holds.
type ExtraTable struct {
	Name    string
	Sources []string
}

type Duplicate struct {
	Name  string
	Count int
}

// PathTables compares one Datafeed path against the master set.
type PathTables struct {
	Path       string
	TableCount int
	Sources    []string
	Present    []string
	Missing    []MasterTable
	Extra      []ExtraTable
	Duplicates []Duplicate
}

func (p *PathTables) Complete() bool {
	return len(p.Missing) == 0 && len(p.Extra) == 0
}

type TableReport struct {
	Masters *MasterSet
	Paths   []PathTables
}

// CompletePaths lists the paths holding exactly the master set.
func (r *TableReport) CompletePaths() []string {
	var out []string

	for i := range r.Paths {
		if r.Paths[i].Complete() {
			out = append(out, r.Paths[i].Path)
		}
	}

	return out
}

// Incomplete returns the paths with missing or extra tables.
func (r *TableReport) Incomplete() []PathTables {
	var out []PathTables

	for i := range r.Paths {
		if !r.Paths[i].Complete() {
			out = append(out, r.Paths[i])
		}
	}

	return out
}

// WithDuplicates returns the paths where a table name occurs more than once.
func (r *TableReport) WithDuplicates() []PathTables {
	var out []PathTables

	for i := range r.Paths {
		if len(r.Paths[i].Duplicates) > 0 {
			out = append(out, r.Paths[i])
		}
	}

	return out
}

// CompareTables compares the table names of every path in tables against the master set.
func CompareTables(tables []datafeed.Table, masterPaths []string) *TableReport {
	masters := NewMasterSet(tables, masterPaths)
	sources := sourcesByTable(tables)
	rep := &TableReport{Masters: masters}

	for _, path := range paths(tables) {
		var (
			names      []string
			count      = make(map[string]int)
			pathSource = make(map[string]bool)
		)

		for _, t := range tables {
			if t.Path != path {
				continue
			}

			names = append(names, t.Name)
			count[t.Name]++
			pathSource[string(t.Source)] = true
		}

		out := Compare(masters.Names(), names)
		pt := PathTables{
			Path:       path,
			TableCount: len(count),
			Sources:    sortedKeys(pathSource),
			Present:    out.Present,
		}

		for _, name := range out.Missing {
			mt, _ := masters.Lookup(name)
			pt.Missing = append(pt.Missing, mt)
		}

		for _, name := range out.Extra {
			pt.Extra = append(pt.Extra, ExtraTable{Name: name, Sources: sources[name]})
		}

		for _, name := range sortedKeys(toSet(names)) {
			if count[name] > 1 {
				pt.Duplicates = append(pt.Duplicates, Duplicate{Name: name, Count: count[name]})
			}
		}

		rep.Paths = append(rep.Paths, pt)
	}

	return rep
}

func tableNames(tables []datafeed.Table, path string) map[string]bool {
	set := make(map[string]bool)

	for _, t := range tables {
		if t.Path == path {
			set[t.Name] = true
		}
	}

	return set
}

func sourcesByTable(tables []datafeed.Table) map[string][]string {
	seen := make(map[string]map[string]bool)

	for _, t := range tables {
		if seen[t.Name] == nil {
			seen[t.Name] = make(map[string]bool)
		}

		seen[t.Name][string(t.Source)] = true
	}

	out := make(map[string][]string, len(seen))
	for name, set := range seen {
		out[name] = sortedKeys(set)
	}

	return out
}

func paths(tables []datafeed.Table) []string {
	set := make(map[string]bool)
	for _, t := range tables {
		set[t.Path] = true
	}

	return sortedKeys(set)
}
