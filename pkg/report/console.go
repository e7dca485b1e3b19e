package report

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/consistency"
	"blobaudit.dev/pkg/filetable"
)

const maxListed = 5

// EntriesTable numbers the entries of a listing from 1, the way the explorer menu selects them.
func EntriesTable(entries []blobstore.Entry) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Type", "Size (MB)"})

	for i, e := range entries {
		kind, size := "file", fmt.Sprintf("%.2f", filetable.SizeMB(e.Size))
		if e.IsFolder() {
			kind, size = "folder", ""
		}

		t.AppendRow(table.Row{i + 1, e.Name, kind, size})
	}

	return t.Render()
}

func RowsTable(rows []filetable.Row) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Name", "File Type", "Size (MB)", "Last Modified"})

	for _, r := range rows {
		modified := ""
		if !r.LastModified.IsZero() {
			modified = r.LastModified.Format("2006-01-02 15:04:05")
		}

		t.AppendRow(table.Row{r.Name, r.FileType, fmt.Sprintf("%.2f", r.SizeMB), modified})
	}

	return t.Render()
}

func SummaryTable(s filetable.Summary) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"File Type", "Files", "Size (MB)"})

	for _, tc := range s.Types {
		t.AppendRow(table.Row{tc.FileType, tc.Count, fmt.Sprintf("%.2f", tc.SizeMB)})
	}

	t.AppendSeparator()
	t.AppendRow(table.Row{"total", s.Files, fmt.Sprintf("%.2f", s.TotalSizeMB)})

	return t.Render()
}

func MatchesTable(matches []filetable.Match) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Name", "Type", "Size (MB)", "Path"})

	for i, m := range matches {
		kind, size := "file", fmt.Sprintf("%.2f", m.SizeMB)
		if m.IsFolder {
			kind, size = "folder", ""
		}

		t.AppendRow(table.Row{i + 1, m.Name, kind, size, m.Path})
	}

	return t.Render()
}

// RenamesTable previews planned renames.
func RenamesTable(plans []filetable.Rename) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Old Name", "New Name", "Path"})

	for _, p := range plans {
		t.AppendRow(table.Row{p.OldName, p.NewName, blobstore.Parent(p.OldPath)})
	}

	return t.Render()
}

func RenameResultsTable(results []filetable.RenameResult) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Old Name", "New Name", "Status"})

	for _, r := range results {
		t.AppendRow(table.Row{r.OldName, r.NewName, r.Status})
	}

	return t.Render()
}

// ResultsTable prints one row per expectation followed by the tally. Extra counts are hidden
// under the ignore policy.
func ResultsTable(rep *consistency.Report) string {
	showExtras := rep.Policy != consistency.ExtraIgnore

	header := table.Row{"Expectation", "Status", "Present", "Missing"}
	if showExtras {
		header = append(header, "Extra")
	}

	header = append(header, "Notes")

	t := table.NewWriter()
	t.AppendHeader(header)

	for i := range rep.Results {
		r := &rep.Results[i]
		present, missing, extra := r.Counts()

		row := table.Row{r.Expectation, r.Status, present, missing}
		if showExtras {
			row = append(row, extra)
		}

		t.AppendRow(append(row, notes(r)))
	}

	tally := rep.Tally()

	t.AppendSeparator()
	t.AppendFooter(table.Row{fmt.Sprintf("%d consistent, %d inconsistent, %d root missing, %d error",
		tally[consistency.StatusConsistent], tally[consistency.StatusInconsistent],
		tally[consistency.StatusRootMissing], tally[consistency.StatusError])})

	return t.Render()
}

func notes(r *consistency.Result) string {
	var parts []string

	if r.Error != "" {
		parts = append(parts, r.Error)
	}

	for _, o := range r.Outcomes {
		if len(o.Missing) > 0 {
			parts = append(parts, fmt.Sprintf("%s missing: %s", o.Category, clip(o.Missing)))
		}

		if len(o.Unverified) > 0 {
			parts = append(parts, fmt.Sprintf("%s unverified: %s", o.Category, clip(o.Unverified)))
		}
	}

	parts = append(parts, r.Warnings...)

	return strings.Join(parts, "\n")
}

// TablesSummary prints the master set and one row per Datafeed path.
func TablesSummary(rep *consistency.TableReport) string {
	masters := table.NewWriter()
	masters.AppendHeader(table.Row{"Master Table", "Source", "Location"})

	for _, mt := range rep.Masters.Tables {
		masters.AppendRow(table.Row{mt.Name, strings.Join(mt.Sources, ", "), mt.Provenance})
	}

	paths := table.NewWriter()
	paths.AppendHeader(table.Row{"Path", "Tables", "Missing", "Extra", "Duplicates", "Complete"})

	for i := range rep.Paths {
		p := &rep.Paths[i]

		missing := make([]string, len(p.Missing))
		for j, m := range p.Missing {
			missing[j] = m.Name
		}

		extra := make([]string, len(p.Extra))
		for j, e := range p.Extra {
			extra[j] = e.Name
		}

		paths.AppendRow(table.Row{p.Path, p.TableCount, clip(missing), clip(extra), len(p.Duplicates), yesNo(p.Complete())})
	}

	return masters.Render() + "\n" + paths.Render()
}

func ColumnsSummary(rep *consistency.ColumnReport) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Table", "Source", "Master Columns", "Paths", "Consistent"})

	for i := range rep.Tables {
		tc := &rep.Tables[i]
		t.AppendRow(table.Row{tc.Name, strings.Join(tc.Sources, ", "), len(tc.Master), len(tc.Paths), yesNo(tc.Consistent())})
	}

	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d tables consistent (%.1f%%)",
		rep.ConsistentTables(), len(rep.Tables), rep.ConsistencyPct())})

	return t.Render()
}

// SchemaSummary prints one row per table name; inconsistent tables list the columns not every
// instance declares.
func SchemaSummary(rep *consistency.SchemaReport) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Table", "Source", "Paths", "Common", "Unique Columns", "Consistent"})

	for i := range rep.Tables {
		ts := &rep.Tables[i]

		t.AppendRow(table.Row{ts.Name, strings.Join(ts.Sources, ", "), ts.Instances, len(ts.Common),
			clip(ts.Unique()), yesNo(ts.Consistent())})
	}

	t.AppendFooter(table.Row{fmt.Sprintf("%d of %d tables consistent (%.1f%%)",
		rep.ConsistentTables(), len(rep.Tables), rep.ConsistencyPct())})

	out := t.Render()

	for _, ts := range rep.Inconsistent() {
		for _, p := range ts.Paths {
			if len(p.Missing) == 0 && len(p.Extra) == 0 {
				continue
			}

			out += fmt.Sprintf("\n%s @ %s", ts.Name, p.Path)

			if len(p.Missing) > 0 {
				out += "\n  Missing: " + clip(p.Missing)
			}

			if len(p.Extra) > 0 {
				out += "\n  Extra: " + clip(p.Extra)
			}
		}
	}

	return out
}

// clip lists at most maxListed names and counts the rest.
func clip(names []string) string {
	if len(names) <= maxListed {
		return strings.Join(names, ", ")
	}

	return fmt.Sprintf("%s and %d more", strings.Join(names[:maxListed], ", "), len(names)-maxListed)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
