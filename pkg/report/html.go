package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"blobaudit.dev/pkg/consistency"
	"blobaudit.dev/pkg/filetable"
)

// ContentTypeHTML is the media type of every rendered page.
const ContentTypeHTML = "text/html; charset=utf-8"

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": func(s []string) string { return strings.Join(s, ", ") },
}

// pages holds one template set per page, each made of the shared layout and the page body.
var pages = map[string]*template.Template{}

func init() {
	for _, name := range []string{"rows", "results", "tables", "columns", "schema"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
}

type rowsPage struct {
	Title     string
	Generated time.Time
	Path      string
	Rows      []filetable.Row
	Summary   filetable.Summary
}

type resultsPage struct {
	Title      string
	Generated  time.Time
	Report     *consistency.Report
	ShowExtras bool

	Consistent   int
	Inconsistent int
	RootMissing  int
	Errors       int
}

type tablesPage struct {
	Title      string
	Generated  time.Time
	Report     *consistency.TableReport
	Complete   []string
	Incomplete []consistency.PathTables
}

type columnsPage struct {
	Title        string
	Generated    time.Time
	Report       *consistency.ColumnReport
	Inconsistent int
}

type schemaPage struct {
	Title        string
	Generated    time.Time
	Report       *consistency.SchemaReport
	Inconsistent []consistency.TableSchema
}

// RowsHTML renders the file table of path as a standalone page with sort, filter and paging.
func RowsHTML(w io.Writer, path string, rows []filetable.Row, generated time.Time) error {
	return render(w, "rows", rowsPage{
		Title:     "Blob File Inventory",
		Generated: generated,
		Path:      path,
		Rows:      rows,
		Summary:   filetable.Summarize(rows),
	})
}

// ResultsHTML renders a consistency report. Extras are hidden under the ignore policy.
func ResultsHTML(w io.Writer, rep *consistency.Report) error {
	tally := rep.Tally()

	return render(w, "results", resultsPage{
		Title:        "Datafeed Consistency Report",
		Generated:    rep.Generated,
		Report:       rep,
		ShowExtras:   rep.Policy != consistency.ExtraIgnore,
		Consistent:   tally[consistency.StatusConsistent],
		Inconsistent: tally[consistency.StatusInconsistent],
		RootMissing:  tally[consistency.StatusRootMissing],
		Errors:       tally[consistency.StatusError],
	})
}

func TablesHTML(w io.Writer, rep *consistency.TableReport, generated time.Time) error {
	return render(w, "tables", tablesPage{
		Title:      "Datafeed Table Consistency",
		Generated:  generated,
		Report:     rep,
		Complete:   rep.CompletePaths(),
		Incomplete: rep.Incomplete(),
	})
}

func ColumnsHTML(w io.Writer, rep *consistency.ColumnReport, generated time.Time) error {
	return render(w, "columns", columnsPage{
		Title:        "Datafeed Column Consistency",
		Generated:    generated,
		Report:       rep,
		Inconsistent: len(rep.Tables) - rep.ConsistentTables(),
	})
}

// SchemaHTML renders the column validation of tables across every path holding them.
func SchemaHTML(w io.Writer, rep *consistency.SchemaReport, generated time.Time) error {
	return render(w, "schema", schemaPage{
		Title:        "Datafeed Table Column Validation",
		Generated:    generated,
		Report:       rep,
		Inconsistent: rep.Inconsistent(),
	})
}

// render executes into a buffer first so a failing template never leaves a partial page.
func render(w io.Writer, name string, data any) error {
	tmpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer

	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}

	_, err := buf.WriteTo(w)

	return err
}
