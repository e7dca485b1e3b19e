// Package report serializes file tables, datafeed inventories and consistency results to CSV,
// standalone HTML pages and console tables.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"blobaudit.dev/pkg/consistency"
	"blobaudit.dev/pkg/datafeed"
	"blobaudit.dev/pkg/filetable"
)

var (
	RowsHeader    = []string{"Name", "File Type", "Size (MB)", "Last Modified", "Full Path"}
	TablesHeader  = []string{"Path", "Source_Type", "Sheet_Name", "Table_Name", "Column_Name"}
	ResultsHeader = []string{"Expectation", "Path", "Status", "Category", "Item", "Classification"}
	RenamesHeader = []string{"Old Name", "New Name", "Old Path", "New Path", "Status"}

	errHeader = errors.New("unexpected csv header")
)

// WriteRows writes the file table. Sizes keep two decimals and times are RFC 3339 with
// nanoseconds, so a listing reads back unchanged.
func WriteRows(w io.Writer, rows []filetable.Row) error {
	records := make([][]string, 0, len(rows))

	for _, r := range rows {
		modified := ""
		if !r.LastModified.IsZero() {
			modified = r.LastModified.UTC().Format(time.RFC3339Nano)
		}

		records = append(records, []string{
			r.Name, r.FileType, strconv.FormatFloat(r.SizeMB, 'f', 2, 64), modified, r.FullPath,
		})
	}

	return write(w, RowsHeader, records)
}

func ReadRows(r io.Reader) ([]filetable.Row, error) {
	records, err := read(r, RowsHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]filetable.Row, 0, len(records))

	for i, rec := range records {
		size, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: size: %w", i+2, err)
		}

		var modified time.Time
		if rec[3] != "" {
			if modified, err = time.Parse(time.RFC3339Nano, rec[3]); err != nil {
				return nil, fmt.Errorf("line %d: last modified: %w", i+2, err)
			}
		}

		rows = append(rows, filetable.Row{
			Name:         rec[0],
			FileType:     rec[1],
			SizeMB:       filetable.Round2(size),
			LastModified: modified,
			FullPath:     rec[4],
		})
	}

	return rows, nil
}

// WriteTables writes one record per column. A table without columns still gets one record
// with an empty column name so it survives a round trip.
func WriteTables(w io.Writer, tables []datafeed.Table) error {
	var records [][]string

	for _, t := range tables {
		if len(t.Columns) == 0 {
			records = append(records, []string{t.Path, string(t.Source), t.Sheet, t.Name, ""})
			continue
		}

		for _, c := range t.Columns {
			records = append(records, []string{t.Path, string(t.Source), t.Sheet, t.Name, c})
		}
	}

	return write(w, TablesHeader, records)
}

// ReadTables groups consecutive records of the same path, source, sheet and table back into
// tables.
func ReadTables(r io.Reader) ([]datafeed.Table, error) {
	records, err := read(r, TablesHeader)
	if err != nil {
		return nil, err
	}

	var tables []datafeed.Table

	for _, rec := range records {
		n := len(tables)
		if n == 0 || !sameTable(tables[n-1], rec) {
			tables = append(tables, datafeed.Table{
				Path:   rec[0],
				Source: datafeed.Source(rec[1]),
				Sheet:  rec[2],
				Name:   rec[3],
			})
			n++
		}

		if rec[4] != "" {
			tables[n-1].Columns = append(tables[n-1].Columns, rec[4])
		}
	}

	return tables, nil
}

func sameTable(t datafeed.Table, rec []string) bool {
	return t.Path == rec[0] && string(t.Source) == rec[1] && t.Sheet == rec[2] && t.Name == rec[3]
}

// WriteResults flattens a consistency report into one record per classified item. Results
// without outcomes get a single record carrying the status and error. Extras are left out
// under the ignore policy.
func WriteResults(w io.Writer, rep *consistency.Report) error {
	var records [][]string

	for _, res := range rep.Results {
		if len(res.Outcomes) == 0 {
			records = append(records, []string{res.Expectation, res.Path, string(res.Status), "", res.Error, string(res.Status)})
			continue
		}

		for _, o := range res.Outcomes {
			add := func(items []string, class string) {
				for _, item := range items {
					records = append(records, []string{res.Expectation, res.Path, string(res.Status), string(o.Category), item, class})
				}
			}

			add(o.Present, "present")
			add(o.Missing, "missing")
			add(o.Unverified, "unverified")

			if rep.Policy != consistency.ExtraIgnore {
				add(o.Extra, "extra")
			}
		}
	}

	return write(w, ResultsHeader, records)
}

func WriteRenames(w io.Writer, results []filetable.RenameResult) error {
	records := make([][]string, 0, len(results))

	for _, r := range results {
		records = append(records, []string{r.OldName, r.NewName, r.OldPath, r.NewPath, r.Status})
	}

	return write(w, RenamesHeader, records)
}

func write(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return err
	}

	if err := cw.WriteAll(records); err != nil {
		return err
	}

	return cw.Error()
}

func read(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	got, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	for i := range header {
		if got[i] != header[i] {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", errHeader, i+1, got[i], header[i])
		}
	}

	return cr.ReadAll()
}
