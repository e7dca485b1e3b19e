// Package datafeed finds Datafeed folders in the container and inventories the tables they
// declare: sheets or named tables of an Excel workbook, and the schemas of Parquet files.
package datafeed

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"blobaudit.dev/pkg/blobstore"
)

// FolderName is the path segment that marks a Datafeed folder, compared case-insensitively.
const FolderName = "Datafeed"

type Source string

const (
	SourceExcel   Source = "Excel"
	SourceParquet Source = "Parquet"
)

// Table is one table found in a Datafeed folder. Path carries no trailing delimiter.
type Table struct {
	Path    string
	Source  Source
	Sheet   string
	Name    string
	Columns []string
}

// Failure records a file or folder that could not be read. Scanning continues past it.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

// Inventory is what one Datafeed folder contains.
type Inventory struct {
	Path     string
	Workbook string
	Parquet  []string
	Tables   []Table
	Failures []Failure
}

// Names returns the table names of the given source, in inventory order.
func (inv *Inventory) Names(source Source) []string {
	names := make([]string, 0, len(inv.Tables))

	for _, t := range inv.Tables {
		if t.Source == source {
			names = append(names, t.Name)
		}
	}

	return names
}

// Unreadable maps each source to the first failure that may hide some of its tables. Parquet
// failures name the file; every other failure belongs to the workbook.
func (inv *Inventory) Unreadable() map[Source]Failure {
	out := make(map[Source]Failure)

	for _, f := range inv.Failures {
		src := SourceExcel
		if strings.HasSuffix(strings.ToLower(f.Path), ".parquet") {
			src = SourceParquet
		}

		if _, ok := out[src]; !ok {
			out[src] = f
		}
	}

	return out
}

// Discover walks root and returns every Datafeed folder path, each with a trailing delimiter,
// sorted and de-duplicated.
func Discover(ctx context.Context, store blobstore.Store, root string) ([]string, error) {
	entries, err := store.Walk(ctx, root)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool)

	for _, e := range entries {
		parts := strings.Split(e.Path, blobstore.Delimiter)

		// the last segment is the blob name itself unless the entry is a folder marker
		limit := len(parts) - 1
		if strings.HasSuffix(e.Path, blobstore.Delimiter) {
			limit = len(parts)
		}

		for i := 0; i < limit; i++ {
			if strings.EqualFold(parts[i], FolderName) {
				found[strings.Join(parts[:i+1], blobstore.Delimiter)+blobstore.Delimiter] = true
				break
			}
		}
	}

	folders := make([]string, 0, len(found))
	for f := range found {
		folders = append(folders, f)
	}

	sort.Strings(folders)

	return folders, nil
}

// IsDatafeedFolder reports whether the last segment of p is the Datafeed segment.
func IsDatafeedFolder(p string) bool {
	return strings.EqualFold(blobstore.Base(p), FolderName)
}
