package web

import (
	"time"

	"blobaudit.dev/pkg/auth"
	"blobaudit.dev/pkg/datafeed"
)

// view is the data of every page; the layout reads Title, User and Demo.
type view struct {
	Title string
	User  *auth.User
	Demo  bool
	Error *Error

	Container  string
	Mode       datafeed.Mode
	HasResults bool

	ScannedAt time.Time
	Stats     ScanStats
	Rows      []Row
	Failures  []string
}

// Row is one record of the scan report, one per column.
type Row struct {
	Path   string
	Source datafeed.Source
	Sheet  string
	Table  string
	Column string
}

// Rows flattens tables the way the CSV report does: a table without columns keeps one row.
func Rows(tables []datafeed.Table) []Row {
	var rows []Row

	for _, t := range tables {
		if len(t.Columns) == 0 {
			rows = append(rows, Row{Path: t.Path, Source: t.Source, Sheet: t.Sheet, Table: t.Name})
			continue
		}

		for _, c := range t.Columns {
			rows = append(rows, Row{Path: t.Path, Source: t.Source, Sheet: t.Sheet, Table: t.Name, Column: c})
		}
	}

	return rows
}

// ScanStats summarizes a scan for the results page.
type ScanStats struct {
	Rows           int
	Paths          int
	ExcelTables    int
	ExcelColumns   int
	ParquetFiles   int
	ParquetColumns int
}

// Stats counts rows and distinct paths, and per source the distinct table names and the rows.
func Stats(tables []datafeed.Table) ScanStats {
	var (
		st      ScanStats
		paths   = make(map[string]bool)
		excel   = make(map[string]bool)
		parquet = make(map[string]bool)
	)

	for _, r := range Rows(tables) {
		st.Rows++
		paths[r.Path] = true

		switch r.Source {
		case datafeed.SourceExcel:
			excel[r.Table] = true
			st.ExcelColumns++
		case datafeed.SourceParquet:
			parquet[r.Table] = true
			st.ParquetColumns++
		}
	}

	st.Paths = len(paths)
	st.ExcelTables = len(excel)
	st.ParquetFiles = len(parquet)

	return st
}
