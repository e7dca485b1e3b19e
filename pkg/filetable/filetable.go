// Package filetable turns blob listings into flat file tables and implements the search and
// bulk-rename operations run over them.
package filetable

import (
	"math"
	"sort"
	"time"

	"blobaudit.dev/pkg/blobstore"
)

const (
	bytesPerMB  = 1024 * 1024
	unknownType = "unknown"
)

type Row struct {
	Name         string
	FileType     string
	SizeMB       float64
	LastModified time.Time
	FullPath     string
}

// FromEntries returns one row per file entry, sorted by name then path. Folders and
// zero-byte placeholders are skipped.
func FromEntries(entries []blobstore.Entry) []Row {
	rows := make([]Row, 0, len(entries))

	for _, e := range entries {
		if e.IsMarker() {
			continue
		}

		rows = append(rows, Row{
			Name:         e.Name,
			FileType:     FileType(e.Name),
			SizeMB:       SizeMB(e.Size),
			LastModified: e.LastModified,
			FullPath:     e.Path,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}

		return rows[i].FullPath < rows[j].FullPath
	})

	return rows
}

// FileType is the lower-cased suffix after the last dot, or "unknown".
func FileType(name string) string {
	if ext := blobstore.Ext(name); ext != "" {
		return ext
	}

	return unknownType
}

// SizeMB converts bytes to megabytes rounded to two decimals.
func SizeMB(size int64) float64 {
	return Round2(float64(size) / bytesPerMB)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TypeCount is the number of files of one type.
type TypeCount struct {
	FileType string
	Count    int
	SizeMB   float64
}

type Summary struct {
	Files       int
	TotalSizeMB float64
	Types       []TypeCount
}

// Summarize totals rows per file type. Types are ordered by descending count, then name.
func Summarize(rows []Row) Summary {
	byType := make(map[string]*TypeCount)

	var s Summary

	for _, r := range rows {
		s.Files++
		s.TotalSizeMB += r.SizeMB

		tc, ok := byType[r.FileType]
		if !ok {
			tc = &TypeCount{FileType: r.FileType}
			byType[r.FileType] = tc
		}

		tc.Count++
		tc.SizeMB += r.SizeMB
	}

	s.TotalSizeMB = Round2(s.TotalSizeMB)

	for _, tc := range byType {
		tc.SizeMB = Round2(tc.SizeMB)
		s.Types = append(s.Types, *tc)
	}

	sort.Slice(s.Types, func(i, j int) bool {
		if s.Types[i].Count != s.Types[j].Count {
			return s.Types[i].Count > s.Types[j].Count
		}

		return s.Types[i].FileType < s.Types[j].FileType
	})

	return s
}
