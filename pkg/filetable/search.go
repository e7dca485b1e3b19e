package filetable

import (
	"fmt"
	"strings"

	"blobaudit.dev/pkg/blobstore"
)

type Mode string

const (
	ModeStartsWith Mode = "starts"
	ModeContains   Mode = "contains"
)

type Filter string

const (
	FilterAll     Filter = "all"
	FilterFiles   Filter = "files"
	FilterFolders Filter = "folders"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "starts", "starts_with", "startswith", "1":
		return ModeStartsWith, nil
	case "contains", "2", "":
		return ModeContains, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "1", "":
		return FilterAll, nil
	case "files", "2":
		return FilterFiles, nil
	case "folders", "3":
		return FilterFolders, nil
	default:
		return "", fmt.Errorf("unknown type filter %q", s)
	}
}

// Match is one search hit.
type Match struct {
	Name     string
	Path     string
	SizeMB   float64
	IsFolder bool
}

// Search matches term against the base name of every entry, case-insensitively. A folder is a
// zero-byte entry whose path ends in the delimiter.
func Search(entries []blobstore.Entry, term string, mode Mode, filter Filter) []Match {
	term = strings.ToLower(term)
	matches := make([]Match, 0)

	for _, e := range entries {
		name := blobstore.Base(e.Path)
		isFolder := e.Kind == blobstore.KindFolder ||
			(e.Size == 0 && strings.HasSuffix(e.Path, blobstore.Delimiter))

		lower := strings.ToLower(name)

		var ok bool
		if mode == ModeStartsWith {
			ok = strings.HasPrefix(lower, term)
		} else {
			ok = strings.Contains(lower, term)
		}

		if !ok || (filter == FilterFiles && isFolder) || (filter == FilterFolders && !isFolder) {
			continue
		}

		m := Match{Name: name, Path: e.Path, IsFolder: isFolder}
		if !isFolder {
			m.SizeMB = SizeMB(e.Size)
		}

		matches = append(matches, m)
	}

	return matches
}
