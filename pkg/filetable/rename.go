package filetable

import (
	"context"
	"strings"

	"blobaudit.dev/pkg/blobstore"
)

const (
	StatusSuccess = "Success"
	StatusSkipped = "Skipped"
)

// Rename is a planned move of one blob. Only the base name changes.
type Rename struct {
	OldName string
	NewName string
	OldPath string
	NewPath string
}

type RenameResult struct {
	Rename
	Status string
	Err    error
}

// PlanRenames selects the files whose name contains term, case-insensitively, and replaces
// every occurrence of term in the name with replacement. Folders are never renamed.
func PlanRenames(entries []blobstore.Entry, term, replacement string) []Rename {
	matches := Search(entries, term, ModeContains, FilterFiles)
	plans := make([]Rename, 0, len(matches))

	for _, m := range matches {
		newName := replaceFold(m.Name, term, replacement)

		plans = append(plans, Rename{
			OldName: m.Name,
			NewName: newName,
			OldPath: m.Path,
			NewPath: blobstore.Parent(m.Path) + newName,
		})
	}

	return plans
}

// ApplyRenames moves each planned blob. A failure is recorded and the next one is attempted.
func ApplyRenames(ctx context.Context, store blobstore.Store, plans []Rename) []RenameResult {
	results := make([]RenameResult, 0, len(plans))

	for _, p := range plans {
		r := RenameResult{Rename: p, Status: StatusSuccess}

		if p.OldPath == p.NewPath {
			r.Status = StatusSkipped
		} else if err := store.Move(ctx, p.OldPath, p.NewPath); err != nil {
			r.Status = "Failed: " + truncate(err.Error(), 50)
			r.Err = err
		}

		results = append(results, r)
	}

	return results
}

// replaceFold replaces every case-insensitive occurrence of old in s.
func replaceFold(s, old, replacement string) string {
	if old == "" {
		return s
	}

	lower, needle := strings.ToLower(s), strings.ToLower(old)

	// lower-casing changed byte offsets, fall back to an exact replace
	if len(lower) != len(s) || len(needle) != len(old) {
		return strings.ReplaceAll(s, old, replacement)
	}

	var (
		sb    strings.Builder
		start int
	)

	for {
		i := strings.Index(lower[start:], needle)
		if i < 0 {
			sb.WriteString(s[start:])
			break
		}

		sb.WriteString(s[start : start+i])
		sb.WriteString(replacement)
		start += i + len(needle)
	}

	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n]
}
