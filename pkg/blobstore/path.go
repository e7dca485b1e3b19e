package blobstore

import (
	"path"
	"strings"
)

const Delimiter = "/"

// Clean trims surrounding whitespace and leading delimiters. A trailing delimiter is kept.
func Clean(p string) string {
	return strings.TrimLeft(strings.TrimSpace(p), Delimiter)
}

// EnsureDir returns p with exactly one trailing delimiter, or "" for the root.
func EnsureDir(p string) string {
	p = strings.TrimRight(Clean(p), Delimiter)
	if p == "" {
		return ""
	}

	return p + Delimiter
}

// Join joins segments with the delimiter, ignoring empty ones.
func Join(parts ...string) string {
	kept := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.Trim(p, Delimiter)
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, Delimiter)
}

// Parent returns the folder containing p as a directory prefix, "" at the root.
func Parent(p string) string {
	p = strings.TrimRight(Clean(p), Delimiter)

	i := strings.LastIndex(p, Delimiter)
	if i < 0 {
		return ""
	}

	return p[:i+1]
}

// Base returns the last segment of p.
func Base(p string) string {
	p = strings.TrimRight(p, Delimiter)
	if p == "" {
		return ""
	}

	return path.Base(p)
}

// Ext returns the lower-cased suffix after the last dot of the base name, without the dot.
func Ext(p string) string {
	ext := path.Ext(Base(p))

	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Segments splits p on the delimiter, dropping empty segments.
func Segments(p string) []string {
	var segs []string

	for _, s := range strings.Split(p, Delimiter) {
		if s != "" {
			segs = append(segs, s)
		}
	}

	return segs
}
