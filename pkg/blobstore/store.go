//go:generate mockgen -source=store.go -destination=mock_store.go -package=blobstore

// Package blobstore defines the storage capability the auditing tools are built on: listing a
// container by prefix, reading and writing blobs. Implementations live in sub-packages.
package blobstore

import (
	"context"
	"strings"
	"time"
)

// Kind tells folders (common prefixes and marker blobs) apart from files.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}

	return "file"
}

// Entry is one child produced by listing a prefix.
type Entry struct {
	Name         string
	Kind         Kind
	Size         int64
	LastModified time.Time
	Path         string
}

func (e Entry) IsFolder() bool {
	return e.Kind == KindFolder
}

// IsMarker reports whether the entry is a folder or a zero-byte placeholder blob.
func (e Entry) IsMarker() bool {
	return e.Kind == KindFolder || e.Size == 0 || strings.HasSuffix(e.Path, Delimiter)
}

// Store is the blob storage capability. Paths never start with a delimiter.
type Store interface {
	// List returns the immediate children of prefix. A non-empty prefix without children fails
	// with KindNotFound.
	List(ctx context.Context, prefix string) ([]Entry, error)

	// Walk returns every blob under prefix, recursively, as files.
	Walk(ctx context.Context, prefix string) ([]Entry, error)

	Download(ctx context.Context, path string) ([]byte, error)

	Upload(ctx context.Context, path string, data []byte) error

	// Move copies from to to and deletes from.
	Move(ctx context.Context, from, to string) error
}
