// Package memory provides a map-backed blobstore.Store. It serves tests and the demo variant of
// the web application, so listings are deterministic and failures can be injected per prefix.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"blobaudit.dev/pkg/blobstore"
)

type blob struct {
	data     []byte
	modified time.Time
}

type Store struct {
	mu       sync.RWMutex
	blobs    map[string]blob
	failures map[string]error
	now      func() time.Time
}

func New() *Store {
	return &Store{
		blobs:    make(map[string]blob),
		failures: make(map[string]error),
		now:      time.Now,
	}
}

// WithClock replaces the clock used to stamp uploads.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now

	return s
}

// Put stores data under path without going through Upload's failure checks.
func (s *Store) Put(path string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blobs[blobstore.Clean(path)] = blob{data: data, modified: s.now()}
}

// Mkdir creates a zero-byte folder marker.
func (s *Store) Mkdir(path string) {
	s.Put(blobstore.EnsureDir(path), nil)
}

// Fail makes every operation touching a path under prefix return err.
func (s *Store) Fail(prefix string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures[blobstore.Clean(prefix)] = err
}

func (s *Store) failure(path string) error {
	for prefix, err := range s.failures {
		if strings.HasPrefix(path, prefix) {
			return err
		}
	}

	return nil
}

func (s *Store) List(_ context.Context, prefix string) ([]blobstore.Entry, error) {
	prefix = blobstore.EnsureDir(prefix)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.failure(prefix); err != nil {
		return nil, err
	}

	var (
		entries = make([]blobstore.Entry, 0)
		folders = make(map[string]bool)
		exists  = prefix == ""
	)

	for _, key := range s.sortedKeys(prefix) {
		exists = true

		rest := strings.TrimPrefix(key, prefix)
		if rest == "" {
			continue
		}

		if i := strings.Index(rest, blobstore.Delimiter); i >= 0 {
			name := rest[:i]
			if !folders[name] {
				folders[name] = true

				entries = append(entries, blobstore.Entry{
					Name: name,
					Kind: blobstore.KindFolder,
					Path: prefix + name + blobstore.Delimiter,
				})
			}

			continue
		}

		b := s.blobs[key]

		entries = append(entries, blobstore.Entry{
			Name:         rest,
			Kind:         blobstore.KindFile,
			Size:         int64(len(b.data)),
			LastModified: b.modified,
			Path:         key,
		})
	}

	if !exists {
		return nil, blobstore.NewError(blobstore.KindNotFound, "list", prefix, nil)
	}

	return entries, nil
}

func (s *Store) Walk(_ context.Context, prefix string) ([]blobstore.Entry, error) {
	prefix = blobstore.Clean(prefix)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.failure(prefix); err != nil {
		return nil, err
	}

	keys := s.sortedKeys(prefix)
	entries := make([]blobstore.Entry, 0, len(keys))

	for _, key := range keys {
		b := s.blobs[key]

		entries = append(entries, blobstore.Entry{
			Name:         blobstore.Base(key),
			Kind:         blobstore.KindFile,
			Size:         int64(len(b.data)),
			LastModified: b.modified,
			Path:         key,
		})
	}

	return entries, nil
}

func (s *Store) Download(_ context.Context, path string) ([]byte, error) {
	path = blobstore.Clean(path)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.failure(path); err != nil {
		return nil, err
	}

	b, ok := s.blobs[path]
	if !ok {
		return nil, blobstore.NewError(blobstore.KindNotFound, "download", path, nil)
	}

	data := make([]byte, len(b.data))
	copy(data, b.data)

	return data, nil
}

func (s *Store) Upload(_ context.Context, path string, data []byte) error {
	path = blobstore.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(path); err != nil {
		return err
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	s.blobs[path] = blob{data: stored, modified: s.now()}

	return nil
}

func (s *Store) Move(_ context.Context, from, to string) error {
	from, to = blobstore.Clean(from), blobstore.Clean(to)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.failure(from); err != nil {
		return err
	}

	if err := s.failure(to); err != nil {
		return err
	}

	b, ok := s.blobs[from]
	if !ok {
		return blobstore.NewError(blobstore.KindNotFound, "move", from, nil)
	}

	s.blobs[to] = blob{data: b.data, modified: s.now()}
	delete(s.blobs, from)

	return nil
}

// sortedKeys must be called with the lock held.
func (s *Store) sortedKeys(prefix string) []string {
	keys := make([]string, 0)

	for key := range s.blobs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)

	return keys
}
