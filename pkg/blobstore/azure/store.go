// Package azure implements blobstore.Store on top of an azblob container client.
package azure

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"blobaudit.dev/pkg/blobstore"
)

var errSameSourceAndDest = errors.New("source and destination are the same")

// Metrics receives the outcome of every storage call.
type Metrics interface {
	ObserveStore(op string, err error, start time.Time)
}

type Store struct {
	client  *container.Client
	metrics Metrics
}

// New wraps client. metrics may be nil.
func New(client *container.Client, metrics Metrics) *Store {
	return &Store{client: client, metrics: metrics}
}

func (s *Store) observe(op string, err error, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveStore(op, err, start)
	}
}

// Ping verifies that the container exists and the credential may read it.
func (s *Store) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { s.observe("ping", err, start) }(time.Now())

	_, err = s.client.GetProperties(ctx, nil)

	return classify("ping", "", err)
}

func (s *Store) List(ctx context.Context, prefix string) (entries []blobstore.Entry, err error) {
	defer func(start time.Time) { s.observe("list", err, start) }(time.Now())

	prefix = blobstore.EnsureDir(prefix)

	pager := s.client.NewListBlobsHierarchyPager(blobstore.Delimiter, &container.ListBlobsHierarchyOptions{
		Prefix: &prefix,
	})

	entries = make([]blobstore.Entry, 0)
	seen := false

	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify("list", prefix, err)
		}

		for _, p := range resp.Segment.BlobPrefixes {
			seen = true
			path := deref(p.Name)

			entries = append(entries, blobstore.Entry{
				Name: blobstore.Base(path),
				Kind: blobstore.KindFolder,
				Path: path,
			})
		}

		for _, item := range resp.Segment.BlobItems {
			seen = true
			path := deref(item.Name)

			// the folder's own marker blob
			if path == prefix {
				continue
			}

			entries = append(entries, fileEntry(item))
		}
	}

	if !seen && prefix != "" {
		return nil, blobstore.NewError(blobstore.KindNotFound, "list", prefix, nil)
	}

	return entries, nil
}

func (s *Store) Walk(ctx context.Context, prefix string) (entries []blobstore.Entry, err error) {
	defer func(start time.Time) { s.observe("walk", err, start) }(time.Now())

	prefix = blobstore.Clean(prefix)

	pager := s.client.NewListBlobsFlatPager(&container.ListBlobsFlatOptions{Prefix: &prefix})

	entries = make([]blobstore.Entry, 0)

	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, classify("walk", prefix, err)
		}

		for _, item := range resp.Segment.BlobItems {
			entries = append(entries, fileEntry(item))
		}
	}

	return entries, nil
}

func (s *Store) Download(ctx context.Context, path string) (data []byte, err error) {
	defer func(start time.Time) { s.observe("download", err, start) }(time.Now())

	path = blobstore.Clean(path)

	resp, err := s.client.NewBlobClient(path).DownloadStream(ctx, nil)
	if err != nil {
		return nil, classify("download", path, err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify("download", path, err)
	}

	return data, nil
}

func (s *Store) Upload(ctx context.Context, path string, data []byte) (err error) {
	defer func(start time.Time) { s.observe("upload", err, start) }(time.Now())

	path = blobstore.Clean(path)

	_, err = s.client.NewBlockBlobClient(path).UploadBuffer(ctx, data, nil)

	return classify("upload", path, err)
}

// Move downloads from, uploads the content to to and deletes from. The delete only happens
// once the upload succeeded.
func (s *Store) Move(ctx context.Context, from, to string) (err error) {
	defer func(start time.Time) { s.observe("move", err, start) }(time.Now())

	from, to = blobstore.Clean(from), blobstore.Clean(to)
	if from == to {
		return blobstore.NewError(blobstore.KindTransient, "move", from, errSameSourceAndDest)
	}

	data, err := s.Download(ctx, from)
	if err != nil {
		return err
	}

	if err = s.Upload(ctx, to, data); err != nil {
		return err
	}

	_, err = s.client.NewBlobClient(from).Delete(ctx, nil)

	return classify("delete", from, err)
}

func fileEntry(item *container.BlobItem) blobstore.Entry {
	path := deref(item.Name)
	e := blobstore.Entry{
		Name: blobstore.Base(path),
		Kind: blobstore.KindFile,
		Path: path,
	}

	if item.Properties != nil {
		if item.Properties.ContentLength != nil {
			e.Size = *item.Properties.ContentLength
		}

		if item.Properties.LastModified != nil {
			e.LastModified = item.Properties.LastModified.UTC()
		}
	}

	if strings.HasSuffix(path, blobstore.Delimiter) {
		e.Size = 0
	}

	return e
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
