// Package explorer is the interactive folder browser of the CLI. It also carries the single
// download and upload operations the browse menu and the sub-commands share.
package explorer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/filetable"
	"blobaudit.dev/pkg/logging"
	"blobaudit.dev/pkg/report"
	"blobaudit.dev/pkg/terminal"
)

const dirMode = 0o755

var (
	errNotAFile     = errors.New("path is not a file")
	errPathRequired = errors.New("file path is required")
)

type Explorer struct {
	store       blobstore.Store
	out         *terminal.Out
	logger      logging.Logger
	downloadDir string

	path    string
	entries []blobstore.Entry
}

func New(store blobstore.Store, out *terminal.Out, logger logging.Logger, downloadDir string) *Explorer {
	return &Explorer{store: store, out: out, logger: logger, downloadDir: downloadDir}
}

// Path is the folder currently shown.
func (e *Explorer) Path() string {
	return e.path
}

// Browse runs the menu loop from start until the user quits or input ends. Failing operations
// are reported and the loop carries on.
func (e *Explorer) Browse(ctx context.Context, start string) error {
	e.path = blobstore.EnsureDir(start)

	for {
		e.show(ctx)

		choice, err := e.out.Prompt("\nEnter your choice: ")
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if quit := e.handle(ctx, strings.ToLower(choice)); quit {
			return nil
		}
	}
}

func (e *Explorer) show(ctx context.Context) {
	display := e.path
	if display == "" {
		display = "/ (root)"
	}

	e.out.Println(strings.Repeat("=", 60))
	e.out.Printf("Current location: %s\n", display)
	e.out.Println(strings.Repeat("=", 60))

	entries, err := e.store.List(ctx, e.path)
	if err != nil {
		e.entries = nil
		e.report("list", err)

		return
	}

	e.entries = order(entries)

	if len(e.entries) == 0 {
		e.out.Println("(empty)")
	} else {
		e.out.Println(report.EntriesTable(e.entries))
	}

	e.out.Println("Commands: [number] open/select, b back, j jump, d download, u upload, s search, q quit")
}

// order lists folders before files, each by name.
func order(entries []blobstore.Entry) []blobstore.Entry {
	out := append([]blobstore.Entry(nil), entries...)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsFolder() != out[j].IsFolder() {
			return out[i].IsFolder()
		}

		return out[i].Name < out[j].Name
	})

	return out
}

func (e *Explorer) handle(ctx context.Context, choice string) (quit bool) {
	switch choice {
	case "q":
		return true
	case "b":
		e.back()
	case "j":
		target, err := e.out.Prompt("Enter path to jump to (or press Enter for root): ")
		if err == nil {
			e.path = blobstore.EnsureDir(target)
		}
	case "d":
		e.downloadPrompt(ctx)
	case "u":
		e.uploadPrompt(ctx)
	case "s":
		e.searchPrompt(ctx)
	default:
		n, err := strconv.Atoi(choice)
		if err != nil {
			e.out.Warn("Invalid command.")
			return false
		}

		e.selectItem(ctx, n)
	}

	return false
}

func (e *Explorer) back() {
	if e.path == "" {
		e.out.Warn("Already at root level.")
		return
	}

	e.path = blobstore.Parent(e.path)
}

func (e *Explorer) item(n int) (blobstore.Entry, bool) {
	if n < 1 || n > len(e.entries) {
		return blobstore.Entry{}, false
	}

	return e.entries[n-1], true
}

func (e *Explorer) selectItem(ctx context.Context, n int) {
	en, ok := e.item(n)
	if !ok {
		e.out.Warn("Invalid number.")
		return
	}

	if en.IsFolder() {
		e.path = en.Path
		return
	}

	e.out.Printf("\nFile: %s\n   Full path: %s\n   Size: %.2f MB\n   Modified: %s\n",
		en.Name, en.Path, filetable.SizeMB(en.Size), en.LastModified.Format("2006-01-02 15:04:05"))

	if ok, err := e.out.Confirm("\nDownload this file?"); err == nil && ok {
		e.download(ctx, en.Path)
	}
}

func (e *Explorer) downloadPrompt(ctx context.Context) {
	if !e.hasFiles() {
		e.out.Warn("No files in current location.")
		return
	}

	answer, err := e.out.Prompt("Enter file number to download: ")
	if err != nil {
		return
	}

	n, err := strconv.Atoi(answer)
	if err != nil {
		e.out.Warn("Invalid input. Please enter a number.")
		return
	}

	en, ok := e.item(n)
	if !ok || en.IsFolder() {
		e.out.Warn("Invalid file number.")
		return
	}

	e.download(ctx, en.Path)
}

func (e *Explorer) hasFiles() bool {
	for _, en := range e.entries {
		if !en.IsFolder() {
			return true
		}
	}

	return false
}

func (e *Explorer) uploadPrompt(ctx context.Context) {
	local, err := e.out.Prompt("Enter local file path: ")
	if err != nil {
		return
	}

	if local == "" {
		e.report("upload", errPathRequired)
		return
	}

	dest, err := e.Upload(ctx, local, blobstore.EnsureDir(e.path))
	if err != nil {
		e.report("upload", err)
		return
	}

	e.out.Success("Uploaded to: %s", dest)
}

func (e *Explorer) searchPrompt(ctx context.Context) {
	term, err := e.out.Prompt("Enter search term: ")
	if err != nil || term == "" {
		return
	}

	modeAnswer, _ := e.out.Prompt("Match mode, 1 starts with, 2 contains [2]: ")

	mode, err := filetable.ParseMode(modeAnswer)
	if err != nil {
		e.report("search", err)
		return
	}

	filterAnswer, _ := e.out.Prompt("Show 1 all, 2 files, 3 folders [1]: ")

	filter, err := filetable.ParseFilter(filterAnswer)
	if err != nil {
		e.report("search", err)
		return
	}

	matches, err := Search(ctx, e.store, e.path, term, mode, filter)
	if err != nil {
		e.report("search", err)
		return
	}

	if len(matches) == 0 {
		e.out.Warn("No matches for %q.", term)
		return
	}

	e.out.Println(report.MatchesTable(matches))
}

func (e *Explorer) download(ctx context.Context, blobPath string) {
	dest, err := e.Download(ctx, blobPath, "")
	if err != nil {
		e.report("download", err)
		return
	}

	e.out.Success("Downloaded to: %s", dest)
}

func (e *Explorer) report(op string, err error) {
	e.logger.Debugf("%s at %q failed: %v", op, e.path, err)
	e.out.Fail("%s failed: %v", op, err)
}

// Download writes the blob at blobPath to dest, by default the download directory under the
// blob's base name, and returns the absolute local path.
func (e *Explorer) Download(ctx context.Context, blobPath, dest string) (string, error) {
	data, err := e.store.Download(ctx, blobPath)
	if err != nil {
		return "", err
	}

	if dest == "" {
		dest = filepath.Join(e.downloadDir, blobstore.Base(blobPath))
	}

	if err := os.MkdirAll(filepath.Dir(dest), dirMode); err != nil {
		return "", err
	}

	if err := os.WriteFile(dest, data, 0o600); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(dest)
	if err != nil {
		return dest, nil //nolint:nilerr // the file is written; only the display path is relative
	}

	return abs, nil
}

// Upload stores the local file at blobPath, overwriting any existing blob. A blobPath that is
// empty or ends in the delimiter names a folder, and the file keeps its base name inside it.
func (e *Explorer) Upload(ctx context.Context, localPath, blobPath string) (string, error) {
	info, err := os.Stat(localPath)
	if err != nil {
		return "", err
	}

	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", errNotAFile, localPath)
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}

	blobPath = blobstore.Clean(blobPath)
	if blobPath == "" || strings.HasSuffix(blobPath, blobstore.Delimiter) {
		blobPath += filepath.Base(localPath)
	}

	if err := e.store.Upload(ctx, blobPath, data); err != nil {
		return "", err
	}

	return blobPath, nil
}

// Search walks everything under root and matches names against term.
func Search(ctx context.Context, store blobstore.Store, root, term string, mode filetable.Mode,
	filter filetable.Filter) ([]filetable.Match, error) {
	entries, err := store.Walk(ctx, root)
	if err != nil {
		return nil, err
	}

	return filetable.Search(entries, term, mode, filter), nil
}
