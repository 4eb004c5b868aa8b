// Package scanner reads the input tree: a zip archive or a directory. It
// also provides the worker pool used to analyze files concurrently.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

var (
	// ErrInvalidArchive is returned when the archive cannot be opened or
	// read. It aborts the run.
	ErrInvalidArchive = errors.New("invalid archive")
	// ErrSourceNotFound is returned when the input path does not exist.
	ErrSourceNotFound = errors.New("source not found")
)

// Entry is one regular file of the input tree.
type Entry struct {
	Path    string
	Size    int64
	ModTime time.Time
	Content []byte
	// ReadErr is set when the entry could not be read; Content is nil.
	ReadErr error
}

// Digest returns the hex xxhash64 of content.
func Digest(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}

// Loader reads every accepted entry of an archive or directory.
type Loader struct {
	Filter Filter
	logger *zap.Logger
}

func NewLoader(excludes []string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{Filter: Filter{Excludes: excludes}, logger: logger}
}

// Load reads src, which is either a .zip archive or a directory. Entries are
// returned sorted by path.
func (l *Loader) Load(ctx context.Context, src string) ([]Entry, error) {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, src)
		}
		return nil, err
	}

	var entries []Entry
	if info.IsDir() {
		entries, err = l.readDir(ctx, src)
	} else {
		entries, err = l.readArchive(ctx, src)
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	l.logger.Debug("input loaded", zap.String("source", src), zap.Int("entries", len(entries)))
	return entries, nil
}

func (l *Loader) readDir(ctx context.Context, root string) ([]Entry, error) {
	walker := NewFileWalker(l.Filter)
	walker.Logger = l.logger
	paths, errs := walker.Walk(ctx, root)

	var entries []Entry
	for p := range paths {
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil, err
		}
		e := Entry{Path: filepath.ToSlash(rel)}
		if info, err := os.Stat(p); err == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
		}
		e.Content, e.ReadErr = os.ReadFile(p)
		if e.ReadErr != nil {
			l.logger.Debug("read failed", zap.String("file", e.Path), zap.Error(e.ReadErr))
		}
		entries = append(entries, e)
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	return entries, nil
}

// FileWalker traverses a directory and feeds accepted file paths to a
// channel.
type FileWalker struct {
	Filter Filter
	// Logger receives the paths skipped because they could not be read.
	Logger *zap.Logger
}

func NewFileWalker(filter Filter) *FileWalker {
	return &FileWalker{Filter: filter}
}

// Walk starts the traversal and returns a channel of file paths.
// It runs in a separate goroutine and closes the channel when done.
func (fw *FileWalker) Walk(ctx context.Context, root string) (<-chan string, <-chan error) {
	paths := make(chan string, 100)
	errs := make(chan error, 1)

	go func() {
		defer close(paths)
		defer close(errs)

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				if fw.Logger != nil {
					fw.Logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
				}
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if rel != "." && fw.Filter.ExcludedDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !fw.Filter.Accept(rel) {
				return nil
			}

			select {
			case paths <- path:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})

		if err != nil {
			errs <- err
		}
	}()

	return paths, errs
}

// cleanEntryName normalises an archive member name to a relative slash
// path.
func cleanEntryName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	for strings.HasPrefix(name, "./") {
		name = name[2:]
	}
	return strings.TrimPrefix(name, "/")
}
