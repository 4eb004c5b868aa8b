package scanner

import (
	"archive/zip"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
)

func (l *Loader) readArchive(ctx context.Context, path string) ([]Entry, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer zr.Close()

	var entries []Entry
	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.FileInfo().IsDir() {
			continue
		}
		rel := cleanEntryName(f.Name)
		if rel == "" || !l.Filter.Accept(rel) {
			continue
		}

		e := Entry{
			Path:    rel,
			Size:    int64(f.UncompressedSize64),
			ModTime: f.Modified,
		}
		e.Content, e.ReadErr = readMember(f)
		if e.ReadErr != nil {
			l.logger.Debug("archive member unreadable", zap.String("file", rel), zap.Error(e.ReadErr))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
