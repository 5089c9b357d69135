package render

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/bizcards/internal/contact"
)

// File is one rendered card.
type File struct {
	Name string
	Data []byte
}

// RenderAll renders a card for every contact, running at most workers
// renders at once. Files come back in contact order; names are assigned by
// namer before any rendering starts, so they do not depend on scheduling.
func RenderAll(ctx context.Context, r Renderer, layout Layout, contacts []contact.Contact, namer *FileNamer, workers int) ([]File, error) {
	files := make([]File, len(contacts))
	for i, c := range contacts {
		files[i].Name = namer.Next(c.Surname)
	}

	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range contacts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := r.Render(&buf, NewCard(c), layout); err != nil {
				return fmt.Errorf("render %s: %w", files[i].Name, err)
			}
			files[i].Data = buf.Bytes()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// WriteDir writes files into dir, creating it if needed, and returns the
// written paths. Each file is written to a temporary name first and renamed
// into place, so a failed run never leaves a truncated card behind.
func WriteDir(ctx context.Context, dir string, files []File) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		dest := filepath.Join(dir, f.Name)
		if err := writeAtomic(dest, f.Data); err != nil {
			return paths, fmt.Errorf("write %s: %w", dest, err)
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

func writeAtomic(dest string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".card-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// WriteZip packs files into a zip archive written to w.
func WriteZip(w io.Writer, files []File, modified time.Time) error {
	zw := zip.NewWriter(w)
	for _, f := range files {
		hdr := &zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: modified,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("zip %s: %w", f.Name, err)
		}
		if _, err := fw.Write(f.Data); err != nil {
			return fmt.Errorf("zip %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}
