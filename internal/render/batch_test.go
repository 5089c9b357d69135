package render

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/JonMunkholm/bizcards/internal/contact"
)

// textRenderer writes the card blocks as plain text.
type textRenderer struct {
	calls  atomic.Int32
	failOn string
}

func (r *textRenderer) Render(w io.Writer, card Card, layout Layout) error {
	r.calls.Add(1)
	if card.Surname == r.failOn {
		return errors.New("boom")
	}
	_, err := fmt.Fprintf(w, "%s|%s|%s", layout.Key, card.FullName, card.Contacts)
	return err
}

func testContacts() []contact.Contact {
	return []contact.Contact{
		{Surname: "Иванов", Firstname: "Иван", Website: "www.trakt.ru", Email: "a@x"},
		{Surname: "Петров", Firstname: "Пётр", Website: "www.trakt.ru", Email: "b@x"},
		{Surname: "Иванов", Firstname: "Олег", Website: "www.trakt.ru", Email: "c@x"},
	}
}

func TestRenderAll(t *testing.T) {
	layout, _ := Layouts.Get(DefaultLayout)
	r := &textRenderer{}

	files, err := RenderAll(context.Background(), r, layout, testContacts(), NewFileNamer(".pdf", false), 2)
	if err != nil {
		t.Fatalf("RenderAll() error = %v", err)
	}

	wantNames := []string{"Иванов.pdf", "Петров.pdf", "Иванов-2.pdf"}
	if len(files) != len(wantNames) {
		t.Fatalf("RenderAll() = %d files, want %d", len(files), len(wantNames))
	}
	for i, f := range files {
		if f.Name != wantNames[i] {
			t.Errorf("files[%d].Name = %q, want %q", i, f.Name, wantNames[i])
		}
	}
	if got := string(files[2].Data); got != "standard|ИВАНОВ\rОлег |www.trakt.ru\rc@x" {
		t.Errorf("files[2].Data = %q", got)
	}
	if got := r.calls.Load(); got != 3 {
		t.Errorf("Render called %d times, want 3", got)
	}
}

func TestRenderAll_Error(t *testing.T) {
	layout, _ := Layouts.Get(DefaultLayout)
	r := &textRenderer{failOn: "Петров"}

	_, err := RenderAll(context.Background(), r, layout, testContacts(), NewFileNamer(".pdf", false), 1)
	if err == nil {
		t.Fatal("RenderAll() expected error")
	}
	if want := "render Петров.pdf: boom"; err.Error() != want {
		t.Errorf("error = %q, want %q", err, want)
	}
}

func TestRenderAll_Cancelled(t *testing.T) {
	layout, _ := Layouts.Get(DefaultLayout)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RenderAll(ctx, &textRenderer{}, layout, testContacts(), NewFileNamer(".pdf", false), 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderAll() error = %v, want context.Canceled", err)
	}
}

func TestWriteDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	files := []File{{Name: "a.pdf", Data: []byte("A")}, {Name: "b.pdf", Data: []byte("B")}}

	paths, err := WriteDir(context.Background(), dir, files)
	if err != nil {
		t.Fatalf("WriteDir() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("WriteDir() = %v, want 2 paths", paths)
	}
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("ReadFile(%s) error = %v", p, err)
		}
		if !bytes.Equal(data, files[i].Data) {
			t.Errorf("%s = %q, want %q", p, data, files[i].Data)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output dir has %d entries, want 2 (no temp files left)", len(entries))
	}
}

func TestWriteZip(t *testing.T) {
	files := []File{{Name: "Иванов.pdf", Data: []byte("one")}, {Name: "Петров.pdf", Data: []byte("two")}}

	var buf bytes.Buffer
	if err := WriteZip(&buf, files, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)); err != nil {
		t.Fatalf("WriteZip() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("zip.NewReader() error = %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("archive has %d files, want 2", len(zr.File))
	}
	for i, zf := range zr.File {
		if zf.Name != files[i].Name {
			t.Errorf("entry %d name = %q, want %q", i, zf.Name, files[i].Name)
		}
		rc, err := zf.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if !bytes.Equal(data, files[i].Data) {
			t.Errorf("entry %s = %q, want %q", zf.Name, data, files[i].Data)
		}
	}
}
