package render

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/JonMunkholm/bizcards/internal/contact"
)

func TestNewPDFRenderer_NoFont(t *testing.T) {
	if _, err := NewPDFRenderer("", DefaultExportOptions()); !errors.Is(err, ErrNoFont) {
		t.Errorf("NewPDFRenderer(\"\") error = %v, want ErrNoFont", err)
	}
	if _, err := NewPDFRendererFromFont(nil, DefaultExportOptions()); !errors.Is(err, ErrNoFont) {
		t.Errorf("NewPDFRendererFromFont(nil) error = %v, want ErrNoFont", err)
	}
	if _, err := NewPDFRenderer("/nonexistent/font.ttf", DefaultExportOptions()); err == nil {
		t.Error("NewPDFRenderer(missing file) expected error")
	}
}

// TestPDFRenderer_Render needs a TrueType font with Cyrillic glyphs, given
// by BIZCARDS_TEST_FONT.
func TestPDFRenderer_Render(t *testing.T) {
	fontFile := os.Getenv("BIZCARDS_TEST_FONT")
	if fontFile == "" {
		t.Skip("BIZCARDS_TEST_FONT not set")
	}

	opts := DefaultExportOptions()
	opts.PageInformation = true
	r, err := NewPDFRenderer(fontFile, opts)
	if err != nil {
		t.Fatalf("NewPDFRenderer() error = %v", err)
	}

	card := NewCard(contact.Contact{
		Surname:    "Константинопольский",
		Firstname:  "Иван",
		Fathername: "Иванович",
		Duty:       "Заместитель генерального директора по развитию региональной сети",
		Address:    "г. Казань, ул. Баумана, д. 1",
		Phones:     "+7 (916) 123-45-67",
		Email:      "ivan@example.com",
		Skype:      "ivanchik",
		Website:    "www.trakt.ru/kazan",
	})

	for _, layout := range Layouts.All() {
		var buf bytes.Buffer
		if err := r.Render(&buf, card, layout); err != nil {
			t.Fatalf("Render(%s) error = %v", layout.Key, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
			t.Errorf("Render(%s) output is not a PDF", layout.Key)
		}
	}
}
