package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/google/uuid"

	"github.com/JonMunkholm/bizcards/internal/contact"
	"github.com/JonMunkholm/bizcards/internal/delimited"
	"github.com/JonMunkholm/bizcards/internal/render"
	"github.com/JonMunkholm/bizcards/internal/store"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func TestPage_WrapsBody(t *testing.T) {
	got := renderString(t, Page("Cards <beta>", ErrorAlert("Boom", "", "ERR000", "")))

	for _, want := range []string{
		"<!doctype html>",
		"<title>Cards &lt;beta&gt;</title>",
		`<div class="alert"`,
		"</body></html>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Page() missing %q", want)
		}
	}
}

func TestIndex_SelectsDefaultLayout(t *testing.T) {
	got := renderString(t, Index(render.Layouts.All(), "euro"))

	if !strings.Contains(got, `<option value="euro" selected>`) {
		t.Errorf("Index() should preselect euro:\n%s", got)
	}
	if !strings.Contains(got, `<option value="standard">`) {
		t.Errorf("Index() should list standard:\n%s", got)
	}
	if !strings.Contains(got, `Standard 90×50`) {
		t.Errorf("Index() should show card size:\n%s", got)
	}
	for _, action := range []string{`formaction="/download/cards"`, `formaction="/download/contacts"`} {
		if !strings.Contains(got, action) {
			t.Errorf("Index() missing %s", action)
		}
	}
	if strings.Contains(got, "/api/") {
		t.Error("Index() should not post to API routes")
	}
}

func TestPreview_EscapesContacts(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	contacts := []contact.Contact{{
		Surname:    "Иванов",
		Firstname:  "Иван",
		Fathername: "Иванович",
		Duty:       "<script>alert(1)</script>",
		Website:    "www.trakt.ru",
	}}
	warnings := []delimited.Warning{{Kind: delimited.KindUnexpectedSpace, Offset: 3, Context: "a; "}}

	got := renderString(t, Preview("list.csv", contacts, warnings, &store.Run{ID: id}, render.Layouts.All(), "standard"))

	if strings.Contains(got, "<script>") {
		t.Error("Preview() rendered unescaped markup")
	}
	for _, want := range []string{
		"list.csv: 1 contacts",
		"Иван Иванович",
		"&lt;script&gt;",
		"UNEXPECTED_WHITESPACE at char 3",
		`action="/runs/cards"`,
		`<input type="hidden" name="run" value="` + id.String() + `">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Preview() missing %q", want)
		}
	}
}

func TestPreview_WithoutRun(t *testing.T) {
	got := renderString(t, Preview("list.csv", nil, nil, nil, render.Layouts.All(), "standard"))

	if strings.Contains(got, "/runs/cards") {
		t.Error("Preview() without a run should not offer a run download")
	}
	if !strings.Contains(got, "list.csv: 0 contacts") {
		t.Errorf("Preview() = %q", got)
	}
}

func TestContactsTable_Empty(t *testing.T) {
	if got := renderString(t, ContactsTable(nil)); !strings.Contains(got, "No contacts.") {
		t.Errorf("ContactsTable(nil) = %q", got)
	}
}

func TestRuns(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	runs := []store.Run{{
		ID:        id,
		Source:    "list.csv",
		Format:    "text",
		Encoding:  "windows-1251",
		Contacts:  3,
		CreatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}}

	got := renderString(t, Runs(runs, render.Layouts.All(), "standard"))

	for _, want := range []string{
		"2024-05-01 12:00:00",
		"windows-1251",
		"<td>3</td>",
		`action="/runs/cards"`,
		`name="run" value="` + id.String() + `"`,
		`<option value="standard" selected>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Runs() missing %q", want)
		}
	}

	if got := renderString(t, Runs(nil, nil, "")); !strings.Contains(got, "No runs") {
		t.Errorf("Runs(nil) = %q", got)
	}
}

func TestErrorAlert_Detail(t *testing.T) {
	got := renderString(t, ErrorAlert("Bad file", "Fix line 2", "CSV003", "UNEXPECTED_END_OF_RECORD at char 5 : a;b"))

	for _, want := range []string{"Bad file", "(CSV003)", "Fix line 2", "<code>UNEXPECTED_END_OF_RECORD"} {
		if !strings.Contains(got, want) {
			t.Errorf("ErrorAlert() missing %q", want)
		}
	}
}
