package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/bizcards/internal/contact"
	"github.com/JonMunkholm/bizcards/internal/core"
	"github.com/JonMunkholm/bizcards/internal/store"
	"github.com/JonMunkholm/bizcards/internal/web/templates"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100

	zipContentType = "application/zip"
)

// LayoutInfo describes a card layout for API clients.
type LayoutInfo struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Width   float64 `json:"width_mm"`
	Height  float64 `json:"height_mm"`
	Default bool    `json:"default"`
}

// RunDetail is a recorded run with its contacts.
type RunDetail struct {
	Run      store.Run         `json:"run"`
	Contacts []contact.Contact `json:"contacts"`
}

// ----------------------------------------------------------------------------
// Pages
// ----------------------------------------------------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, "Business cards",
		templates.Index(s.service.Layouts(), s.service.DefaultLayout()))
}

// handlePreview converts an upload and shows the contacts as a table.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, err := s.convertUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, "Contacts",
		templates.Preview(res.Source, res.Contacts, res.Warnings, res.Run, s.service.Layouts(), s.service.DefaultLayout()))
}

func (s *Server) handleRunsPage(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), parseIntParam(r, "limit", defaultRunLimit, maxRunLimit))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, "Run history",
		templates.Runs(runs, s.service.Layouts(), s.service.DefaultLayout()))
}

// renderPage renders body inside the site layout. The page is buffered so a
// template failure can still become a 500.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	var buf bytes.Buffer
	if err := templates.Page(title, body).Render(r.Context(), &buf); err != nil {
		slog.Error("template render failed", "path", r.URL.Path, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// ----------------------------------------------------------------------------
// API
// ----------------------------------------------------------------------------

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"history": s.service.HistoryEnabled(),
		"renders": s.service.RenderStatus(),
	})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	layouts := s.service.Layouts()
	out := make([]LayoutInfo, 0, len(layouts))
	for _, l := range layouts {
		out = append(out, LayoutInfo{
			Key:     l.Key,
			Label:   l.Label,
			Width:   l.Width,
			Height:  l.Height,
			Default: l.Key == s.service.DefaultLayout(),
		})
	}
	writeJSON(w, out)
}

// handleContacts converts an upload and returns the contacts as JSON, or as
// a spreadsheet with ?format=xlsx.
func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	res, err := s.convertUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") != "xlsx" {
		writeJSON(w, res)
		return
	}
	s.writeWorkbook(w, r, res)
}

// handleDownloadContacts is the upload form's spreadsheet download.
func (s *Server) handleDownloadContacts(w http.ResponseWriter, r *http.Request) {
	res, err := s.convertUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeWorkbook(w, r, res)
}

// handleCards converts an upload and returns one PDF per contact in a zip.
func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	res, err := s.convertUpload(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeCards(w, r, res.Contacts, formValue(r, "layout"), baseName(res.Source)+"-cards.zip")
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.RecentRuns(r.Context(), parseIntParam(r, "limit", defaultRunLimit, maxRunLimit))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, contacts, err := s.runContacts(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, RunDetail{Run: run, Contacts: contacts})
}

// handleRunCards renders the cards of a recorded run again, optionally on
// another layout.
func (s *Server) handleRunCards(w http.ResponseWriter, r *http.Request) {
	run, contacts, err := s.runContacts(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeCards(w, r, contacts, r.URL.Query().Get("layout"), baseName(run.Source)+"-cards.zip")
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// convertUpload runs the pipeline on the request body: the "file" field of
// a multipart form, or the raw body otherwise. The upload name comes from
// the form file or the ?name= parameter.
func (s *Server) convertUpload(w http.ResponseWriter, r *http.Request) (*core.Result, error) {
	maxSize := s.cfg.Server.MaxUploadSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	ctx := WithRequestMetadata(r.Context(), r)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxSize); err != nil {
			return nil, fmt.Errorf("read form: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, core.ErrNoFile
		}
		defer file.Close()
		return s.service.ConvertReader(ctx, header.Filename, file)
	}

	source := r.URL.Query().Get("name")
	if source == "" {
		source = "upload"
	}
	return s.service.ConvertReader(ctx, source, r.Body)
}

// runContacts loads the run named by the {runID} path segment or, for the
// page form, the ?run= parameter.
func (s *Server) runContacts(r *http.Request) (store.Run, []contact.Contact, error) {
	raw := chi.URLParam(r, "runID")
	if raw == "" {
		raw = r.URL.Query().Get("run")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return store.Run{}, nil, fmt.Errorf("%w: %v", errInvalidRunID, err)
	}
	return s.service.RunContacts(r.Context(), id)
}

// writeCards renders contacts into a buffered zip so render failures are
// still reported as errors rather than a truncated download.
func (s *Server) writeCards(w http.ResponseWriter, r *http.Request, contacts []contact.Contact, layout, filename string) {
	var buf bytes.Buffer
	if err := s.service.ZipCards(r.Context(), &buf, contacts, layout); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeAttachment(w, zipContentType, filename, buf.Bytes())
}

func (s *Server) writeWorkbook(w http.ResponseWriter, r *http.Request, res *core.Result) {
	data, err := core.ContactsWorkbook(res.Contacts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeAttachment(w, core.WorkbookContentType, baseName(res.Source)+".xlsx", data)
}

func writeAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// formValue reads key from a parsed multipart form, falling back to the
// query string. It never parses the body itself.
func formValue(r *http.Request, key string) string {
	if r.MultipartForm != nil {
		if v := r.MultipartForm.Value[key]; len(v) > 0 {
			return v[0]
		}
	}
	return r.URL.Query().Get(key)
}

// parseIntParam parses a positive integer query parameter, clamped to max.
func parseIntParam(r *http.Request, name string, defaultVal, max int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	if i > max {
		return max
	}
	return i
}

// baseName strips the directory and extension from an upload name.
func baseName(source string) string {
	if i := strings.LastIndexAny(source, `/\`); i >= 0 {
		source = source[i+1:]
	}
	if i := strings.LastIndex(source, "."); i > 0 {
		source = source[:i]
	}
	if source == "" {
		return "contacts"
	}
	return source
}

// clientIP returns the host part of RemoteAddr.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
