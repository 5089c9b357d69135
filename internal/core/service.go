package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/bizcards/internal/config"
	"github.com/JonMunkholm/bizcards/internal/contact"
	"github.com/JonMunkholm/bizcards/internal/delimited"
	"github.com/JonMunkholm/bizcards/internal/logging"
	"github.com/JonMunkholm/bizcards/internal/render"
	"github.com/JonMunkholm/bizcards/internal/store"
)

var (
	// ErrNoFile is returned when a request carries no contact list.
	ErrNoFile = errors.New("no file uploaded")

	// ErrStoreDisabled is returned by run queries when no database is configured.
	ErrStoreDisabled = errors.New("run history is disabled")
)

// RunStore is the part of store.Store the service needs.
type RunStore interface {
	SaveRun(ctx context.Context, run store.Run, contacts []contact.Contact) (store.Run, error)
	RecentRuns(ctx context.Context, limit int) ([]store.Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (store.Run, error)
	RunContacts(ctx context.Context, id uuid.UUID) ([]contact.Contact, error)
}

// Options configures a Service. Renderer and Runs may be nil; the
// operations that need them then fail with render.ErrNoFont and
// ErrStoreDisabled.
type Options struct {
	Parser  delimited.Options
	Contact contact.Options

	Renderer      render.Renderer
	Layouts       *render.Registry
	Layout        string
	SlugFileNames bool
	Workers       int

	MaxConcurrentRenders int
	MaxRenderWait        time.Duration
	MaxInputSize         int64

	Runs RunStore
}

// OptionsFromConfig fills Options from cfg. Renderer and Runs are left for
// the caller, since they need a font file and a database connection.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Parser:               cfg.Parser.Options(),
		Contact:              cfg.Card.ContactOptions(),
		Layouts:              render.Layouts,
		Layout:               cfg.Render.Layout,
		SlugFileNames:        cfg.Render.SlugFileNames,
		Workers:              cfg.Render.MaxConcurrent,
		MaxConcurrentRenders: cfg.Render.MaxConcurrent,
		MaxRenderWait:        cfg.Render.MaxWait,
		MaxInputSize:         cfg.Server.MaxUploadSize,
	}
}

// Service runs the contact pipeline.
type Service struct {
	parser   delimited.Options
	contacts contact.Options

	renderer render.Renderer
	layouts  *render.Registry
	layout   string
	slug     bool
	workers  int
	limiter  *RenderLimiter

	maxInput int64
	runs     RunStore
}

// NewService validates opts and builds a Service.
func NewService(opts Options) (*Service, error) {
	if opts.Layouts == nil {
		opts.Layouts = render.Layouts
	}
	if opts.Layout == "" {
		opts.Layout = render.DefaultLayout
	}
	if _, err := opts.Layouts.Get(opts.Layout); err != nil {
		return nil, fmt.Errorf("default layout: %w", err)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	return &Service{
		parser:   opts.Parser,
		contacts: opts.Contact,
		renderer: opts.Renderer,
		layouts:  opts.Layouts,
		layout:   opts.Layout,
		slug:     opts.SlugFileNames,
		workers:  opts.Workers,
		limiter:  NewRenderLimiter(opts.MaxConcurrentRenders, opts.MaxRenderWait),
		maxInput: opts.MaxInputSize,
		runs:     opts.Runs,
	}, nil
}

// Result is the outcome of one conversion.
type Result struct {
	Source   string              `json:"source"`
	Format   Format              `json:"format"`
	Encoding string              `json:"encoding"`
	Contacts []contact.Contact   `json:"contacts"`
	Warnings []delimited.Warning `json:"warnings,omitempty"`

	// Records are the fields before normalization, typed when type
	// detection is on.
	Records []delimited.Record `json:"-"`

	// Run is set when the conversion was recorded.
	Run *store.Run `json:"run,omitempty"`
}

// ConvertReader reads a contact list from r, honouring the upload size limit.
func (s *Service) ConvertReader(ctx context.Context, source string, r io.Reader) (*Result, error) {
	in, err := ReadInput(r, s.maxInput)
	if err != nil {
		return nil, err
	}
	return s.Convert(ctx, source, in)
}

// ConvertBytes decodes and converts data.
func (s *Service) ConvertBytes(ctx context.Context, source string, data []byte) (*Result, error) {
	in, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return s.Convert(ctx, source, in)
}

// Convert parses and normalizes a decoded contact list. When a run store is
// configured the result is recorded; a failure to record is logged and does
// not fail the conversion.
func (s *Service) Convert(ctx context.Context, source string, in *Input) (*Result, error) {
	logger := logging.WithFields(ctx, "source", source, "format", in.Format, "encoding", in.Encoding)

	res := &Result{Source: source, Format: in.Format, Encoding: in.Encoding}

	opts := s.parser
	opts.Warn = func(w delimited.Warning) {
		res.Warnings = append(res.Warnings, w)
		logger.Warn("contact list warning", "kind", w.Kind, "offset", w.Offset, "context", w.Context)
	}
	records, err := inputRecords(in, opts)
	if err != nil {
		logger.Info("contact list rejected", "error", err)
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	res.Records = records
	res.Contacts = contact.Normalize(records, s.contacts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.runs != nil {
		run, err := s.runs.SaveRun(ctx, OriginFrom(ctx).stamp(store.Run{
			Source:   source,
			Format:   string(in.Format),
			Encoding: in.Encoding,
		}), res.Contacts)
		if err != nil {
			logger.Warn("failed to record run", "error", err)
		} else {
			res.Run = &run
		}
	}

	logger.Info("contact list converted", "contacts", len(res.Contacts), "warnings", len(res.Warnings))
	return res, nil
}

// inputRecords turns decoded input into field records. Spreadsheet cells
// get the same type detection as delimited text.
func inputRecords(in *Input, opts delimited.Options) ([]delimited.Record, error) {
	if in.Format != FormatWorkbook {
		return delimited.Parse(in.Text, opts)
	}

	records := make([]delimited.Record, len(in.Rows))
	for i, row := range in.Rows {
		rec := make(delimited.Record, len(row))
		for j, cell := range row {
			rec[j] = delimited.Text(cell)
		}
		records[i] = rec
	}
	if opts.DetectTypes {
		records = delimited.InferRecords(records)
	}
	return records, nil
}

// Layouts lists the available card layouts.
func (s *Service) Layouts() []render.Layout {
	return s.layouts.All()
}

// DefaultLayout is the layout used when a request names none.
func (s *Service) DefaultLayout() string {
	return s.layout
}

// RenderCards renders one PDF per contact on the named layout ("" selects
// the default). At most the configured number of batches run at once.
func (s *Service) RenderCards(ctx context.Context, contacts []contact.Contact, layoutKey string) ([]render.File, error) {
	if s.renderer == nil {
		return nil, render.ErrNoFont
	}
	if layoutKey == "" {
		layoutKey = s.layout
	}
	layout, err := s.layouts.Get(layoutKey)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	files, err := render.RenderAll(ctx, s.renderer, layout, contacts, render.NewFileNamer(".pdf", s.slug), s.workers)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("cards rendered",
		"layout", layout.Key,
		"cards", len(files),
		"duration", time.Since(start),
	)
	return files, nil
}

// WriteCards renders contacts into dir and returns the written paths.
func (s *Service) WriteCards(ctx context.Context, dir string, contacts []contact.Contact, layoutKey string) ([]string, error) {
	files, err := s.RenderCards(ctx, contacts, layoutKey)
	if err != nil {
		return nil, err
	}
	return render.WriteDir(ctx, dir, files)
}

// ZipCards renders contacts and writes them to w as a zip archive.
func (s *Service) ZipCards(ctx context.Context, w io.Writer, contacts []contact.Contact, layoutKey string) error {
	files, err := s.RenderCards(ctx, contacts, layoutKey)
	if err != nil {
		return err
	}
	return render.WriteZip(w, files, time.Now())
}

// RecentRuns lists recorded runs, newest first.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if s.runs == nil {
		return nil, ErrStoreDisabled
	}
	return s.runs.RecentRuns(ctx, limit)
}

// RunContacts returns a recorded run with its contacts.
func (s *Service) RunContacts(ctx context.Context, id uuid.UUID) (store.Run, []contact.Contact, error) {
	if s.runs == nil {
		return store.Run{}, nil, ErrStoreDisabled
	}
	run, err := s.runs.GetRun(ctx, id)
	if err != nil {
		return store.Run{}, nil, err
	}
	contacts, err := s.runs.RunContacts(ctx, id)
	if err != nil {
		return store.Run{}, nil, err
	}
	return run, contacts, nil
}

// HistoryEnabled reports whether runs are recorded.
func (s *Service) HistoryEnabled() bool {
	return s.runs != nil
}

// RenderStatus reports render slot usage.
func (s *Service) RenderStatus() RenderLimiterStatus {
	return s.limiter.Status()
}

// WaitForRenders blocks until in-flight render batches finish or ctx ends.
func (s *Service) WaitForRenders(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
