// Package delimited parses delimiter-separated text into records.
//
// The parser is a character-level state machine following RFC 4180 quoting
// rules with knobs for strictness:
//
//   - optional bare CR or bare LF line endings
//   - relaxed mode: blank lines skipped, ragged records allowed, garbage
//     after a closing quote ignored
//   - optional type detection of numbers, booleans, null and undefined
//
// Every call to Parse works on freshly allocated state, so a Parser may be
// shared between goroutines.
package delimited

import (
	"log/slog"
	"strings"
)

const (
	quote = '"'
	cr    = '\r'
	lf    = '\n'
	space = ' '
	tab   = '\t'
)

// DefaultDelimiter is a semicolon: spreadsheet exports in several locales
// write semicolons where RFC 4180 expects commas.
const DefaultDelimiter = ';'

type parseState int

const (
	preToken parseState = iota
	midToken
	postToken
	postRecord
)

func (s parseState) String() string {
	switch s {
	case preToken:
		return "pre_token"
	case midToken:
		return "mid_token"
	case postToken:
		return "post_token"
	default:
		return "post_record"
	}
}

// Options controls parser strictness and type handling.
type Options struct {
	// Delimiter separates fields. Zero means DefaultDelimiter.
	Delimiter rune

	// Relaxed skips blank lines, ignores record length mismatches, tolerates
	// garbage after quoted tokens and accepts bare CR/LF line endings.
	Relaxed bool

	// IgnoreRecordLength disables only the record length check.
	IgnoreRecordLength bool

	// IgnoreQuotes treats the quote character as ordinary text.
	IgnoreQuotes bool

	// LineFeedOK accepts a bare LF as a line ending.
	LineFeedOK bool

	// CarriageReturnOK accepts a bare CR as a line ending.
	CarriageReturnOK bool

	// DetectTypes converts numeric, boolean, null and undefined fields.
	DetectTypes bool

	// IgnoreQuoteWhitespace skips whitespace around quoted fields instead
	// of warning (before) or failing (after).
	IgnoreQuoteWhitespace bool

	// Debug traces every step at slog debug level.
	Debug bool

	// Warn receives non-fatal warnings. Nil logs them with slog.
	Warn func(Warning)
}

// DefaultOptions returns the permissive defaults: both line ending styles
// accepted, type detection on, whitespace around quotes ignored.
func DefaultOptions() Options {
	return Options{
		Delimiter:             DefaultDelimiter,
		LineFeedOK:            true,
		CarriageReturnOK:      true,
		DetectTypes:           true,
		IgnoreQuoteWhitespace: true,
	}
}

// Parser holds options only. Parsing state lives in each Parse call.
type Parser struct {
	opts Options
}

// New returns a Parser using opts.
func New(opts Options) *Parser {
	if opts.Delimiter == 0 {
		opts.Delimiter = DefaultDelimiter
	}
	return &Parser{opts: opts}
}

// Options returns a copy of the parser options.
func (p *Parser) Options() Options {
	return p.opts
}

// Parse parses text with the given options.
func Parse(text string, opts Options) ([]Record, error) {
	return New(opts).Parse(text)
}

// Parse converts text into records. On error no partial result is returned.
func (p *Parser) Parse(text string) ([]Record, error) {
	s := &state{
		opts:   p.opts,
		src:    []rune(text),
		result: []Record{},
	}
	s.debug("parse", "chars", len(s.src))
	return s.run()
}

// state is the cursor and scratch space of one parse.
type state struct {
	opts    Options
	src     []rune
	offset  int
	state   parseState
	token   strings.Builder
	escaped bool
	record  Record
	open    bool
	result  []Record
}

func (s *state) run() ([]Record, error) {
	for {
		if s.offset >= len(s.src) {
			if s.escaped {
				return nil, s.fail(KindUnexpectedEOF)
			}
			if s.open {
				s.tokenEnd()
				if err := s.recordEnd(); err != nil {
					return nil, err
				}
			}
			s.debug("eof", "records", len(s.result))
			return s.result, nil
		}

		c := s.src[s.offset]
		s.offset++

		if !s.open {
			if s.opts.Relaxed && s.blankLine(c) {
				continue
			}
			s.recordBegin()
		}

		if s.state == preToken {
			if (c == space || c == tab) && !s.opts.IgnoreQuotes && s.nextNonSpace() == quote {
				if s.opts.Relaxed || s.opts.IgnoreQuoteWhitespace {
					continue
				}
				// Legal, but ambiguous and hard to debug otherwise.
				s.warn(KindUnexpectedSpace)
			}

			if c == quote && !s.opts.IgnoreQuotes {
				s.debug("escaped start")
				s.escaped = true
				s.state = midToken
				continue
			}
			s.state = midToken
		}

		if s.state == midToken && s.escaped {
			if c == quote {
				if s.peek() == quote {
					s.token.WriteRune(quote)
					s.offset++
				} else {
					s.debug("escaped end")
					s.escaped = false
					s.state = postToken
				}
			} else {
				s.token.WriteRune(c)
			}
			continue
		}

		switch {
		case c == cr:
			if s.peek() == lf {
				s.offset++
			} else if !(s.opts.CarriageReturnOK || s.opts.Relaxed) {
				return nil, s.fail(KindUnexpectedChar)
			}
			s.tokenEnd()
			if err := s.recordEnd(); err != nil {
				return nil, err
			}
		case c == lf:
			if !(s.opts.LineFeedOK || s.opts.Relaxed) {
				return nil, s.fail(KindUnexpectedChar)
			}
			s.tokenEnd()
			if err := s.recordEnd(); err != nil {
				return nil, err
			}
		case c == s.opts.Delimiter:
			s.tokenEnd()
		case s.state == midToken:
			s.token.WriteRune(c)
		case c == space || c == tab:
			if !s.opts.IgnoreQuoteWhitespace {
				return nil, s.fail(KindUnexpectedSpace)
			}
		case !s.opts.Relaxed:
			return nil, s.fail(KindUnexpectedChar)
		}
	}
}

// blankLine reports whether c terminates an empty line. A CR followed by LF
// is consumed as one terminator.
func (s *state) blankLine(c rune) bool {
	switch c {
	case lf:
		return true
	case cr:
		if s.peek() == lf {
			s.offset++
		}
		return true
	}
	return false
}

// peek returns the character at the cursor without consuming it, or 0 at end of input.
func (s *state) peek() rune {
	if s.offset < len(s.src) {
		return s.src[s.offset]
	}
	return 0
}

func (s *state) nextNonSpace() rune {
	for i := s.offset; i < len(s.src); i++ {
		if c := s.src[i]; c != space && c != tab {
			return c
		}
	}
	return 0
}

func (s *state) recordBegin() {
	s.escaped = false
	s.record = Record{}
	s.open = true
	s.tokenBegin()
}

func (s *state) recordEnd() error {
	s.state = postRecord
	if !(s.opts.IgnoreRecordLength || s.opts.Relaxed) &&
		len(s.result) > 0 && len(s.record) != len(s.result[0]) {
		return s.fail(KindUnexpectedEOL)
	}
	s.result = append(s.result, s.record)
	s.debug("record end", "fields", len(s.record))
	s.record = nil
	s.open = false
	return nil
}

func (s *state) tokenBegin() {
	s.state = preToken
	s.token.Reset()
}

func (s *state) tokenEnd() {
	raw := s.token.String()
	v := Text(raw)
	if s.opts.DetectTypes {
		v = Infer(raw)
	}
	s.record = append(s.record, v)
	s.debug("token end", "token", raw, "kind", v.Kind.String())
	s.tokenBegin()
}

func (s *state) fail(kind ErrorKind) error {
	return &ParseError{
		Kind:    kind,
		Offset:  s.offset,
		Context: snippet(s.src, s.offset),
	}
}

func (s *state) warn(kind ErrorKind) {
	w := Warning{Kind: kind, Offset: s.offset, Context: snippet(s.src, s.offset)}
	if s.opts.Warn != nil {
		s.opts.Warn(w)
		return
	}
	slog.Warn("csv parse warning", "kind", string(w.Kind), "offset", w.Offset, "context", w.Context)
}

func (s *state) debug(msg string, args ...any) {
	if !s.opts.Debug {
		return
	}
	args = append(args, "offset", s.offset, "state", s.state.String())
	slog.Debug("csv: "+msg, args...)
}
