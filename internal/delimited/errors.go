package delimited

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind names a parse failure or warning category.
type ErrorKind string

const (
	KindUnexpectedEOF   ErrorKind = "UNEXPECTED_END_OF_FILE"
	KindUnexpectedChar  ErrorKind = "UNEXPECTED_CHARACTER"
	KindUnexpectedEOL   ErrorKind = "UNEXPECTED_END_OF_RECORD"
	KindUnexpectedSpace ErrorKind = "UNEXPECTED_WHITESPACE"
)

// Sentinel errors matched by errors.Is against a *ParseError.
var (
	ErrUnexpectedEOF   = errors.New("unexpected end of file")
	ErrUnexpectedChar  = errors.New("unexpected character")
	ErrUnexpectedEOL   = errors.New("unexpected end of record")
	ErrUnexpectedSpace = errors.New("unexpected whitespace")
)

// contextWidth is how many characters before the offset are quoted in diagnostics.
const contextWidth = 50

// ParseError is a fatal parse failure. The whole parse is abandoned.
type ParseError struct {
	Kind    ErrorKind
	Offset  int    // character (rune) offset where parsing stopped
	Context string // up to 50 preceding characters, control characters escaped
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at char %d : %s", e.Kind, e.Offset, e.Context)
}

// Unwrap maps the kind to its sentinel error.
func (e *ParseError) Unwrap() error {
	return sentinelFor(e.Kind)
}

// Warning reports an ambiguous but tolerated situation. It never aborts a parse.
type Warning struct {
	Kind    ErrorKind `json:"kind"`
	Offset  int       `json:"offset"`
	Context string    `json:"context"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s at char %d : %s", w.Kind, w.Offset, w.Context)
}

func sentinelFor(kind ErrorKind) error {
	switch kind {
	case KindUnexpectedEOF:
		return ErrUnexpectedEOF
	case KindUnexpectedChar:
		return ErrUnexpectedChar
	case KindUnexpectedEOL:
		return ErrUnexpectedEOL
	case KindUnexpectedSpace:
		return ErrUnexpectedSpace
	}
	return nil
}

var contextEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`)

// snippet returns the characters preceding offset with control characters
// rendered visibly.
func snippet(src []rune, offset int) string {
	if offset > len(src) {
		offset = len(src)
	}
	start := offset - contextWidth
	if start < 0 {
		start = 0
	}
	return contextEscaper.Replace(string(src[start:offset]))
}
