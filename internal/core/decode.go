package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Format is the detected kind of an uploaded contact list.
type Format string

const (
	FormatText     Format = "text"
	FormatWorkbook Format = "xlsx"
)

// Encoding names reported in Input.Encoding.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1251 = "windows-1251"
)

var (
	// ErrEmptyInput is returned for uploads without any content.
	ErrEmptyInput = errors.New("empty file")

	// ErrInputTooLarge is returned when an upload exceeds the size limit.
	ErrInputTooLarge = errors.New("file too large")

	// ErrInvalidWorkbook is returned when a file looks like xlsx but cannot be read.
	ErrInvalidWorkbook = errors.New("invalid spreadsheet")

	// ErrEncoding is returned when text is neither UTF-8 nor Windows-1251.
	ErrEncoding = errors.New("unsupported text encoding")
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// Input is a decoded contact list. Text is set for delimited text, Rows for
// workbooks.
type Input struct {
	Format   Format
	Encoding string
	Text     string
	Rows     [][]string
}

// ReadInput reads at most limit bytes from r and decodes them. A limit of
// zero or less means no limit.
func ReadInput(r io.Reader, limit int64) (*Input, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrInputTooLarge, limit)
	}
	return Decode(data)
}

// Decode detects the format and encoding of data.
//
// Zip containers are opened as xlsx workbooks. Everything else is text:
// a UTF-8 byte order mark is removed, and text that is not valid UTF-8 is
// decoded as Windows-1251, the encoding spreadsheet programs use for
// Cyrillic exports on Russian Windows.
func Decode(data []byte) (*Input, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	if bytes.HasPrefix(data, zipMagic) {
		rows, err := readWorkbook(data)
		if err != nil {
			return nil, err
		}
		return &Input{Format: FormatWorkbook, Encoding: EncodingUTF8, Rows: rows}, nil
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	if utf8.Valid(data) {
		return &Input{Format: FormatText, Encoding: EncodingUTF8, Text: string(data)}, nil
	}

	decoded, _, err := transform.Bytes(charmap.Windows1251.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return &Input{Format: FormatText, Encoding: EncodingWindows1251, Text: string(decoded)}, nil
}

// readWorkbook returns the rows of the first sheet.
func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidWorkbook)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}
	return rows, nil
}
