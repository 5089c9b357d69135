package contact

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	lineBreakRegex   = regexp.MustCompile(`\r?\n|\r`)
	innerSpaceRegex  = regexp.MustCompile(`[\t\p{Zs}]+`)
	punctuationRegex = regexp.MustCompile(`([\p{Cyrillic}0-9])\s*([,.;:])\s*`)
)

// DropTrailingBlank removes a final row consisting of one empty field, which
// a trailing line break leaves behind in some exports.
func DropTrailingBlank(rows [][]string) [][]string {
	if n := len(rows); n > 0 && len(rows[n-1]) == 1 && rows[n-1][0] == "" {
		return rows[:n-1]
	}
	return rows
}

// FitRecordLength pads row with empty fields or truncates it to exactly n
// fields. The input slice is not modified.
func FitRecordLength(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

// CleanField trims surrounding whitespace, turns line breaks into spaces and
// collapses runs of inner whitespace to a single space.
func CleanField(s string) string {
	s = strings.TrimFunc(s, unicode.IsSpace)
	s = lineBreakRegex.ReplaceAllString(s, " ")
	return innerSpaceRegex.ReplaceAllString(s, " ")
}

// SplitName splits "Иван Иванович" into first name and the rest.
func SplitName(name string) (firstname, fathername string) {
	if name == "" {
		return "", ""
	}
	parts := strings.Split(name, " ")
	return parts[0], strings.Join(parts[1:], " ")
}

// CapitalizeFirst upper-cases the first letter and leaves the rest as is.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// CorrectPunctuation places exactly one space after , . ; : that follow a
// Cyrillic letter or digit, removes spaces before them and trims the right end.
//
//	"г .Казань ,ул. Баумана"  ->  "г. Казань, ул. Баумана"
func CorrectPunctuation(s string) string {
	s = punctuationRegex.ReplaceAllString(s, "${1}${2} ")
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
