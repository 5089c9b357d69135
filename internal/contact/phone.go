package contact

import (
	"regexp"
	"strings"
)

// Phone reformatting is heuristic: every step is a plain string rewrite and
// numbers that do not fit the expected shapes keep whatever partial form the
// earlier steps produced.

var (
	phoneCandidateRegex = regexp.MustCompile(`[-+(]*[0-9][-+ ()0-9]*[0-9]`)
	phoneForeignRegex   = regexp.MustCompile(`[^0-9+() -]`)
	multiSpaceRegex     = regexp.MustCompile(` +`)
	openParenRegex      = regexp.MustCompile(`\s*\(\s*`)
	closeParenRegex     = regexp.MustCompile(`\s*\)\s*`)
	digitRegex          = regexp.MustCompile(`\d`)
	digitGroupRegex     = regexp.MustCompile(`(\d\d\d)(\d\d\d)(\d\d)(\d+)$`)
	zoneCodeRegex       = regexp.MustCompile(`^[- ]*(\d+)[- ]+`)
	parenGroupRegex     = regexp.MustCompile(`.*\((.*)\)[^0-9]+`)
	mobileRegex         = regexp.MustCompile(`^8 \(9`)
)

// minPhoneLength is the shortest candidate worth reformatting.
const minPhoneLength = 10

// FormatPhones reformats every phone-like run inside s and keeps the text
// between them untouched.
func FormatPhones(s string) string {
	return phoneCandidateRegex.ReplaceAllStringFunc(s, FormatPhone)
}

// FormatPhone rewrites a single number into "8 (XXX) XXX-XX-XX" form, or
// "+7 (9XX) ..." for mobile numbers.
//
//	"8 916 123 45 67"    -> "+7 (916) 123-45-67"
//	"8 843 567 89 01"    -> "8 (843) 567-89-01"
func FormatPhone(raw string) string {
	if len(raw) < minPhoneLength || phoneForeignRegex.MatchString(raw) {
		return raw
	}

	base := multiSpaceRegex.ReplaceAllString(raw, " ")
	base = openParenRegex.ReplaceAllString(base, " (")
	base = closeParenRegex.ReplaceAllString(base, ") ")
	base = strings.TrimSpace(base)

	base = stripCountryPrefix(base)

	if digitRegex.MatchString(base) {
		base = replaceFirst(digitGroupRegex, base, "(${1}) ${2}-${3}-${4}")
	}

	base = multiSpaceRegex.ReplaceAllString(base, "-")
	base = replaceFirst(zoneCodeRegex, base, "(${1}) ")
	base = replaceFirst(parenGroupRegex, base, "8 (${1}) ")

	// Mobile codes start with 9 and are written with the country code.
	return replaceFirst(mobileRegex, base, "+7 (9")
}

// stripCountryPrefix drops a leading trunk prefix ("8", or the "7" of "79")
// or the international "+7".
func stripCountryPrefix(s string) string {
	switch {
	case strings.HasPrefix(s, "8"), strings.HasPrefix(s, "79"):
		return s[1:]
	case strings.HasPrefix(s, "+7"):
		return s[2:]
	}
	return s
}

// replaceFirst substitutes only the leftmost match of re.
func replaceFirst(re *regexp.Regexp, s, template string) string {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	var b []byte
	b = append(b, s[:m[0]]...)
	b = re.ExpandString(b, template, s, m)
	b = append(b, s[m[1]:]...)
	return string(b)
}
