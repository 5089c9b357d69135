// Package contact turns parsed contact-list rows into card-ready records.
//
// Each input row is expected to carry seven columns in this order:
//
//	surname; first and father name; duty; address; phones; email; skype
//
// Normalization never fails. Missing or malformed values degrade to empty
// strings or are passed through unchanged, because contact data quality
// varies widely between sources.
package contact

import (
	"strings"

	"github.com/JonMunkholm/bizcards/internal/delimited"
)

// RecordLength is the number of columns a row is padded or truncated to.
const RecordLength = 7

// DefaultDomain is the website every card points at.
const DefaultDomain = "trakt.ru"

// Contact is one normalized person, ready to be placed on a card.
type Contact struct {
	Surname    string `json:"surname"`
	Firstname  string `json:"firstname"`
	Fathername string `json:"fathername"`
	Duty       string `json:"duty"`
	Address    string `json:"address"`
	Phones     string `json:"phones"`
	Email      string `json:"email"`
	Skype      string `json:"skype"`
	Website    string `json:"website"`
}

// Options configures website derivation.
type Options struct {
	Domain string // bare domain, e.g. "trakt.ru"
	Cities []City // lookup table, first match wins
}

// DefaultOptions returns the default domain and city table.
func DefaultOptions() Options {
	return Options{Domain: DefaultDomain, Cities: Cities}
}

// Normalize converts parsed records into contacts, one per record.
func Normalize(records []delimited.Record, opts Options) []Contact {
	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = rec.Strings()
	}
	return NormalizeStrings(rows, opts)
}

// NormalizeStrings is Normalize for rows that are already plain text,
// such as spreadsheet cells.
func NormalizeStrings(rows [][]string, opts Options) []Contact {
	if opts.Domain == "" {
		opts.Domain = DefaultDomain
	}
	if opts.Cities == nil {
		opts.Cities = Cities
	}

	rows = DropTrailingBlank(rows)
	contacts := make([]Contact, 0, len(rows))
	for _, row := range rows {
		contacts = append(contacts, normalizeRow(row, opts))
	}
	return contacts
}

func normalizeRow(row []string, opts Options) Contact {
	fields := FitRecordLength(row, RecordLength)
	for i := range fields {
		fields[i] = CleanField(fields[i])
	}

	firstname, fathername := SplitName(fields[1])

	c := Contact{
		Surname:    fields[0],
		Firstname:  CapitalizeFirst(firstname),
		Fathername: CapitalizeFirst(fathername),
		Duty:       CorrectPunctuation(CapitalizeFirst(fields[2])),
		Address:    CorrectPunctuation(fields[3]),
		Phones:     FormatPhones(fields[4]),
		Email:      strings.ToLower(fields[5]),
		Skype:      fields[6],
	}
	c.Website = Website(opts.Domain, CityCode(opts.Cities, c.Address, c.Duty))
	return c
}

// Website builds "www.<domain>" with an optional "/<code>" subpath.
func Website(domain, code string) string {
	site := "www." + domain
	if code != "" {
		site += "/" + code
	}
	return site
}
