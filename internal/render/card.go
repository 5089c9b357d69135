// Package render turns normalized contacts into printable business cards.
//
// A Card holds the four text blocks printed on the front of a card. Blocks
// are built from a contact.Contact with NewCard; paragraphs inside a block
// are separated by ParagraphBreak. A Renderer draws a Card onto a Layout,
// and the batch helpers in this package write one PDF per contact, either
// into a directory or into a zip archive.
package render

import (
	"strings"

	"github.com/JonMunkholm/bizcards/internal/contact"
)

// ParagraphBreak separates paragraphs inside a block.
const ParagraphBreak = "\r"

// Block names, in drawing order.
const (
	BlockFullName = "FullName"
	BlockDuty     = "Duty"
	BlockAddress  = "Address"
	BlockContacts = "Contacts"
)

// Card is the text of one business card.
type Card struct {
	// Surname is kept for naming output files.
	Surname string

	FullName string
	Duty     string
	Address  string
	Contacts string
}

// NewCard composes the card blocks for c.
//
//	FullName: SURNAME / Firstname Fathername
//	Address:  address / phones
//	Contacts: website / email [/ Skype: skype]
func NewCard(c contact.Contact) Card {
	contacts := c.Website + ParagraphBreak + c.Email
	if c.Skype != "" {
		contacts += ParagraphBreak + "Skype: " + c.Skype
	}

	return Card{
		Surname:  c.Surname,
		FullName: strings.ToUpper(c.Surname) + ParagraphBreak + c.Firstname + " " + c.Fathername,
		Duty:     c.Duty,
		Address:  c.Address + ParagraphBreak + c.Phones,
		Contacts: contacts,
	}
}

// Block returns the text of the named block, or "" for an unknown name.
func (c Card) Block(name string) string {
	switch name {
	case BlockFullName:
		return c.FullName
	case BlockDuty:
		return c.Duty
	case BlockAddress:
		return c.Address
	case BlockContacts:
		return c.Contacts
	}
	return ""
}

// Paragraphs splits a block into its printed lines. Trailing spaces left by
// empty name parts are trimmed; empty paragraphs are kept so that the
// vertical rhythm of a block does not depend on which fields are filled.
func Paragraphs(block string) []string {
	if block == "" {
		return nil
	}
	lines := strings.Split(block, ParagraphBreak)
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}
