package core

// error_messages.go maps technical errors to messages a user can act on.
//
// Codes are grouped by category so support can tell at a glance where a
// failure came from:
//
//	CSV001 - Unterminated quote        (delimited.ErrUnexpectedEOF)
//	CSV002 - Unexpected character      (delimited.ErrUnexpectedChar)
//	CSV003 - Wrong number of fields    (delimited.ErrUnexpectedEOL)
//	CSV004 - Unexpected whitespace     (delimited.ErrUnexpectedSpace)
//
//	FILE001 - File too large           (ErrInputTooLarge, "request body too large")
//	FILE002 - Unreadable workbook      (ErrInvalidWorkbook)
//	FILE003 - Unsupported encoding     (ErrEncoding)
//	FILE004 - No file uploaded         (ErrNoFile, "no such file")
//	FILE005 - Empty file               (ErrEmptyInput)
//
//	RND001 - No font configured        (render.ErrNoFont)
//	RND002 - Unknown layout            (render.ErrUnknownLayout)
//
//	DB001 - Run history disabled       (ErrStoreDisabled)
//	DB002 - Database unreachable       ("connection refused", store.ErrRunNotFound)
//
//	RATE001 - All render slots busy    (ErrTooManyRenders)
//
//	REQ001 - Request cancelled         (context.Canceled)
//	REQ002 - Request timed out         (context.DeadlineExceeded)
//
//	ERR000 - Anything else
//
// Sentinels are matched with errors.Is first; a few messages from lower
// layers that carry no sentinel are matched by substring.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/bizcards/internal/delimited"
	"github.com/JonMunkholm/bizcards/internal/render"
	"github.com/JonMunkholm/bizcards/internal/store"
)

// UserMessage is an error rendered for people rather than logs.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action"`
	Code    string `json:"code"`
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

var sentinelMessages = []sentinelMessage{
	{delimited.ErrUnexpectedEOF, UserMessage{
		Message: "A quoted field is never closed",
		Action:  "Check the quotes around the field shown in the error",
		Code:    "CSV001",
	}},
	{delimited.ErrUnexpectedChar, UserMessage{
		Message: "Unexpected character after a quoted field",
		Action:  "Put the delimiter right after the closing quote or enable relaxed parsing",
		Code:    "CSV002",
	}},
	{delimited.ErrUnexpectedEOL, UserMessage{
		Message: "A line has a different number of fields than the first line",
		Action:  "Make every line have the same number of fields or ignore record length",
		Code:    "CSV003",
	}},
	{delimited.ErrUnexpectedSpace, UserMessage{
		Message: "Unexpected whitespace after a quoted field",
		Action:  "Remove spaces between the closing quote and the delimiter",
		Code:    "CSV004",
	}},
	{ErrInputTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the contact list into smaller files",
		Code:    "FILE001",
	}},
	{ErrInvalidWorkbook, UserMessage{
		Message: "The spreadsheet could not be read",
		Action:  "Save it as .xlsx or export it as semicolon-separated text",
		Code:    "FILE002",
	}},
	{ErrEncoding, UserMessage{
		Message: "The file uses an unsupported text encoding",
		Action:  "Save the file as UTF-8 or Windows-1251",
		Code:    "FILE003",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was uploaded",
		Action:  "Choose a contact list to upload",
		Code:    "FILE004",
	}},
	{ErrEmptyInput, UserMessage{
		Message: "The file is empty",
		Action:  "Check that you selected the right file",
		Code:    "FILE005",
	}},
	{render.ErrNoFont, UserMessage{
		Message: "Card rendering is not configured",
		Action:  "Set RENDER_FONT_FILE to a TrueType font with Cyrillic glyphs",
		Code:    "RND001",
	}},
	{render.ErrUnknownLayout, UserMessage{
		Message: "Unknown card layout",
		Action:  "Pick one of the layouts listed by /api/layouts",
		Code:    "RND002",
	}},
	{ErrStoreDisabled, UserMessage{
		Message: "Run history is not enabled",
		Action:  "Set DATABASE_URL to keep a history of conversions",
		Code:    "DB001",
	}},
	{store.ErrRunNotFound, UserMessage{
		Message: "That run does not exist",
		Action:  "Pick a run from the recent runs list",
		Code:    "DB002",
	}},
	{ErrTooManyRenders, UserMessage{
		Message: "The server is busy rendering other cards",
		Action:  "Please try again in a few moments",
		Code:    "RATE001",
	}},
	{context.Canceled, UserMessage{
		Message: "The request was cancelled",
		Action:  "Start the upload again",
		Code:    "REQ001",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "The request timed out",
		Action:  "Try a smaller contact list or try again later",
		Code:    "REQ002",
	}},
}

type patternMessage struct {
	pattern string
	msg     UserMessage
}

var patternMessages = []patternMessage{
	{"request body too large", UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the contact list into smaller files",
		Code:    "FILE001",
	}},
	{"no such file", UserMessage{
		Message: "The input file was not found",
		Action:  "Check the path and try again",
		Code:    "FILE004",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to reach the run history database",
		Action:  "Please try again in a few moments",
		Code:    "DB002",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts err into a UserMessage. nil maps to the zero message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, pm := range patternMessages {
		if strings.Contains(errStr, pm.pattern) {
			return pm.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// Detail returns the parser position for parse errors, "" otherwise. It is
// shown next to the user message so people can find the broken line.
func Detail(err error) string {
	var pe *delimited.ParseError
	if errors.As(err, &pe) {
		return pe.Error()
	}
	return ""
}
