// Package core ties the contact pipeline together.
//
// It sits between the transports (CLI and HTTP) and the building blocks:
// delimited parses text into records, contact normalizes them, render draws
// cards and store keeps a history of runs. Nothing in core knows about
// flags, requests or templates.
//
// # Pipeline
//
//  1. [Decode] turns uploaded bytes into text or spreadsheet rows. It strips
//     a UTF-8 byte order mark, falls back to Windows-1251 for legacy exports
//     and opens .xlsx workbooks.
//  2. [Service.Convert] parses the text with the configured delimited
//     options and normalizes every record into a contact.Contact. Runs are
//     recorded when a store is configured.
//  3. [Service.RenderCards] renders one PDF per contact on a registered
//     layout; [Service.WriteCards] and [Service.ZipCards] deliver them.
//
// # Error Handling
//
// Technical errors are mapped to user-facing messages with [MapError].
// Each category has a code for support reference:
//
//   - CSV001-CSV004: malformed contact lists (parser error kinds)
//   - FILE001-FILE005: upload problems (size, encoding, workbook, missing)
//   - RND001-RND002: rendering (no font, unknown layout)
//   - DB001-DB002: run history
//   - RATE001: all render slots busy
//   - REQ001-REQ002: cancelled or timed out requests
package core
