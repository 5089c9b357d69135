package core

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/bizcards/internal/contact"
)

// WorkbookContentType is the MIME type of xlsx exports.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// contactColumns is the header row of contact exports.
var contactColumns = []string{
	"Surname", "Firstname", "Fathername", "Duty", "Address",
	"Phones", "Email", "Skype", "Website",
}

// ContactsWorkbook writes contacts into a single-sheet xlsx workbook with a
// bold header row.
func ContactsWorkbook(contacts []contact.Contact) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	for i, name := range contactColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(contactColumns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for r, c := range contacts {
		row := []string{
			c.Surname, c.Firstname, c.Fathername, c.Duty, c.Address,
			c.Phones, c.Email, c.Skype, c.Website,
		}
		for i, v := range row {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}

	for i := range contactColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, 22)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
