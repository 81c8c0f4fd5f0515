package model

import (
	"strconv"
	"strings"
)

// CellKind tells which member of a CellValue is meaningful.
type CellKind int

const (
	CellText CellKind = iota
	CellNumber
)

// CellValue is a single spreadsheet cell: either text or a number.
// Number cells keep the raw text they were read from so identifiers such as
// "01" survive unchanged.
type CellValue struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Text returns a text cell.
func Text(s string) CellValue {
	return CellValue{Kind: CellText, Text: s}
}

// Number returns a numeric cell without raw text.
func Number(f float64) CellValue {
	return CellValue{Kind: CellNumber, Number: f}
}

// NumberWithText returns a numeric cell that remembers its raw text.
func NumberWithText(f float64, raw string) CellValue {
	return CellValue{Kind: CellNumber, Number: f, Text: raw}
}

// IsNumber reports whether the cell holds a number.
func (c CellValue) IsNumber() bool {
	return c.Kind == CellNumber
}

// IsEmpty reports whether the cell is a blank text cell.
func (c CellValue) IsEmpty() bool {
	return c.Kind == CellText && strings.TrimSpace(c.Text) == ""
}

// String returns the cell's text form.
func (c CellValue) String() string {
	if c.Kind == CellNumber && c.Text == "" {
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	}
	return c.Text
}
