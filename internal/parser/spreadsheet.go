package parser

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/hora-obra/internal/model"
)

// maxXLSRows bounds how many rows are read from a legacy workbook.
const maxXLSRows = 100000

var ErrNoWorksheet = errors.New("no worksheet found")

// ReadXLSX reads the first worksheet of an Office Open XML workbook. String
// cells become text; numeric cells (including date serials and time
// fractions) become numbers carrying their raw text.
func ReadXLSX(r io.Reader) ([]model.Row, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheet := file.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoWorksheet
	}
	values, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	rows := make([]model.Row, 0, len(values))
	for i, rowValues := range values {
		cells := make([]model.CellValue, len(rowValues))
		for j, raw := range rowValues {
			axis, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			cellType, err := file.GetCellType(sheet, axis)
			if err != nil {
				return nil, fmt.Errorf("cell %s: %w", axis, err)
			}
			cells[j] = xlsxCell(cellType, raw)
		}
		rows = append(rows, model.Row{Number: i + 1, Cells: cells})
	}
	return padMissingDuration(rows), nil
}

func xlsxCell(cellType excelize.CellType, raw string) model.CellValue {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeBool,
		excelize.CellTypeError, excelize.CellTypeFormula:
		return model.Text(strings.TrimSpace(raw))
	}
	return numericOrText(raw)
}

// ReadXLS reads the first worksheet of a legacy BIFF workbook. The reader
// only exposes formatted text, so cells that parse as numbers are treated as
// numbers.
func ReadXLS(r io.ReadSeeker) ([]model.Row, error) {
	workbook, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, ErrNoWorksheet
	}

	last := int(sheet.MaxRow)
	if last >= maxXLSRows {
		last = maxXLSRows - 1
	}
	rows := make([]model.Row, 0, last+1)
	for i := 0; i <= last; i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]model.CellValue, row.LastCol())
		for j := range cells {
			cells[j] = numericOrText(row.Col(j))
		}
		rows = append(rows, model.Row{Number: i + 1, Cells: cells})
	}
	return padMissingDuration(rows), nil
}

// padMissingDuration appends a blank total-duration cell to rows that stop
// one cell short of it. Spreadsheet readers drop trailing blank cells, but a
// blank duration is meaningful: it asks for the duration to be computed.
// Shorter rows are left alone so they still fail the column check.
func padMissingDuration(rows []model.Row) []model.Row {
	for i := 1; i < len(rows); i++ {
		if len(rows[i].Cells) != MinColumns-1 {
			continue
		}
		rows[i].Cells = append(rows[i].Cells[:MinColumns-1:MinColumns-1], model.Text(""))
	}
	return rows
}

func numericOrText(raw string) model.CellValue {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return model.Text("")
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return model.NumberWithText(f, trimmed)
	}
	return model.Text(trimmed)
}
