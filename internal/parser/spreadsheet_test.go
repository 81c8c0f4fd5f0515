package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/hora-obra/internal/model"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var xlsxHeader = []interface{}{"ID", "Nome", "Cargo", "Obra", "Data", "Entrada", "Saída", "Total de Horas"}

func TestReadXLSX_NumericCells(t *testing.T) {
	buf := workbook(t,
		xlsxHeader,
		[]interface{}{"01", "João Silva", "Eletricista", "Edifício Central", 45306, 8.0 / 24, 17.0 / 24},
	)

	rows, err := ReadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	data := rows[1]
	require.Len(t, data.Cells, 8)
	assert.Equal(t, model.Text("01"), data.Cells[colID])
	assert.True(t, data.Cells[colDate].IsNumber())
	assert.Equal(t, 45306.0, data.Cells[colDate].Number)
	assert.True(t, data.Cells[colTimeIn].IsNumber())
	assert.True(t, data.Cells[colDuration].IsEmpty())
}

func TestReadXLSX_MatchesCSV(t *testing.T) {
	buf := workbook(t,
		xlsxHeader,
		[]interface{}{"01", "João Silva", "Eletricista", "Edifício Central", 45306, 8.0 / 24, 17.0 / 24},
	)
	xlsxRows, err := ReadXLSX(buf)
	require.NoError(t, err)

	csvRows, err := ReadCSV(strings.NewReader(csvHeader +
		"01,João Silva,Eletricista,Edifício Central,15/01/2024,08:00,17:00,\n"))
	require.NoError(t, err)

	fromXLSX := ParseRows(xlsxRows, Options{})
	fromCSV := ParseRows(csvRows, Options{})
	require.Empty(t, fromXLSX.Errors)
	require.Len(t, fromXLSX.Records, 1)
	assert.Equal(t, fromCSV.Records, fromXLSX.Records)
	assert.Equal(t, "09:00:00", fromXLSX.Records[0].DurationText)
}

func TestReadXLSX_TextDatesAndTimes(t *testing.T) {
	buf := workbook(t,
		xlsxHeader,
		[]interface{}{"04", "Ana Oliveira", "Engenheira", "Shopping Plaza", "17/01/2024", "09:00", "18:30", "09:30:00"},
	)

	rows, err := ReadXLSX(buf)
	require.NoError(t, err)

	res := ParseRows(rows, Options{})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "17/01/2024", res.Records[0].Date)
	assert.Equal(t, 9.5, res.Records[0].DurationHours)
}

func TestReadXLSX_FirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	first := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(first, "A1", &xlsxHeader))
	_, err := f.NewSheet("Outra")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Outra", "A1", &[]interface{}{"ignored"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ID", rows[0].Cells[0].String())
}

func TestReadXLSX_NotAWorkbook(t *testing.T) {
	_, err := ReadXLSX(strings.NewReader("ID,Nome\n"))
	assert.Error(t, err)
}

func TestNumericOrText(t *testing.T) {
	assert.Equal(t, model.Text(""), numericOrText("  "))
	assert.Equal(t, model.NumberWithText(0.5, "0.5"), numericOrText("0.5"))
	assert.Equal(t, model.Text("08:00"), numericOrText("08:00"))
}

func TestPadMissingDuration(t *testing.T) {
	seven := make([]model.CellValue, MinColumns-1)
	for i := range seven {
		seven[i] = model.Text("x")
	}
	rows := padMissingDuration([]model.Row{
		{Number: 1, Cells: append(append([]model.CellValue{}, seven...), model.Text("Total"))},
		{Number: 2, Cells: seven},
		{Number: 3, Cells: []model.CellValue{model.Text("01"), model.Text("Ana")}},
		{Number: 4},
	})

	require.Len(t, rows[1].Cells, MinColumns)
	assert.True(t, rows[1].Cells[colDuration].IsEmpty())
	assert.Len(t, rows[2].Cells, 2)
	assert.Empty(t, rows[3].Cells)
}

func TestReadXLSX_ShortRowIsInsufficientColumns(t *testing.T) {
	buf := workbook(t,
		xlsxHeader,
		[]interface{}{"01", "Ana"},
		[]interface{}{"02", "Maria Santos", "Administrativo", "Obra Norte", "16/01/2024", "08:00", "12:30"},
	)

	rows, err := ReadXLSX(buf)
	require.NoError(t, err)

	res := ParseRows(rows, Options{})
	assert.Equal(t, []string{"Row 2: insufficient columns"}, res.Errors)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "04:30:00", res.Records[0].DurationText)
}
