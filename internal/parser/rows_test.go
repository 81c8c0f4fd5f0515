package parser

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/validator"
)

func textRow(n int, values ...string) model.Row {
	cells := make([]model.CellValue, len(values))
	for i, v := range values {
		cells[i] = model.Text(v)
	}
	return model.Row{Number: n, Cells: cells}
}

func header() model.Row {
	return textRow(1, "ID", "Nome", "Cargo", "Obra", "Data", "Entrada", "Saída", "Total de Horas")
}

func TestParseRows_TextRow(t *testing.T) {
	res := ParseRows([]model.Row{
		header(),
		textRow(2, "01", "João Silva", "Eletricista", "Edifício Central", "15/01/2024", "08:00:00", "17:00:00", "09:00:00"),
	}, Options{})

	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 1)
	assert.Equal(t, model.TimeRecord{
		EmployeeID:    "01",
		EmployeeName:  "João Silva",
		Role:          "Eletricista",
		Worksite:      "Edifício Central",
		Date:          "15/01/2024",
		TimeIn:        "08:00:00",
		TimeOut:       "17:00:00",
		DurationText:  "09:00:00",
		DurationHours: 9,
	}, res.Records[0])
}

func TestParseRows_ComputesMissingDuration(t *testing.T) {
	res := ParseRows([]model.Row{
		header(),
		textRow(2, "07", "Ana", "Vigia", "Shopping Plaza", "20/01/2024", "22:00", "06:30", ""),
	}, Options{})

	require.Len(t, res.Records, 1)
	assert.Equal(t, "08:30:00", res.Records[0].DurationText)
	assert.Equal(t, 8.5, res.Records[0].DurationHours)
}

func TestParseRows_TrustsTextDuration(t *testing.T) {
	res := ParseRows([]model.Row{
		header(),
		textRow(2, "01", "João", "Eletricista", "Central", "15/01/2024", "08:00", "17:00", "08:00:00"),
	}, Options{})

	require.Len(t, res.Records, 1)
	assert.Equal(t, "08:00:00", res.Records[0].DurationText)
	assert.Equal(t, 8.0, res.Records[0].DurationHours)
}

func TestParseRows_NumericDurationIsRecomputed(t *testing.T) {
	row := textRow(2, "01", "João", "Eletricista", "Central", "15/01/2024", "08:00", "17:30", "")
	row.Cells[colDuration] = model.Number(0.375)

	res := ParseRows([]model.Row{header(), row}, Options{})

	require.Len(t, res.Records, 1)
	assert.Equal(t, "09:30:00", res.Records[0].DurationText)
}

func TestParseRows_RowErrors(t *testing.T) {
	res := ParseRows([]model.Row{
		header(),
		textRow(2, "01", "João", "Eletricista", "Central", "15/01/2024", "08:00", "17:00", ""),
		textRow(3, "02", "Maria", "Administrativo", "Jardins", "31/02/2024", "08:00", "17:00", ""),
		textRow(4, "03", "Pedro", "Ajudante", "Central", "16/01/2024", "8:00", "17:00", ""),
		textRow(5, "04", "Ana"),
		textRow(6, "05", "Carlos", "Pedreiro", "Central", "17/01/2024", "07:30", "17:30", "dez horas"),
		textRow(7, "06", "Lucas", "Pedreiro", "Central", "17/01/2024", "07:30", "17:30", ""),
	}, Options{})

	assert.Len(t, res.Records, 2)
	assert.Equal(t, []string{
		"Row 3: invalid date (31/02/2024)",
		"Row 4: invalid time",
		"Row 5: insufficient columns",
		"Row 6: processing error",
	}, res.Errors)
	assert.Equal(t, "01", res.Records[0].EmployeeID)
	assert.Equal(t, "06", res.Records[1].EmployeeID)
}

func TestParseRows_DateCheckedBeforeTime(t *testing.T) {
	res := ParseRows([]model.Row{
		header(),
		textRow(2, "01", "João", "Eletricista", "Central", "1/1/2024", "xx", "yy", ""),
	}, Options{})

	assert.Empty(t, res.Records)
	assert.Equal(t, []string{"Row 2: invalid date (1/1/2024)"}, res.Errors)
}

func TestParseRows_Structural(t *testing.T) {
	res := ParseRows([]model.Row{header()}, Options{})
	assert.Empty(t, res.Records)
	assert.Equal(t, []string{msgTooFewRows}, res.Errors)

	res = ParseRows([]model.Row{
		textRow(1, "ID", "Nome", "Data"),
		textRow(2, "01", "João", "15/01/2024"),
	}, Options{})
	assert.Empty(t, res.Records)
	assert.Equal(t, []string{msgTooFewColumns}, res.Errors)
}

func TestParseRows_SkipsBlankRows(t *testing.T) {
	res := ParseRows([]model.Row{
		header(),
		textRow(2, "", "", "", "", "", "", "", ""),
		{Number: 3},
		textRow(4, "01", "João", "Eletricista", "Central", "15/01/2024", "08:00", "17:00", ""),
	}, Options{})

	assert.Empty(t, res.Errors)
	assert.Len(t, res.Records, 1)
}

func TestParseRows_StrictTimeRule(t *testing.T) {
	rows := []model.Row{
		header(),
		textRow(2, "01", "João", "Eletricista", "Central", "15/01/2024", "25:00", "17:00", ""),
	}

	loose := ParseRows(rows, Options{})
	assert.Len(t, loose.Records, 1)

	strict := ParseRows(rows, Options{TimeRule: validator.StrictTime})
	assert.Empty(t, strict.Records)
	assert.Equal(t, []string{"Row 2: invalid time"}, strict.Errors)
}

func TestParseRows_SpreadsheetCellsMatchText(t *testing.T) {
	text := textRow(2, "01", "João Silva", "Eletricista", "Edifício Central", "15/01/2024", "08:00", "17:00", "")
	numeric := model.Row{Number: 3, Cells: []model.CellValue{
		model.NumberWithText(1, "01"),
		model.Text("João Silva"),
		model.Text("Eletricista"),
		model.Text("Edifício Central"),
		model.Number(45306),
		model.Number(8.0 / 24),
		model.Number(17.0 / 24),
		model.Text(""),
	}}

	res := ParseRows([]model.Row{header(), text, numeric}, Options{})

	require.Empty(t, res.Errors)
	require.Len(t, res.Records, 2)
	assert.Equal(t, res.Records[0], res.Records[1])
	assert.Equal(t, 9.0, res.Records[1].DurationHours)
}

func TestParseRows_ErrorPerInvalidRow(t *testing.T) {
	rows := []model.Row{header()}
	for i := 0; i < 25; i++ {
		rows = append(rows, textRow(i+2, fmt.Sprint(i), "X", "Y", "Z", "99/99/2024", "08:00", "17:00", ""))
	}

	res := ParseRows(rows, Options{})

	assert.Empty(t, res.Records)
	assert.Len(t, res.Errors, 25)
	assert.Equal(t, "Row 26: invalid date (99/99/2024)", res.Errors[24])
}
