package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/timecalc"
	"github.com/Tiliavir/hora-obra/internal/validator"
)

// Fixed column positions. Header text is never used for mapping.
const (
	colID = iota
	colName
	colRole
	colWorksite
	colDate
	colTimeIn
	colTimeOut
	colDuration

	// MinColumns is the number of columns every row must carry.
	MinColumns
)

const (
	msgTooFewRows    = "file must contain a header row and at least one data row"
	msgTooFewColumns = "file must have at least 8 columns in order: ID, Name, Role, Worksite, Date, TimeIn, TimeOut, TotalDuration"
)

// Result is the outcome of parsing one file: the records in source order and
// one message per rejected row.
type Result struct {
	Records []model.TimeRecord
	Errors  []string
}

// Options tunes row validation.
type Options struct {
	// TimeRule validates time-in and time-out. Defaults to validator.LooseTime.
	TimeRule validator.TimeRule
}

func (o Options) timeRule() validator.TimeRule {
	if o.TimeRule == nil {
		return validator.LooseTime
	}
	return o.TimeRule
}

// ParseRows maps tabular rows to TimeRecords. The first row is the header and
// is only checked for width. Invalid rows never abort the batch: each one
// adds exactly one message to Result.Errors.
func ParseRows(rows []model.Row, opts Options) Result {
	var res Result
	if len(rows) < 2 {
		res.Errors = append(res.Errors, msgTooFewRows)
		return res
	}
	if len(rows[0].Cells) < MinColumns {
		res.Errors = append(res.Errors, msgTooFewColumns)
		return res
	}

	valid := opts.timeRule()
	for _, row := range rows[1:] {
		if row.Empty() {
			continue
		}
		rec, msg := parseRow(row, valid)
		if msg != "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", row.Number, msg))
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// parseRow converts one data row. A non-empty message means the row is
// rejected.
func parseRow(row model.Row, validTime validator.TimeRule) (rec model.TimeRecord, msg string) {
	defer func() {
		if r := recover(); r != nil {
			rec, msg = model.TimeRecord{}, "processing error"
		}
	}()

	cells := row.Cells
	if len(cells) < MinColumns {
		return rec, "insufficient columns"
	}

	date, err := dateCell(cells[colDate])
	if err != nil {
		return rec, "processing error"
	}
	timeIn := clockCell(cells[colTimeIn])
	timeOut := clockCell(cells[colTimeOut])

	if !validator.IsValidDate(date) {
		return rec, fmt.Sprintf("invalid date (%s)", date)
	}
	if !validTime(timeIn) || !validTime(timeOut) {
		return rec, "invalid time"
	}

	duration := cells[colDuration]
	durationText := duration.String()
	if duration.IsEmpty() || duration.IsNumber() {
		durationText, err = timecalc.DurationBetween(timeIn, timeOut)
		if err != nil {
			return rec, "processing error"
		}
	}
	hours, err := timecalc.TimeToDecimal(durationText)
	if err != nil {
		return rec, "processing error"
	}

	return model.TimeRecord{
		EmployeeID:    cells[colID].String(),
		EmployeeName:  cells[colName].String(),
		Role:          cells[colRole].String(),
		Worksite:      cells[colWorksite].String(),
		Date:          date,
		TimeIn:        timeIn,
		TimeOut:       timeOut,
		DurationText:  durationText,
		DurationHours: hours,
	}, ""
}

// dateCell turns a spreadsheet date serial into DD/MM/YYYY and passes text
// through unchanged.
func dateCell(c model.CellValue) (string, error) {
	if !c.IsNumber() {
		return c.String(), nil
	}
	t, err := excelize.ExcelDateToTime(c.Number, false)
	if err != nil {
		return "", fmt.Errorf("date serial %v: %w", c.Number, err)
	}
	return timecalc.FormatDate(t), nil
}

// clockCell turns a time-of-day fraction into HH:MM and passes everything
// else through as text.
func clockCell(c model.CellValue) string {
	if c.IsNumber() && c.Number < 1 {
		return timecalc.DecimalFractionToClock(c.Number)
	}
	return c.String()
}
