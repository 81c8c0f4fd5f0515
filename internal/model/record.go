package model

// TimeRecord is one normalized clock-in/clock-out entry for one employee on
// one date at one worksite. Records are only built from rows whose date and
// times passed validation and are never mutated afterwards.
type TimeRecord struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Role         string `json:"role"`
	Worksite     string `json:"worksite"`
	// Date is DD/MM/YYYY.
	Date    string `json:"date"`
	TimeIn  string `json:"time_in"`
	TimeOut string `json:"time_out"`
	// DurationText is HH:MM:SS.
	DurationText string `json:"duration_text"`
	// DurationHours is the decimal form of DurationText and the only value
	// aggregations add up.
	DurationHours float64 `json:"duration_hours"`
}

// Row is one source row of tabular input.
type Row struct {
	// Number is the 1-based row number in the source file.
	Number int
	Cells  []CellValue
}

// Empty reports whether every cell in the row is blank.
func (r Row) Empty() bool {
	for _, c := range r.Cells {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
