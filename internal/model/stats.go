package model

// EmployeeStatistics is derived from a record set and a period. It has no
// identity of its own and is recomputed whenever either input changes.
type EmployeeStatistics struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Role         string   `json:"role"`
	Worksites    []string `json:"worksites"`

	TotalHours        float64 `json:"total_hours"`
	DaysWorked        int     `json:"days_worked"`
	OvertimeHours     float64 `json:"overtime_hours"`
	AverageDailyHours float64 `json:"average_daily_hours"`
	// DaysWithoutRecord is only computed when the period has both bounds.
	DaysWithoutRecord int `json:"days_without_record"`

	Records []TimeRecord `json:"-"`
}

// WorkedAt reports whether the employee has a record at the worksite.
func (s EmployeeStatistics) WorkedAt(worksite string) bool {
	for _, w := range s.Worksites {
		if w == worksite {
			return true
		}
	}
	return false
}

// RankedEmployee is an EmployeeStatistics with its 1-based position in a
// ranking by total hours.
type RankedEmployee struct {
	EmployeeStatistics
	Rank int `json:"rank"`
}

// WorksiteShare is the hour total of one worksite and its share of all hours.
type WorksiteShare struct {
	Worksite   string  `json:"worksite"`
	Hours      float64 `json:"hours"`
	Percentage float64 `json:"percentage"`
}

// EmployeeHours is one bar of the hours-per-employee chart.
type EmployeeHours struct {
	Label string  `json:"label"`
	Hours float64 `json:"hours"`
}
