package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/stats"
	"github.com/Tiliavir/hora-obra/internal/timecalc"
)

const reportTitle = "HOURS WORKED REPORT"

// EmployeeReport is the content of one employee's report document.
type EmployeeReport struct {
	Title       string
	PeriodLabel string
	// Code identifies the generated document, e.g. REL-01-3f2a9c1d.
	Code        string
	GeneratedAt time.Time
	Employee    model.EmployeeStatistics
	Rows        []ReportRow
}

// ReportRow is one line of the register table.
type ReportRow struct {
	Date     string
	TimeIn   string
	TimeOut  string
	Hours    string
	Worksite string
}

// SummaryItem is one labelled figure of the statistics summary.
type SummaryItem struct {
	Label string
	Value string
}

// BuildReport assembles the report of one employee for the given period.
func BuildReport(stat model.EmployeeStatistics, period stats.Period, now time.Time) EmployeeReport {
	rows := make([]ReportRow, len(stat.Records))
	for i, r := range stat.Records {
		rows[i] = ReportRow{
			Date:     r.Date,
			TimeIn:   r.TimeIn,
			TimeOut:  r.TimeOut,
			Hours:    timecalc.FormatHours(r.DurationHours),
			Worksite: r.Worksite,
		}
	}
	return EmployeeReport{
		Title:       reportTitle,
		PeriodLabel: PeriodLabel(period),
		Code:        "REL-" + stat.EmployeeID + "-" + uuid.NewString()[:8],
		GeneratedAt: now,
		Employee:    stat,
		Rows:        rows,
	}
}

// PeriodLabel describes the reporting period. Only a period with both bounds
// is printed as a range.
func PeriodLabel(p stats.Period) string {
	if !p.Bounded() {
		return "Period: complete"
	}
	return fmt.Sprintf("Period: %s to %s", timecalc.FormatDate(*p.From), timecalc.FormatDate(*p.To))
}

// Identity returns the "<id> - <name>" line of the employee box.
func (r EmployeeReport) Identity() string {
	return r.Employee.EmployeeID + " - " + r.Employee.EmployeeName
}

// Summary returns the statistics summary in display order.
func (r EmployeeReport) Summary() []SummaryItem {
	e := r.Employee
	return []SummaryItem{
		{"Total hours", timecalc.FormatHours(e.TotalHours)},
		{"Days worked", strconv.Itoa(e.DaysWorked)},
		{"Average daily", timecalc.FormatHours(e.AverageDailyHours) + "/day"},
		{"Overtime", timecalc.FormatHours(e.OvertimeHours)},
		{"Days without record", strconv.Itoa(e.DaysWithoutRecord)},
	}
}

// ReportFileName returns report-<id>-<name with whitespace runs as dashes>.pdf.
func ReportFileName(stat model.EmployeeStatistics) string {
	name := strings.Join(strings.Fields(stat.EmployeeName), "-")
	return "report-" + safeName(stat.EmployeeID) + "-" + safeName(name) + ".pdf"
}

// safeName keeps path separators out of generated file names.
func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '-'
		}
		return r
	}, s)
}
