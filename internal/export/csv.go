package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Tiliavir/hora-obra/internal/model"
)

// DefaultCSVName is the file name used when exporting to disk without an
// explicit name.
const DefaultCSVName = "relatorio-horas.csv"

var csvHeader = []string{"Nome", "Cargo", "Obra", "Data", "Total Horas"}

// WriteCSV writes one line per record: name, role, worksite, date and decimal
// hours in shortest form.
func WriteCSV(w io.Writer, records []model.TimeRecord) error {
	if _, err := fmt.Fprintln(w, strings.Join(csvHeader, ",")); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, r := range records {
		_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%s\n",
			csvEscape(r.EmployeeName),
			csvEscape(r.Role),
			csvEscape(r.Worksite),
			csvEscape(r.Date),
			strconv.FormatFloat(r.DurationHours, 'f', -1, 64),
		)
		if err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

var employeesHeader = []string{
	"employee_id", "employee_name", "role", "worksites",
	"total_hours", "days_worked", "overtime_hours", "average_daily_hours", "days_without_record",
}

// WriteEmployeesCSV writes one line of statistics per employee. Worksites
// are joined with "; ".
func WriteEmployeesCSV(w io.Writer, stats []model.EmployeeStatistics) error {
	if _, err := fmt.Fprintln(w, strings.Join(employeesHeader, ",")); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, s := range stats {
		_, err := fmt.Fprintf(w, "%s,%s,%s,%s,%s,%d,%s,%s,%d\n",
			csvEscape(s.EmployeeID),
			csvEscape(s.EmployeeName),
			csvEscape(s.Role),
			csvEscape(strings.Join(s.Worksites, "; ")),
			formatDecimal(s.TotalHours),
			s.DaysWorked,
			formatDecimal(s.OvertimeHours),
			formatDecimal(s.AverageDailyHours),
			s.DaysWithoutRecord,
		)
		if err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}
	return nil
}

// formatDecimal rounds to two decimals and drops trailing zeros.
func formatDecimal(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}
