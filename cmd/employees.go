package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hora-obra/internal/export"
	"github.com/Tiliavir/hora-obra/internal/stats"
	"github.com/Tiliavir/hora-obra/internal/timecalc"
)

var employeesFormat string

var employeesCmd = &cobra.Command{
	Use:   "employees <source>",
	Short: "Show per-employee statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployees,
}

func init() {
	addFilterFlags(employeesCmd)
	employeesCmd.Flags().StringVar(&employeesFormat, "format", "md", "Output format: md, csv, json")
}

func runEmployees(cmd *cobra.Command, args []string) error {
	filter, err := currentFilter()
	if err != nil {
		return err
	}
	all, err := loadRecords(cmd.Context(), args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	perEmployee := stats.PerEmployee(stats.Apply(all, filter), filter.Period(), cfg.Stats.OvertimeAfterHours)
	out := cmd.OutOrStdout()

	switch employeesFormat {
	case "json":
		data, err := json.MarshalIndent(perEmployee, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "csv":
		return export.WriteEmployeesCSV(out, perEmployee)
	case "md":
		_, bounded := filter.Period().Days()
		headers := []string{"ID", "Name", "Role", "Worksites", "Hours", "Days", "Avg/day", "Overtime"}
		if bounded {
			headers = append(headers, "No record")
		}
		rows := make([][]string, len(perEmployee))
		for i, s := range perEmployee {
			rows[i] = []string{
				s.EmployeeID,
				s.EmployeeName,
				s.Role,
				strings.Join(s.Worksites, ", "),
				timecalc.FormatHours(s.TotalHours),
				fmt.Sprintf("%d", s.DaysWorked),
				timecalc.FormatHours(s.AverageDailyHours),
				timecalc.FormatHours(s.OvertimeHours),
			}
			if bounded {
				rows[i] = append(rows[i], fmt.Sprintf("%d", s.DaysWithoutRecord))
			}
		}
		printTable(out, headers, rows)
	default:
		return fmt.Errorf("unknown format %q (want md, csv or json)", employeesFormat)
	}
	return nil
}
