package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/stats"
	"github.com/Tiliavir/hora-obra/internal/timecalc"
)

const barWidth = 30

var (
	dashboardChartWorksite string
	dashboardAll           bool
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard <source>",
	Short: "Show indicators, rankings and worksite distribution",
	Args:  cobra.ExactArgs(1),
	RunE:  runDashboard,
}

func init() {
	addFilterFlags(dashboardCmd)
	dashboardCmd.Flags().StringVar(&dashboardChartWorksite, "chart-worksite", stats.All,
		"Restrict the hours chart and low-load list to this worksite")
	dashboardCmd.Flags().BoolVar(&dashboardAll, "all", false, "List every filtered record instead of the first few")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	filter, err := currentFilter()
	if err != nil {
		return err
	}
	all, err := loadRecords(cmd.Context(), args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	records := stats.Apply(all, filter)
	perEmployee := stats.PerEmployee(records, filter.Period(), cfg.Stats.OvertimeAfterHours)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Worksites: %s\n", strings.Join(stats.Worksites(all), ", "))
	fmt.Fprintf(out, "Roles:     %s\n", strings.Join(stats.Roles(all), ", "))

	summary := stats.Indicators(records)
	heading(out, "Indicators")
	fmt.Fprintf(out, "Total hours:  %s\n", timecalc.FormatHours(summary.TotalHours))
	fmt.Fprintf(out, "Employees:    %d\n", summary.Employees)
	fmt.Fprintf(out, "Worksites:    %d\n", summary.Worksites)

	low := stats.UnderAllocated(perEmployee, cfg.Stats.UnderAllocationHours, dashboardChartWorksite)
	heading(out, fmt.Sprintf("Low load (< %gh)", cfg.Stats.UnderAllocationHours))
	if len(low) == 0 {
		fmt.Fprintln(out, "None.")
	}
	for _, s := range low {
		fmt.Fprintf(out, "%s - %s (%s)\n", s.EmployeeID, s.EmployeeName, timecalc.FormatHours(s.TotalHours))
	}

	heading(out, "Ranking")
	printRanking(out, stats.TopByHours(perEmployee, cfg.Stats.RankingSize))

	heading(out, "Hours per employee")
	printBars(out, stats.HoursPerEmployee(records, dashboardChartWorksite, cfg.Stats.ChartSize))

	heading(out, "Hours per worksite")
	printShares(out, stats.PerWorksite(records))

	heading(out, fmt.Sprintf("Records (%d)", len(records)))
	limit := cfg.Stats.DetailRows
	if dashboardAll {
		limit = 0
	}
	printRecords(out, records, limit)
	return nil
}

func printRanking(w io.Writer, ranked []model.RankedEmployee) {
	rows := make([][]string, len(ranked))
	for i, r := range ranked {
		rows[i] = []string{
			fmt.Sprintf("%d", r.Rank),
			r.EmployeeID + " - " + r.EmployeeName,
			r.Role,
			timecalc.FormatHours(r.TotalHours),
		}
	}
	printTable(w, []string{"#", "Employee", "Role", "Hours"}, rows)
}

func printBars(w io.Writer, bars []model.EmployeeHours) {
	var top float64
	for _, b := range bars {
		top = max(top, b.Hours)
	}
	rows := make([][]string, len(bars))
	for i, b := range bars {
		rows[i] = []string{b.Label, timecalc.FormatHours(b.Hours), bar(b.Hours, top, barWidth)}
	}
	printTable(w, []string{"Employee", "Hours", ""}, rows)
}

func printShares(w io.Writer, shares []model.WorksiteShare) {
	rows := make([][]string, len(shares))
	for i, s := range shares {
		rows[i] = []string{
			s.Worksite,
			timecalc.FormatHours(s.Hours),
			fmt.Sprintf("%.1f%%", s.Percentage),
			bar(s.Percentage, 100, barWidth),
		}
	}
	printTable(w, []string{"Worksite", "Hours", "Share", ""}, rows)
}
