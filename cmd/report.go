package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hora-obra/internal/export"
	"github.com/Tiliavir/hora-obra/internal/model"
	"github.com/Tiliavir/hora-obra/internal/stats"
)

var (
	reportEmployees []string
	reportDir       string
	reportDelay     time.Duration
)

var reportCmd = &cobra.Command{
	Use:   "report <source>",
	Short: "Generate PDF reports per employee",
	Long: `Generates one PDF per employee with identity, statistics summary and every
record of the filtered period. Without --employee a report is generated for
every employee, one after another.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().StringSliceVarP(&reportEmployees, "employee", "e", nil, "Employee ID to report on (repeatable; default all)")
	reportCmd.Flags().StringVar(&reportDir, "dir", "", "Output directory (default from config, else current directory)")
	reportCmd.Flags().DurationVar(&reportDelay, "delay", -1, "Pause between documents (default from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	filter, err := currentFilter()
	if err != nil {
		return err
	}
	all, err := loadRecords(cmd.Context(), args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	perEmployee := stats.PerEmployee(stats.Apply(all, filter), filter.Period(), cfg.Stats.OvertimeAfterHours)

	selected, err := selectEmployees(perEmployee, reportEmployees)
	if err != nil {
		return err
	}

	now := time.Now()
	reports := make([]export.EmployeeReport, len(selected))
	for i, s := range selected {
		reports[i] = export.BuildReport(s, filter.Period(), now)
	}

	delay := reportDelay
	if delay < 0 {
		if delay, err = cfg.Report.DelayDuration(); err != nil {
			return err
		}
	}
	dir := reportDir
	if dir == "" {
		dir = cfg.Report.OutputDir
	}
	if dir == "" {
		dir = "."
	}

	out := cmd.OutOrStdout()
	if len(reports) > 1 {
		fmt.Fprintf(out, "Generating %d reports...\n", len(reports))
	}
	paths, err := export.Batch{Dir: dir, Delay: delay, Logger: logger}.Write(cmd.Context(), reports)
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	if err != nil {
		return fmt.Errorf("%d of %d reports written: %w", len(paths), len(reports), err)
	}
	fmt.Fprintf(out, "%d reports generated.\n", len(paths))
	return nil
}

// selectEmployees keeps the requested IDs in the order given; no IDs selects
// everyone.
func selectEmployees(all []model.EmployeeStatistics, ids []string) ([]model.EmployeeStatistics, error) {
	if len(ids) == 0 {
		if len(all) == 0 {
			return nil, export.ErrNoEmployees
		}
		return all, nil
	}
	selected := make([]model.EmployeeStatistics, 0, len(ids))
	for _, id := range ids {
		s, ok := stats.FindEmployee(all, id)
		if !ok {
			return nil, fmt.Errorf("employee %q has no records in the selected period", id)
		}
		selected = append(selected, s)
	}
	return selected, nil
}
