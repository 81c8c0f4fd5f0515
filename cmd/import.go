package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hora-obra/internal/importer"
	"github.com/Tiliavir/hora-obra/internal/model"
)

const (
	previewRows   = 5
	previewErrors = 10
)

var importYes bool

var importCmd = &cobra.Command{
	Use:   "import <source>",
	Short: "Validate a timesheet, preview it and confirm the import",
	Long: `Reads a timesheet (.csv, .xlsx, .xls, gsheet:<file-id> or - for CSV on stdin),
shows the first rows and any rejected rows, then asks before replacing the
current record set.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Import without asking for confirmation")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if args[0] == stdinSource && !importYes {
		return fmt.Errorf("--yes is required when the timesheet is read from stdin")
	}

	file, err := resolveSource(ctx, args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	session := importer.NewSession()
	p := newPipeline(session, importer.WithObserver(func(e importer.Event) {
		if e.State == importer.Processing {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%3d%%] %s\n", e.Progress, e.Message)
		}
	}))
	if err := p.Select(file); err != nil {
		return err
	}
	outcome, err := p.Process(ctx)
	if err != nil {
		return err
	}

	if !outcome.OK() {
		printErrors(out, outcome.Errors)
		return importFailure(outcome)
	}

	fmt.Fprintf(out, "File:    %s (%s)\n", outcome.FileName, outcome.Format)
	fmt.Fprintf(out, "Records: %d valid, %d rejected\n", len(outcome.Records), len(outcome.Errors))
	heading(out, "Preview")
	printRecords(out, outcome.Records, previewRows)
	printErrors(out, outcome.Errors)

	if !importYes {
		ok, err := confirm(cmd.InOrStdin(), out,
			fmt.Sprintf("Import %d records, replacing the current data? [y/N]: ", len(outcome.Records)))
		if err != nil {
			return err
		}
		if !ok {
			if err := p.Cancel(); err != nil {
				return err
			}
			fmt.Fprintln(out, "Import canceled.")
			return nil
		}
	}

	n, err := p.Commit()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d records imported (import %s).\n", n, session.Snapshot().ImportID)
	return nil
}

// printRecords prints up to limit records; limit <= 0 prints all.
func printRecords(w io.Writer, records []model.TimeRecord, limit int) {
	shown := records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([][]string, len(shown))
	for i, r := range shown {
		rows[i] = []string{r.EmployeeID, r.EmployeeName, r.Role, r.Worksite, r.Date, r.TimeIn, r.TimeOut, r.DurationText}
	}
	printTable(w, []string{"ID", "Name", "Role", "Worksite", "Date", "In", "Out", "Duration"}, rows)
	if len(records) > len(shown) {
		fmt.Fprintf(w, "... and %d more records\n", len(records)-len(shown))
	}
}

func printErrors(w io.Writer, errs []string) {
	if len(errs) == 0 {
		return
	}
	heading(w, fmt.Sprintf("Rejected rows (%d)", len(errs)))
	for _, line := range capList(errs, previewErrors) {
		fmt.Fprintln(w, line)
	}
}

// confirm asks a yes/no question. Only y, yes, s and sim count as yes.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "s", "sim":
		return true, nil
	}
	return false, nil
}
