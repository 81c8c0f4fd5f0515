package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hora-obra/internal/export"
	"github.com/Tiliavir/hora-obra/internal/stats"
	"github.com/Tiliavir/hora-obra/internal/storage"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <source>",
	Short: "Export the filtered records as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	addFilterFlags(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", export.DefaultCSVName, "Output file, or - for stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	filter, err := currentFilter()
	if err != nil {
		return err
	}
	all, err := loadRecords(cmd.Context(), args[0], cmd.InOrStdin(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	records := stats.Apply(all, filter)

	if exportOutput == "-" {
		return export.WriteCSV(cmd.OutOrStdout(), records)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, records); err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(exportOutput, buf.Bytes(), 0o644); err != nil {
		return err
	}
	logger.Info("csv exported", "path", exportOutput, "records", len(records))
	fmt.Fprintf(cmd.OutOrStdout(), "%d records written to %s\n", len(records), exportOutput)
	return nil
}
