package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hora-obra/internal/config"
	"github.com/Tiliavir/hora-obra/internal/logging"
)

var (
	configPath string
	logLevel   string

	cfg    = config.Default()
	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "hora-obra",
	Short: "Import construction-site timesheets and analyse worked hours",
	Long: `hora-obra reads timesheets exported from spreadsheets (.csv, .xlsx, .xls or a
Google Sheet given as gsheet:<file-id>), validates every row and derives
per-employee and per-worksite statistics, CSV exports and PDF reports.

Rows must have at least 8 columns in this order:
  ID, Name, Role, Worksite, Date (DD/MM/YYYY), TimeIn, TimeOut, TotalDuration`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.hora-obra/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(employeesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sheetsCmd)
}

// setup loads .env, the config file and the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err = logging.New(cmd.ErrOrStderr(), level, cfg.Log.Format)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", slog.String("command", cmd.Name()))
	return nil
}
