package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/hora-obra/internal/sheets"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Google Sheets integration for gsheet:<file-id> sources",
}

var sheetsLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Google with a device code",
	Args:  cobra.NoArgs,
	RunE:  runSheetsLogin,
}

func init() {
	sheetsCmd.AddCommand(sheetsLoginCmd)
}

func runSheetsLogin(cmd *cobra.Command, args []string) error {
	auth, err := newAuthenticator(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if _, err := auth.Login(cmd.Context()); err != nil {
		return err
	}
	path, err := sheets.TokenFilePath()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in. Token saved to %s\n", path)
	return nil
}
