package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Tiliavir/hora-obra/internal/stats"
)

var (
	filterFrom     string
	filterTo       string
	filterWorksite string
	filterRole     string
)

// addFilterFlags registers the record filter flags on cmd.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&filterFrom, "from", "", "First date to include (DD/MM/YYYY)")
	cmd.Flags().StringVar(&filterTo, "to", "", "Last date to include (DD/MM/YYYY)")
	cmd.Flags().StringVar(&filterWorksite, "worksite", stats.All, "Only records of this worksite")
	cmd.Flags().StringVar(&filterRole, "role", stats.All, "Only records of this role")
}

func currentFilter() (stats.Filter, error) {
	return stats.NewFilter(filterFrom, filterTo, filterWorksite, filterRole)
}
