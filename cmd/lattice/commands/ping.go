package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check whether the platform is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !conn.Ping(cmd.Context()) {
			return fmt.Errorf("platform is not reachable")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Platform is reachable")
		return nil
	},
}

// GetPingCmd returns the ping command
func GetPingCmd() *cobra.Command {
	return pingCmd
}
