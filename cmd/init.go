package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnoswap-labs/dracula/count"
)

func newInitCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.cfgFile
			if path == "" {
				path = count.DefaultConfigFile
			}
			if err := count.WriteDefaultConfig(path); err != nil {
				return fmt.Errorf("error initializing config file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created: %s\n", path)
			return nil
		},
	}
}
