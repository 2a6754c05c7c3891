package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"cmdvault/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault(a.configPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config, vault and log locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := a.configPath
			if configPath == "" {
				configPath = config.DefaultPath()
			}
			dbPath := a.cfg.DatabasePath()
			if dbPath == "" {
				dbPath = "~/.cmdvault/vault.db"
			}
			catalog := a.cfg.CatalogPath()
			if catalog == "" {
				catalog = "(built-in)"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config   %s\n", configPath)
			fmt.Fprintf(out, "vault    %s\n", dbPath)
			fmt.Fprintf(out, "catalog  %s\n", catalog)
			fmt.Fprintf(out, "log      %s\n", a.cfg.LogPath())
			return nil
		},
	})
	return cmd
}
