package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cmdvault/seed"
)

func newResetCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Replace every command with the catalog",
		Long: `Discard every command in the vault and reload the catalog: the file
named by "catalog" in the config, or the built-in one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := seed.Load(a.cfg.CatalogPath())
			if err != nil {
				return err
			}
			if _, err := a.open(); err != nil {
				return err
			}
			count, err := a.store.Count()
			if err != nil {
				return err
			}

			question := fmt.Sprintf("Replace %d commands with %d from the catalog?", count, len(commands))
			if !force && !confirm(cmd, question) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled. Use --force to reset without asking.")
				return nil
			}
			if err := a.store.Reset(commands); err != nil {
				return err
			}
			a.log.Info("vault reset", "commands", len(commands))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d commands loaded\n", successStyle.Render("Reset:"), len(commands))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Reset without confirmation")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the vault as a YAML catalog",
		Long:  "Write every command as a YAML catalog, to file or to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.open(); err != nil {
				return err
			}
			commands, err := a.store.List()
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := seed.Export(w, commands); err != nil {
				return err
			}
			if len(args) == 1 && args[0] != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s %d commands to %s\n", successStyle.Render("Exported"), len(commands), args[0])
			}
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add the commands of a YAML catalog",
		Long: `Add the commands of a YAML catalog to the vault. With --replace the
vault is emptied first. Every entry is validated before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			commands, err := seed.Load(args[0])
			if err != nil {
				return err
			}
			if _, err := a.open(); err != nil {
				return err
			}

			if replace {
				if err := a.store.Reset(commands); err != nil {
					return err
				}
			} else {
				for _, c := range commands {
					if _, err := a.store.Create(c); err != nil {
						return err
					}
				}
			}
			a.log.Info("catalog imported", "file", args[0], "commands", len(commands), "replace", replace)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d commands\n", successStyle.Render("Imported"), len(commands))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Empty the vault before importing")
	return cmd
}
