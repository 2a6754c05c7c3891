package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cmdvault/model"
)

// recordFlags are the editable fields shared by add and edit.
type recordFlags struct {
	category    string
	subcategory string
	title       string
	command     string
	description string
	tags        string
	favorite    bool
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category, e.g. Cisco")
	cmd.Flags().StringVarP(&f.subcategory, "subcategory", "s", "", "Subcategory, e.g. VLAN")
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Short title")
	cmd.Flags().StringVarP(&f.command, "command", "x", "", "Command text with {placeholders}; - reads stdin")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
	cmd.Flags().StringVar(&f.tags, "tags", "", "Comma-separated tags")
	cmd.Flags().BoolVar(&f.favorite, "favorite", false, "Mark as favorite")
}

// apply copies the flags the user set onto c.
func (f *recordFlags) apply(cmd *cobra.Command, c *model.Command) error {
	changed := cmd.Flags().Changed
	if changed("category") {
		c.Category = f.category
	}
	if changed("subcategory") {
		c.Subcategory = f.subcategory
	}
	if changed("title") {
		c.Title = f.title
	}
	if changed("command") {
		text := f.command
		if text == "-" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read command: %w", err)
			}
			text = strings.TrimRight(string(data), "\r\n")
		}
		c.Cmd = text
	}
	if changed("description") {
		c.Description = f.description
	}
	if changed("tags") {
		c.Tags = f.tags
	}
	if changed("favorite") {
		c.IsFavorite = f.favorite
	}
	return nil
}

func newAddCmd(a *app) *cobra.Command {
	var f recordFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a command to the vault",
		Example: `  cmdvault add -c Linux -s Network -t "Show routes" -x "ip route show"
  cmdvault add -c Cisco -s VLAN -t "Create VLAN" -x "vlan {id}" --tags ccna,vlan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c model.Command
			if err := f.apply(cmd, &c); err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}
			if _, err := a.open(); err != nil {
				return err
			}

			warnDuplicate(cmd, a, c.Cmd, 0)
			id, err := a.store.Create(c)
			if err != nil {
				return err
			}
			a.log.Info("command added", "id", id, "title", c.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", successStyle.Render("Added"), id, c.Title)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var f recordFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a command",
		Long:  "Change fields of a command. Only the flags given are changed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.open(); err != nil {
				return err
			}
			c, err := a.store.Get(id)
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &c); err != nil {
				return err
			}

			if cmd.Flags().Changed("command") {
				warnDuplicate(cmd, a, c.Cmd, id)
			}
			if err := a.store.Update(c); err != nil {
				return err
			}
			a.log.Info("command updated", "id", id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", successStyle.Render("Updated"), id, c.Title)
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func warnDuplicate(cmd *cobra.Command, a *app, text string, exclude int64) {
	dup, err := a.store.IsDuplicate(text, exclude)
	if err == nil && dup {
		fmt.Fprintln(cmd.ErrOrStderr(), warnStyle.Render("Warning: the vault already has this command."))
	}
}

func newRmCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a command",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.open(); err != nil {
				return err
			}
			c, err := a.store.Get(id)
			if err != nil {
				return err
			}

			if !force && !confirm(cmd, fmt.Sprintf("Delete #%d %q?", id, c.Title)) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled. Use --force to delete without asking.")
				return nil
			}
			if err := a.store.Delete(id); err != nil {
				return err
			}
			a.log.Info("command deleted", "id", id)
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d %s\n", successStyle.Render("Deleted"), id, c.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation")
	return cmd
}

func newDupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dup <id>",
		Short: "Duplicate a command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.open(); err != nil {
				return err
			}
			newID, err := a.store.Duplicate(id)
			if err != nil {
				return err
			}
			a.log.Info("command duplicated", "id", id, "copy", newID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%d as #%d\n", successStyle.Render("Duplicated"), id, newID)
			return nil
		},
	}
}

func newFavCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "fav <id>",
		Aliases: []string{"favorite"},
		Short:   "Toggle the favorite flag of a command",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			v, err := a.open()
			if err != nil {
				return err
			}
			fav, err := v.ToggleFavorite(id)
			if err != nil {
				return err
			}
			a.log.Info("favorite toggled", "id", id, "favorite", fav)
			if fav {
				fmt.Fprintf(cmd.OutOrStdout(), "★ #%d added to favorites\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "☆ #%d removed from favorites\n", id)
			}
			return nil
		},
	}
}
