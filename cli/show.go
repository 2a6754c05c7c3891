package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"cmdvault/model"
	"cmdvault/template"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a command in full",
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

			out, err := renderMarkdown(card(c, a.vault.Engine()), termWidth())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// card formats a record as markdown.
func card(c model.Command, engine template.Engine) string {
	var b strings.Builder

	title := c.Title
	if c.IsFavorite {
		title = "★ " + title
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "**%s** › **%s**  ·  #%d\n\n", c.Category, c.Subcategory, c.ID)
	fmt.Fprintf(&b, "```\n%s\n```\n\n", c.Cmd)

	if c.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", c.Description)
	}
	if names := engine.Extract(c.Cmd); len(names) > 0 {
		b.WriteString("Placeholders: ")
		for i, name := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "`{%s}`", name)
		}
		b.WriteString("\n\n")
	}
	if tags := c.TagSet(); len(tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(tags, ", "))
	}
	if !c.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "_Updated %s_\n", c.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return b.String()
}

// renderMarkdown renders content for a terminal of the given width. Width 0
// means output is not a terminal; the result is then plain text.
func renderMarkdown(content string, width int) (string, error) {
	style := glamour.WithStandardStyle("notty")
	if width > 0 {
		style = glamour.WithAutoStyle()
	} else {
		width = 80
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", err
	}
	return r.Render(content)
}
