package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cmdvault/present"
)

func newQueryCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "query [text...]",
		Aliases: []string{"q", "search"},
		Short:   "Search the vault",
		Long: `Search titles, commands, descriptions and tags.

Operators narrow the result:
  cat:cisco   sub:vlan   tag:ccna   fav:

An empty query lists favorites.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.open()
			if err != nil {
				return err
			}

			raw := strings.Join(args, " ")
			items, err := v.Query(raw)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.Search.Limit
			}
			if limit > 0 && len(items) > limit {
				items = items[:limit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, items)
			}
			if len(items) == 0 {
				suggestions, err := v.Suggest(raw)
				if err != nil {
					return err
				}
				printItems(out, suggestions)
				return nil
			}
			printItems(out, items)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (0 for all)")
	return cmd
}

func printItems(w io.Writer, items []present.Item) {
	width := termWidth()
	for _, item := range items {
		if item.ID == 0 {
			fmt.Fprintln(w, subtitleStyle.Render(item.Title+"  "+item.Subtitle))
			continue
		}

		detail := item.Detail
		if width > 8 {
			detail = present.Truncate(detail, width-8)
		}
		fmt.Fprintf(w, "%s  %s\n", idStyle.Render(fmt.Sprint(item.ID)), titleStyle.Render(item.Title))
		fmt.Fprintf(w, "       %s\n", subtitleStyle.Render(item.Subtitle))
		fmt.Fprintf(w, "       %s\n", commandStyle.Render(detail))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
