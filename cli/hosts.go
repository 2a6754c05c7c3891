package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"cmdvault/flow"
	"cmdvault/mcp"
)

func newFlowCmd(a *app) *cobra.Command {
	var icon string

	cmd := &cobra.Command{
		Use:   "flow <request>",
		Short: "Answer a Flow Launcher JSON-RPC request",
		Long: `Answer one Flow Launcher JSON-RPC request given as the first argument
and write the response to stdout. Flow starts the plugin once per request.`,
		Hidden: true,
		Args:   cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.open()
			if err != nil {
				return err
			}
			h := flow.NewHandler(v, a.clip, flow.SystemOpener{}, a.log, flow.Options{
				Keyword: a.cfg.Flow.Keyword,
				Limit:   a.cfg.Search.Limit,
				Icon:    icon,
			})
			return h.Serve(strings.Join(args, " "), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "Images/app.png", "Icon path reported for results")
	return cmd
}

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the vault to MCP clients over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.open()
			if err != nil {
				return err
			}
			return mcp.Serve(v, a.store, a.cfg.Search.Limit, a.log)
		},
	}
}
