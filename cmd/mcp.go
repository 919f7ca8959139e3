package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/devlog/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the DevLog MCP server",
	Long:  `Launch an MCP server that allows AI agents to query the ingested commit history via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Keep stdout clean when running in MCP mode since stdio
		// carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		return mcp.StartMCPServer(rootCtx, st, cfg.ResultLimit)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
