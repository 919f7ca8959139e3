package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/internal/web"
)

// serveCmd starts the interactive dashboard.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interactive dashboard server.",
	Long: `Serve a local web dashboard over the ingested history with filterable
KPI tiles, activity charts and a commit table.

Examples:
  # Serve on the default address
  devlog serve

  # Serve a MySQL-backed store on another port
  devlog serve --addr :9090 --backend mysql --db-connect 'user:pass@tcp(localhost:3306)/devlog'`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		st, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open store", err)
		}
		defer func() { _ = st.Close() }()

		fmt.Fprintf(os.Stderr, "Serving dashboard on %s\n", cfg.Addr)
		server := web.NewServer(st, cfg.ResultLimit)
		if err := server.Run(cfg.Addr); err != nil {
			contract.LogFatal("Cannot serve dashboard", err)
		}
	},
}
