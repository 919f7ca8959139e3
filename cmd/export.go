package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/internal/parquet"
)

// exportCmd dumps the commit store to parquet files.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the commit store to parquet files.",
	Long: `Export all ingested commits and per-file changes to parquet files for
analysis in DuckDB, pandas or a warehouse.

Examples:
  # Export to commits.parquet and commit_files.parquet
  devlog export

  # Export to custom paths
  devlog export --commits-file /tmp/c.parquet --files-file /tmp/f.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		st, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open store", err)
		}
		defer func() { _ = st.Close() }()

		commits, err := st.AllCommits(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot read commits", err)
		}
		fileRows, err := st.AllFileRows(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot read file rows", err)
		}

		commitsFile := viper.GetString("commits-file")
		filesFile := viper.GetString("files-file")
		if err := parquet.WriteCommitsParquet(parquet.ConvertCommits(commits), commitsFile); err != nil {
			contract.LogFatal("Cannot export commits", err)
		}
		if err := parquet.WriteFileChangesParquet(parquet.ConvertFileRows(fileRows), filesFile); err != nil {
			contract.LogFatal("Cannot export file rows", err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d commits to %s and %d file rows to %s\n",
			len(commits), commitsFile, len(fileRows), filesFile)
	},
}
