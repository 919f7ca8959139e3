package cmd

import (
	"github.com/spf13/cobra"

	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/internal/outwriter"
	"github.com/huangsam/devlog/schema"
)

// reportCmd renders aggregates over the ingested history.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show commit totals, top authors and most changed files.",
	Long: `Query the ingested history and print KPI totals, the top authors,
the most changed files and the most recent commits.

All filters compose: a date window, an author list and a file pattern can
be combined to narrow every section of the report.

Examples:
  # Report over the whole ingested history
  devlog report

  # Only Go files touched by one author this year
  devlog report --start 2026-01-01 --authors sam@example.com --pattern '%.go'

  # Export the filtered commit rows to CSV
  devlog report --output csv --output-file commits.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		st, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open store", err)
		}
		defer func() { _ = st.Close() }()

		report := &schema.Report{Filter: cfg.Filter}
		if report.KPIs, err = st.KPIs(rootCtx, cfg.Filter); err != nil {
			contract.LogFatal("Cannot query KPIs", err)
		}
		if report.Authors, err = st.TopAuthors(rootCtx, cfg.Filter, cfg.ResultLimit); err != nil {
			contract.LogFatal("Cannot query top authors", err)
		}
		if report.Files, err = st.TopFiles(rootCtx, cfg.Filter, cfg.ResultLimit); err != nil {
			contract.LogFatal("Cannot query top files", err)
		}
		if report.Commits, err = st.ListCommits(rootCtx, cfg.Filter, cfg.ResultLimit); err != nil {
			contract.LogFatal("Cannot query commits", err)
		}

		if err := outwriter.NewOutWriter().WriteReport(report, cfg); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}
