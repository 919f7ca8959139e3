package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/internal/ingest"
	"github.com/huangsam/devlog/internal/outwriter"
)

// ingestCmd parses git history and loads it into the commit store.
var ingestCmd = &cobra.Command{
	Use:   "ingest [repo-path]",
	Short: "Parse git history into the commit store.",
	Long: `Run git log against a repository and load every commit and per-file
change into the database, classifying fix commits along the way.

Re-running ingestion is safe: commits are upserted by hash, so amended
metadata is refreshed and already-ingested commits are not duplicated.

Examples:
  # Ingest the current directory into ./devlog.db
  devlog ingest

  # Ingest another checkout with a custom vocabulary
  devlog ingest ~/src/website --keywords fix,bug,oops

  # Ingest into MySQL
  devlog ingest --backend mysql --db-connect 'user:pass@tcp(localhost:3306)/devlog'`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		st, err := openStore()
		if err != nil {
			contract.LogFatal("Cannot open store", err)
		}
		defer func() { _ = st.Close() }()

		classifier, err := newClassifier()
		if err != nil {
			contract.LogFatal("Cannot build classifier", err)
		}

		driver := ingest.NewDriver(contract.NewLocalGitClient(), st, classifier)
		sum, err := driver.Run(rootCtx, cfg.RepoPath)
		if err != nil {
			contract.LogFatal("Cannot ingest repository", err)
		}
		if sum.CommitsFailed > 0 {
			contract.LogWarn(fmt.Sprintf("%d commits could not be written", sum.CommitsFailed), nil)
		}
		if err := outwriter.NewOutWriter().WriteSummary(sum, cfg); err != nil {
			contract.LogFatal("Cannot write summary", err)
		}
	},
}
