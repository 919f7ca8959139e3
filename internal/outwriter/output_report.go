package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/huangsam/devlog/internal/contract"
	"github.com/huangsam/devlog/schema"
)

// WriteReportResults outputs a report, dispatching based on the output format configured.
func WriteReportResults(report *schema.Report, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeReportJSONResults(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeReportCSVResults(report, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable tables
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTables(report, cfg, w)
		}, "Wrote table")
	}
	return nil
}

// writeReportJSONResults handles opening the file and calling the JSON writer.
func writeReportJSONResults(report *schema.Report, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON")
}

// writeReportCSVResults writes the filtered commit detail rows in CSV format.
func writeReportCSVResults(report *schema.Report, cfg *contract.Config) error {
	header := []string{
		"hash",
		"authored_at",
		"author_name",
		"author_email",
		"message",
		"additions",
		"deletions",
		"files_changed",
		"is_fix",
		"error_tags",
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(csvWriter *csv.Writer) error {
			for _, c := range report.Commits {
				rec := []string{
					c.Hash,
					c.AuthoredAt,
					c.AuthorName,
					c.AuthorEmail,
					c.Message,
					strconv.Itoa(c.Additions),
					strconv.Itoa(c.Deletions),
					strconv.Itoa(c.FilesChanged),
					strconv.FormatBool(c.IsFix),
					c.ErrorTags,
				}
				if err := csvWriter.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeReportTables generates and writes the human-readable report.
func writeReportTables(report *schema.Report, cfg *contract.Config, writer io.Writer) error {
	if err := writeKPIBlock(report, writer); err != nil {
		return err
	}
	if err := writeAuthorTable(report.Authors, writer); err != nil {
		return err
	}
	if err := writeFileTable(report.Files, cfg, writer); err != nil {
		return err
	}
	return writeCommitTable(report.Commits, writer)
}

func writeKPIBlock(report *schema.Report, w io.Writer) error {
	k := report.KPIs
	fixShare := 0.0
	if k.Commits > 0 {
		fixShare = float64(k.FixCommits) / float64(k.Commits) * 100
	}
	_, err := fmt.Fprintf(w, "Commits: %s | Additions: %s | Deletions: %s | Fix commits: %s (%.1f%%)\n\n",
		contract.AccentColor.Sprint(k.Commits),
		contract.AccentColor.Sprint(k.Additions),
		contract.AccentColor.Sprint(k.Deletions),
		contract.FixColor.Sprint(k.FixCommits),
		fixShare,
	)
	return err
}

func writeAuthorTable(authors []schema.AuthorActivity, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Top authors:"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Author", "Email", "Commits"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, a := range authors {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			a.Name,
			a.Email,
			strconv.Itoa(a.Commits),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeFileTable(files []schema.FileActivity, cfg *contract.Config, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Most changed files:"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Commits"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxPath := getMaxTablePathWidth(cfg)
	var data [][]string
	for i, f := range files {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(f.Path, maxPath),
			strconv.Itoa(f.Commits),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeCommitTable(commits []schema.Commit, w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Recent commits:"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Hash", "Date", "Author", "Adds", "Dels", "Files", "Fix", "Message"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, c := range commits {
		data = append(data, []string{
			c.Hash[:8],
			c.AuthoredAt[:10],
			c.AuthorName,
			strconv.Itoa(c.Additions),
			strconv.Itoa(c.Deletions),
			strconv.Itoa(c.FilesChanged),
			contract.FixLabel(c.IsFix),
			c.Message,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// WriteSummaryResults prints the ingestion summary, dispatching on the output format.
func WriteSummaryResults(sum schema.Summary, cfg *contract.Config) error {
	if cfg.Output == schema.JSONOut {
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, sum)
		}, "Wrote JSON")
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Parsed %d commits (%d skipped), wrote %d commits and %d file rows (%d failed)\n",
			sum.CommitsParsed, sum.CommitsSkipped, sum.CommitsWritten, sum.FilesWritten, sum.CommitsFailed)
		return err
	}, "Wrote summary")
}
