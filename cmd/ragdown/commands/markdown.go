package commands

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/pkg/processor"
)

var markdownCmd = &cobra.Command{
	Use:   "markdown <id>...",
	Short: "Convert documents to Markdown",
	Long: `Convert one or more published documents to clean Markdown.

A single document is printed as Markdown. Several documents, or any
structured --format, produce a batch result with per-document errors
(at most 50 documents).

Examples:
  ragdown markdown 42
  ragdown markdown 42 --no-metadata --no-images -o post.md
  ragdown markdown 1 2 3 --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMarkdown,
}

func init() {
	rootCmd.AddCommand(markdownCmd)

	flags := markdownCmd.Flags()
	flags.Bool("no-metadata", false, "omit YAML frontmatter")
	flags.Bool("no-images", false, "drop image references")
	flags.Bool("no-links", false, "keep relative links as they are")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "text", "output format: text, json, jsonl, yaml")
}

func runMarkdown(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return err
	}

	svc, closeSvc, err := loadService()
	if err != nil {
		return err
	}
	defer closeSvc()

	ctx, cancel := signalContext()
	defer cancel()

	noMeta, _ := cmd.Flags().GetBool("no-metadata")
	noImages, _ := cmd.Flags().GetBool("no-images")
	noLinks, _ := cmd.Flags().GetBool("no-links")
	path, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	opts := processor.Options{
		IncludeMetadata: !noMeta,
		IncludeImages:   !noImages,
		PreserveLinks:   !noLinks,
	}

	if len(ids) == 1 && format == "text" {
		md, err := svc.Markdown(ctx, ids[0], opts)
		if err != nil {
			logger.Error("conversion failed", "id", ids[0], "error", err)
			return err
		}
		logInfo("Converted document %d (%s)", ids[0], humanize.Bytes(uint64(len(md))))
		return writeResult(path, format, md)
	}

	res, err := svc.BatchMarkdown(ctx, ids, opts)
	if err != nil {
		return err
	}
	for _, e := range res.Errors {
		logger.Warn("document skipped", "id", e.PostID, "error", e.Error)
	}
	logInfo("Converted %s of %s documents", humanize.Comma(int64(res.SuccessCount)), humanize.Comma(int64(len(ids))))

	if format == "text" {
		items := make([]any, 0, len(res.Results))
		for _, r := range res.Results {
			items = append(items, r.Markdown)
		}
		return writeAll(path, format, items)
	}
	return writeResult(path, format, res)
}
