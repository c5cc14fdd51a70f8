package commands

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/ragdown/internal/config"
	"github.com/jmylchreest/ragdown/pkg/cleaner"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Clean an HTML fragment and convert it to Markdown",
	Long: `Run the cleaning pipeline over raw HTML read from a file or stdin,
without a document store.

Examples:
  ragdown clean page.html
  curl -s https://example.com | ragdown clean --html --stats`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)

	flags := cleanCmd.Flags()
	flags.String("base-url", "", "site URL for absolutizing relative links")
	flags.Bool("html", false, "output cleaned HTML instead of Markdown")
	flags.Bool("no-images", false, "drop image references")
	flags.Bool("stats", false, "print cleaning statistics to stderr")
	flags.StringP("output", "o", "", "output file (default: stdout)")
}

func runClean(cmd *cobra.Command, args []string) error {
	initLogger()

	var (
		input []byte
		err   error
	)
	if len(args) == 1 && args[0] != "-" {
		input, err = os.ReadFile(args[0])
	} else {
		input, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	baseURL, _ := cmd.Flags().GetString("base-url")
	htmlOnly, _ := cmd.Flags().GetBool("html")
	noImages, _ := cmd.Flags().GetBool("no-images")
	showStats, _ := cmd.Flags().GetBool("stats")
	path, _ := cmd.Flags().GetString("output")

	var converter cleaner.Cleaner
	switch {
	case htmlOnly:
		converter = cleaner.NewNoop()
	case viper.GetString("converter") == config.ConverterParser:
		converter = cleaner.NewParserMarkdown()
	}

	pipeline := cleaner.NewPipeline(cleaner.PipelineConfig{
		BaseURL:       baseURL,
		PreserveLinks: baseURL != "",
		IncludeImages: !noImages || htmlOnly,
		Converter:     converter,
	})
	out, err := pipeline.Clean(string(input))
	if err != nil {
		return err
	}

	if showStats {
		res := cleaner.NewChromeStripper(cleaner.DefaultChromeConfig()).CleanWithStats(string(input))
		fmt.Fprintf(os.Stderr, "Pipeline:  %s\n", pipeline.Name())
		fmt.Fprintf(os.Stderr, "Input:     %s\n", humanize.Bytes(uint64(len(input))))
		fmt.Fprintf(os.Stderr, "Output:    %s\n", humanize.Bytes(uint64(len(out))))
		fmt.Fprintf(os.Stderr, "Chrome:    %s elements removed\n", humanize.Comma(int64(res.Stats.TotalElementsRemoved())))
		for _, rule := range slices.Sorted(maps.Keys(res.Stats.RuleMatches)) {
			fmt.Fprintf(os.Stderr, "  %-20s %s\n", rule, humanize.Comma(int64(res.Stats.RuleMatches[rule])))
		}
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "Warning:   %s\n", w)
		}
	}

	return writeResult(path, "text", out)
}
