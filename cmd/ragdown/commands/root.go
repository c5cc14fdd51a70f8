// Package commands implements the CLI commands for ragdown.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/ragdown/internal/config"
	"github.com/jmylchreest/ragdown/internal/logger"
	"github.com/jmylchreest/ragdown/internal/output"
	"github.com/jmylchreest/ragdown/internal/service"
	"github.com/jmylchreest/ragdown/pkg/document"
	"github.com/jmylchreest/ragdown/pkg/ragdown"
)

var rootCmd = &cobra.Command{
	Use:   "ragdown",
	Short: "Convert CMS content to clean Markdown and RAG-ready chunks",
	Long: `Ragdown turns WordPress posts and pages into clean Markdown and
splits them into chunks for retrieval-augmented generation.

Documents come from a directory of HTML/Markdown files with YAML
frontmatter, or from a live WordPress site over its REST API.

Examples:
  # Convert a post stored as ./content/42.html
  ragdown markdown 42 --dir ./content

  # Chunk a live post and export it for LlamaIndex
  ragdown chunks 42 --source wordpress --url https://blog.example.com \
      --strategy semantic --export-format llamaindex

  # Compare chunking strategies
  ragdown stats 42

  # Serve the tools to an MCP client over stdio
  ragdown mcp`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()

	// Global flags
	flags.String("config", "", "config file (default $HOME/.ragdown.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "suppress progress output")
	flags.Bool("log-json", false, "log as JSON")

	// Source flags
	flags.String("source", "", "document source: files, wordpress")
	flags.StringP("dir", "d", "", "directory of document files (files source)")
	flags.String("url", "", "WordPress site URL (wordpress source)")
	flags.String("cache", "", "cache backend: memory, redis, none")
	flags.String("converter", "", "HTML to Markdown converter: regex, parser")

	_ = viper.BindPFlag("config", flags.Lookup("config"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("quiet", flags.Lookup("quiet"))
	_ = viper.BindPFlag("log_json", flags.Lookup("log-json"))
	_ = viper.BindPFlag("source.type", flags.Lookup("source"))
	_ = viper.BindPFlag("source.dir", flags.Lookup("dir"))
	_ = viper.BindPFlag("source.url", flags.Lookup("url"))
	_ = viper.BindPFlag("cache.backend", flags.Lookup("cache"))
	_ = viper.BindPFlag("converter", flags.Lookup("converter"))
}

func initConfig() {
	v := viper.GetViper()
	config.Setup(v, v.GetString("config"))
	if err := config.ReadFile(v); err != nil {
		logError("%v", err)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initLogger configures logging from the global flags.
func initLogger() {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
		JSON:  viper.GetBool("log_json"),
	})
}

// loadService builds the service from the merged configuration.
func loadService() (*ragdown.Service, func() error, error) {
	initLogger()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("configuration loaded",
		"source", cfg.Source.Type,
		"cache", cfg.Cache.Backend,
		"converter", cfg.Converter)
	return service.Build(cfg)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// parseIDs converts positional arguments to document ids.
func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := document.ParseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// openOutput returns stdout or the named file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeResult serializes v to path in the given format.
func writeResult(path, format string, v any) error {
	return writeAll(path, format, []any{v})
}

// writeAll serializes several items to path in the given format.
func writeAll(path, format string, items []any) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	w, err := output.NewWriter(out, f)
	if err != nil {
		return err
	}
	if err := w.WriteAll(items); err != nil {
		return err
	}
	return w.Close()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
