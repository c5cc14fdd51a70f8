package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/ragdown/pkg/document"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear cached Markdown and chunks",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry counts and sample keys",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [id]",
	Short: "Clear the cache, or only one document's entries",
	Long: `Clear every cache entry, or only the Markdown and chunk entries of
one document.

Only persistent backends (redis) outlive a single command, so clearing
is mostly useful with --cache redis.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)

	cacheStatsCmd.Flags().String("format", "text", "output format: text, json, yaml")
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	svc, closeSvc, err := loadService()
	if err != nil {
		return err
	}
	defer closeSvc()

	ctx, cancel := signalContext()
	defer cancel()

	stats, err := svc.CacheStats(ctx)
	if err != nil {
		return err
	}
	health := svc.Health(ctx)

	format, _ := cmd.Flags().GetString("format")
	if format != "text" {
		return writeResult("", format, map[string]any{"cache": stats, "health": health})
	}

	fmt.Fprintf(os.Stdout, "Status:   %s\n", health.Status)
	if health.CacheError != "" {
		fmt.Fprintf(os.Stdout, "Error:    %s\n", health.CacheError)
	}
	fmt.Fprintf(os.Stdout, "Enabled:  %t\n", stats.Enabled)
	fmt.Fprintf(os.Stdout, "Entries:  %s\n", humanize.Comma(int64(stats.Count)))
	fmt.Fprintf(os.Stdout, "TTL:      %s\n", stats.TTL.Round(time.Second))
	for _, k := range stats.SampleKeys {
		fmt.Fprintf(os.Stdout, "  %s\n", k)
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	svc, closeSvc, err := loadService()
	if err != nil {
		return err
	}
	defer closeSvc()

	ctx, cancel := signalContext()
	defer cancel()

	if len(args) == 1 {
		id, err := document.ParseID(args[0])
		if err != nil {
			return err
		}
		if err := svc.Invalidate(ctx, id); err != nil {
			return err
		}
		logInfo("Cache cleared for post %d", id)
		return nil
	}

	n, err := svc.ClearCache(ctx)
	if err != nil {
		return err
	}
	logInfo("All caches cleared (%s entries)", humanize.Comma(int64(n)))
	return nil
}
