package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tind-client/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the response cache",
	Long: `Cache manages the local SQLite database holding server responses.
Entries expire after cache.ttl (default 24h).`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how many responses are cached",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached responses",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func openCache() (*cache.Store, string, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, "", err
	}
	store, err := cache.Open(cfg.Cache)
	if err != nil {
		return nil, "", err
	}
	return store, cfg.Cache.Path, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, path, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), viper.GetString("format"), st, func(w io.Writer) error {
		fmt.Fprintf(w, "Path:    %s\n", path)
		fmt.Fprintf(w, "Entries: %d (%d expired)\n", st.Entries, st.Expired)
		_, err := fmt.Fprintf(w, "Size:    %d bytes\n", st.Bytes)
		return err
	})
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	expiredOnly, _ := cmd.Flags().GetBool("expired")

	store, _, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	var n int64
	if expiredOnly {
		n, err = store.Prune(cmd.Context())
	} else {
		n, err = store.Clear(cmd.Context())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached responses\n", n)
	return nil
}

func init() {
	cacheClearCmd.Flags().Bool("expired", false, "only remove expired entries")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(cacheCmd)
}
