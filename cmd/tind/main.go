// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the tind CLI, a command-line front end
// to the catalog of a TIND library server.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/humanlog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/tind-client/internal/cache"
	"github.com/pdiddy/tind-client/internal/ratelimit"
	"github.com/pdiddy/tind-client/internal/secrets"
	"github.com/pdiddy/tind-client/pkg/tind"
	"github.com/pdiddy/tind-client/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// apiToken holds the token loaded from .secrets/ at startup.
var apiToken string

// rootCmd is the base command for the tind CLI.
var rootCmd = &cobra.Command{
	Use:   "tind",
	Short: "Look up records and items in a TIND library catalog",
	Long: `tind queries the catalog of a TIND library server. It looks up
bibliographic records by catalog id, finds the record holding an item
barcode, parses MARC XML exported from TIND, and lists the holdings of
each record.

The server is set with --server, the TIND_SERVER_URL environment
variable, or client.server_url in tind.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initLogging(viper.GetBool("verbose"))

		token, err := secrets.APIToken(".secrets/")
		if err != nil {
			return err
		}
		if token != "" {
			slog.Debug("loaded API token from .secrets/")
		}
		apiToken = token
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./tind.yaml or ~/.config/tind-client/tind.yaml)")
	pf.String("server", "", "base URL of the TIND server, e.g. https://caltech.tind.io")
	pf.String("format", "text", "output format: text, json, yaml; records also accept csl and csl-json")
	pf.Bool("no-cache", false, "bypass the response cache")
	pf.BoolP("verbose", "v", false, "log debug details to stderr")

	viper.BindPFlag("client.server_url", pf.Lookup("server"))
	viper.BindPFlag("format", pf.Lookup("format"))
	viper.BindPFlag("no_cache", pf.Lookup("no-cache"))
	viper.BindPFlag("verbose", pf.Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tind")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "tind-client"))
		}
	}

	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("TIND")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("client.server_url", "TIND_SERVER_URL", "TIND_CLIENT_SERVER_URL")
	viper.BindEnv("client.api_token", "TIND_API_TOKEN", "TIND_CLIENT_API_TOKEN")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every configuration key so environment variables
// and Unmarshal see them even when no config file exists.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()
	v.SetDefault("client.server_url", d.Client.ServerURL)
	v.SetDefault("client.timeout", d.Client.Timeout)
	v.SetDefault("client.user_agent", "tind-client/"+version)
	v.SetDefault("client.max_retries", d.Client.MaxRetries)
	v.SetDefault("client.retry_delay", d.Client.RetryDelay)
	v.SetDefault("client.requests_per_second", d.Client.RequestsPerSecond)
	v.SetDefault("client.concurrency", d.Client.Concurrency)
	v.SetDefault("client.api_token", "")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("cache.ttl", d.Cache.TTL)
}

// loadConfig decodes the effective configuration from viper.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	if cfg.Client.APIToken == "" {
		cfg.Client.APIToken = apiToken
	}
	if v.GetBool("no_cache") {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// newClient builds a catalog client from the configuration. The returned
// function releases the cache and must be called when done.
func newClient() (*tind.Client, func(), error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, nil, err
	}
	if cfg.Client.ServerURL == "" {
		return nil, nil, fmt.Errorf("%w: no server configured, use --server or TIND_SERVER_URL", types.ErrInvalidArgument)
	}

	opts := []tind.Option{tind.WithLogger(slog.Default())}
	closer := func() {}

	if cfg.Cache.Enabled {
		store, err := cache.Open(cfg.Cache)
		if err != nil {
			slog.Warn("response cache unavailable", "path", cfg.Cache.Path, "error", err)
		} else {
			opts = append(opts, tind.WithCache(store))
			closer = func() { store.Close() }
		}
	}
	if cfg.Client.RequestsPerSecond > 0 {
		opts = append(opts, tind.WithLimiter(ratelimit.New(cfg.Client.ServerURL, cfg.Client.RequestsPerSecond)))
	}

	client, err := tind.New(cfg.Client, opts...)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return client, closer, nil
}

func initLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		return 2
	case errors.Is(err, types.ErrNotFound):
		return 3
	default:
		return 1
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
