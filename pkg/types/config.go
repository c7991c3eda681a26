package types

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Defaults applied by DefaultConfig and by the client when a field is zero.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 8
	DefaultRetryDelay = 15 * time.Second
	DefaultCacheTTL   = 24 * time.Hour
	DefaultUserAgent  = "tind-client/dev"
)

// HTTPConfig holds shared HTTP settings for requests to the catalog server.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "tind-client/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClientConfig holds settings for the catalog client.
type ClientConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// ServerURL is the base URL of the TIND server, e.g. "https://caltech.tind.io".
	ServerURL string `json:"server_url" yaml:"server_url" mapstructure:"server_url"`

	// MaxRetries is how many times a rate-limited request is retried (default 8).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RetryDelay is the fixed pause after a rate-limit response (default 15s).
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay"`

	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond int `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Concurrency bounds parallel lookups in batch mode (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// APIToken is an optional TIND API token sent as "Authorization: Token ...".
	APIToken string `json:"api_token,omitempty" yaml:"api_token,omitempty" mapstructure:"api_token"`
}

// CacheConfig holds settings for the on-disk response cache.
type CacheConfig struct {
	// Enabled turns the cache on.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long a cached response stays valid (default 24h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// Config groups all settings read by the CLI.
type Config struct {
	Client ClientConfig `json:"client" yaml:"client" mapstructure:"client"`
	Cache  CacheConfig  `json:"cache" yaml:"cache" mapstructure:"cache"`
}

// DefaultConfig returns a Config with every default filled in. ServerURL is
// left empty; callers must supply it.
func DefaultConfig() Config {
	cachePath := "tind-cache.db"
	if dir, err := os.UserCacheDir(); err == nil {
		cachePath = filepath.Join(dir, "tind-client", "cache.db")
	}
	return Config{
		Client: ClientConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   DefaultTimeout,
				UserAgent: DefaultUserAgent,
			},
			MaxRetries:  DefaultMaxRetries,
			RetryDelay:  DefaultRetryDelay,
			Concurrency: 4,
		},
		Cache: CacheConfig{
			Path: cachePath,
			TTL:  DefaultCacheTTL,
		},
	}
}

// Validate checks that the client configuration is usable.
func (c ClientConfig) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("%w: server URL is required", ErrInvalidArgument)
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("%w: server URL %q: %v", ErrInvalidArgument, c.ServerURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server URL %q must be an absolute http(s) URL", ErrInvalidArgument, c.ServerURL)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must not be negative", ErrInvalidArgument)
	}
	return nil
}
