// Package config loads exporter settings from the environment and an
// optional YAML file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults applied when neither the environment nor a config file provides
// a value.
const (
	DefaultPagesFile    = "pages.txt"
	DefaultOutputDir    = "exported"
	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 300 * time.Second
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultUserAgent    = "flypdf/0.1.0"
	DefaultLogLevel     = "info"
)

// Config holds every setting a batch run needs. It is built once at startup
// and never mutated afterwards.
type Config struct {
	// BaseURL is the site root the wiki lives under, e.g.
	// "https://example.atlassian.net". Required.
	BaseURL string `mapstructure:"base_url"`

	// Username is the account identifier, usually an e-mail address.
	// Required.
	Username string `mapstructure:"username"`

	// APIToken is the API token or password paired with Username. Required.
	APIToken string `mapstructure:"api_token"`

	// PagesFile is the plain-text page list, one URL per line.
	PagesFile string `mapstructure:"pages_file"`

	// OutputDir receives one PDF per successfully exported page.
	OutputDir string `mapstructure:"output_dir"`

	// PollInterval is the fixed delay between task status probes.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// PollTimeout is the maximum wait per export task. Large pages can need
	// more than the default.
	PollTimeout time.Duration `mapstructure:"poll_timeout"`

	// HTTPTimeout bounds every single wiki API request.
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// DownloadTimeout bounds the artifact download. Zero means no limit.
	DownloadTimeout time.Duration `mapstructure:"download_timeout"`

	// UserAgent is sent on every wiki API request.
	UserAgent string `mapstructure:"user_agent"`

	// MetricsAddr, when non-empty, serves Prometheus metrics on that
	// address for the duration of the run.
	MetricsAddr string `mapstructure:"metrics_addr"`

	// LogLevel and LogPretty configure log output.
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

// MissingFieldsError lists required settings that were not supplied. It
// aborts the run before any page is touched.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Fields, ", "))
}

// Load builds the configuration from the environment and, when path is
// non-empty, a config file. Environment values win over file values. The
// credential variables keep the names the original tooling used
// (CONFLUENCE_BASE_URL, CONFLUENCE_USER, CONFLUENCE_PASS); everything else
// is FLYPDF_ prefixed, e.g. FLYPDF_OUTPUT_DIR or FLYPDF_POLL_TIMEOUT.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("pages_file", DefaultPagesFile)
	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("poll_interval", DefaultPollInterval)
	v.SetDefault("poll_timeout", DefaultPollTimeout)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("download_timeout", time.Duration(0))
	v.SetDefault("user_agent", DefaultUserAgent)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_pretty", false)

	v.SetEnvPrefix("FLYPDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credential variables predate the FLYPDF_ prefix.
	_ = v.BindEnv("base_url", "CONFLUENCE_BASE_URL")
	_ = v.BindEnv("username", "CONFLUENCE_USER")
	_ = v.BindEnv("api_token", "CONFLUENCE_PASS")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate reports required fields that are missing or unusable.
func (c *Config) Validate() error {
	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "base_url (CONFLUENCE_BASE_URL)")
	}
	if c.Username == "" {
		missing = append(missing, "username (CONFLUENCE_USER)")
	}
	if c.APIToken == "" {
		missing = append(missing, "api_token (CONFLUENCE_PASS)")
	}

	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}

	// A zero interval would hammer the progress endpoint.
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %s", c.PollInterval)
	}
	return nil
}
