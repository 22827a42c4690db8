// Package config loads and validates the siteporter.yaml application
// configuration. Values may reference environment variables with $VAR or
// ${VAR} syntax; a .env file next to the working directory is loaded first.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "siteporter.yaml"

// Config represents the application configuration.
type Config struct {
	Site    site.Config          `yaml:"site"`
	Plugins plugin.ManagerConfig `yaml:"plugins"`
	Migrate MigrateConfig        `yaml:"migrate"`
	Preview PreviewConfig        `yaml:"preview"`
	Events  EventsConfig         `yaml:"events"`
	History HistoryConfig        `yaml:"history"`
}

// MigrateConfig selects the conversion engine and the trees it works on.
type MigrateConfig struct {
	// Engine names the source ecosystem ("jekyll"). Empty means detect.
	Engine string `yaml:"engine,omitempty"`

	// Source is the site to convert: a local directory or a git URL.
	Source string `yaml:"source"`

	// Output is where the converted site is written.
	Output string `yaml:"output"`

	// Token authenticates remote source fetches when Source is a git URL.
	Token string `yaml:"token,omitempty"`

	// Clean removes output entries with no corresponding source page.
	Clean bool `yaml:"clean"`
}

// PreviewConfig configures the local dev server.
type PreviewConfig struct {
	Addr string `yaml:"addr"`

	// RebuildEvery optionally schedules a periodic full rebuild in addition
	// to watch-triggered ones ("10m", "1h"). Empty disables it.
	RebuildEvery time.Duration `yaml:"rebuild_every,omitempty"`

	// Metrics exposes /metrics on the preview server.
	Metrics bool `yaml:"metrics"`
}

// EventsConfig configures optional build-event publishing.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// HistoryConfig configures the build-run history store.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; absence is not an error.
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- path chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "Migrated Site"
	}
	if c.Site.BaseURL == "" {
		c.Site.BaseURL = "http://localhost:1414"
	}
	if c.Site.Language == "" {
		c.Site.Language = "en"
	}
	if c.Plugins.Dir == "" {
		c.Plugins.Dir = plugin.DefaultDir
	}
	if c.Migrate.Source == "" {
		c.Migrate.Source = "."
	}
	if c.Migrate.Output == "" {
		c.Migrate.Output = "./public"
	}
	if c.Preview.Addr == "" {
		c.Preview.Addr = ":1414"
	}
	if c.History.Path == "" {
		c.History.Path = ".siteporter/history.db"
	}
}

// Validate checks cross-field consistency after defaults are applied.
func (c *Config) Validate() error {
	if c.Migrate.Source == c.Migrate.Output {
		return fmt.Errorf("migrate.source and migrate.output must differ")
	}
	if c.Preview.RebuildEvery < 0 {
		return fmt.Errorf("preview.rebuild_every must not be negative")
	}
	if c.Events.NATSURL != "" && c.Events.Subject == "" {
		return fmt.Errorf("events.subject is required when events.nats_url is set")
	}
	return nil
}
