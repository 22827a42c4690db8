package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/siteporter/siteporter/internal/config"
	"github.com/siteporter/siteporter/internal/metrics"
	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/plugin/builtin"
)

// Global carries state shared by subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI is the root command definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"siteporter.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build      BuildCmd   `cmd:"" help:"Migrate the configured source site into the output directory"`
	Preview    PreviewCmd `cmd:"" help:"Serve the migrated site locally with live reload"`
	Plugins    PluginsCmd `cmd:"" help:"Inspect the plugin runtime"`
	History    HistoryCmd `cmd:"" help:"Show recent build runs"`
	Init       InitCmd    `cmd:"" help:"Write a starter configuration"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; sets up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// newPluginManager builds and loads the plugin manager from config. The
// caller owns the returned manager and should UnloadAll when done.
func newPluginManager(cfg *config.Config, rec plugin.Recorder) (*plugin.Manager, error) {
	opts := []plugin.Option{plugin.WithBuiltins(builtin.Builtins())}
	if rec != nil {
		opts = append(opts, plugin.WithRecorder(rec))
	}
	m := plugin.NewManager(cfg.Plugins, opts...)
	if err := m.LoadPlugins(); err != nil {
		return nil, err
	}
	return m, nil
}

// newMetrics builds a Prometheus registry and recorder pair when enabled.
func newMetrics(enabled bool) (*prom.Registry, metrics.Recorder) {
	if !enabled {
		return nil, metrics.NoopRecorder{}
	}
	reg := prom.NewRegistry()
	return reg, metrics.NewPrometheusRecorder(reg)
}
