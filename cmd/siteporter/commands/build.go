package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/siteporter/siteporter/internal/build"
	"github.com/siteporter/siteporter/internal/config"
	"github.com/siteporter/siteporter/internal/events"
	"github.com/siteporter/siteporter/internal/history"
	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/migrate"
	"github.com/siteporter/siteporter/internal/source"
)

const summaryRounding = time.Millisecond

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source string `short:"s" help:"Source site directory or git URL (overrides config)"`
	Output string `short:"o" help:"Output directory (overrides config)"`
	Engine string `short:"e" help:"Migration engine (default: auto-detect)"`
	Clean  bool   `help:"Remove output entries the build did not produce"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if b.Source != "" {
		cfg.Migrate.Source = b.Source
	}
	if b.Output != "" {
		cfg.Migrate.Output = b.Output
	}
	if b.Engine != "" {
		cfg.Migrate.Engine = b.Engine
	}
	if b.Clean {
		cfg.Migrate.Clean = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	summary, err := runBuild(ctx, cfg)
	if summary != nil {
		fmt.Printf("Build %s: %s, %d page(s) in %s\n",
			summary.BuildID, summary.Result, summary.Pages, summary.Duration.Round(summaryRounding))
	}
	return err
}

// runBuild wires source resolution, the plugin runtime, eventing, and history
// around one pipeline run. Shared with the preview command's initial setup.
func runBuild(ctx context.Context, cfg *config.Config) (*build.Summary, error) {
	resolved, err := source.Resolve(ctx, cfg.Migrate.Source, cfg.Migrate.Token)
	if err != nil {
		return nil, fmt.Errorf("resolve source: %w", err)
	}
	defer func() {
		if cerr := resolved.Cleanup(); cerr != nil {
			slog.Warn("source cleanup failed", logfields.Error(cerr))
		}
	}()

	engine, err := migrate.Select(cfg.Migrate.Engine, resolved.Dir)
	if err != nil {
		return nil, err
	}

	manager, err := newPluginManager(cfg, nil)
	if err != nil {
		return nil, fmt.Errorf("load plugins: %w", err)
	}
	defer func() {
		if uerr := manager.UnloadAll(); uerr != nil {
			slog.Warn("plugin unload failed", logfields.Error(uerr))
		}
	}()

	bus, closeBus, err := newBus(cfg)
	if err != nil {
		return nil, err
	}
	defer closeBus()

	summary, buildErr := build.Run(ctx, build.Options{
		SourceDir: resolved.Dir,
		OutputDir: cfg.Migrate.Output,
		Site:      cfg.Site,
		Engine:    engine,
		Plugins:   manager,
		Bus:       bus,
		Clean:     cfg.Migrate.Clean,
	})

	recordHistory(ctx, cfg, len(manager.ListPlugins()), summary)
	return summary, buildErr
}

// newBus builds the event bus, attaching the NATS publisher when configured.
func newBus(cfg *config.Config) (*events.Bus, func(), error) {
	bus := events.NewBus()
	if cfg.Events.NATSURL == "" {
		return bus, func() {}, nil
	}
	pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
	if err != nil {
		return nil, nil, fmt.Errorf("connect event broker: %w", err)
	}
	pub.Attach(bus)
	return bus, pub.Close, nil
}

// recordHistory appends the run to the history store when enabled. History
// failures never fail the build.
func recordHistory(ctx context.Context, cfg *config.Config, pluginCount int, summary *build.Summary) {
	if !cfg.History.Enabled || summary == nil {
		return
	}
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		slog.Warn("history store open failed", logfields.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	rec := history.Record{
		BuildID:   summary.BuildID,
		StartedAt: summary.StartedAt,
		Duration:  summary.Duration,
		Engine:    summary.Engine,
		Pages:     summary.Pages,
		Plugins:   pluginCount,
		Result:    summary.Result,
	}
	if summary.Err != nil {
		rec.Error = summary.Err.Error()
	}
	if err := store.Append(ctx, rec); err != nil {
		slog.Warn("history append failed", logfields.Error(err))
	}
}
