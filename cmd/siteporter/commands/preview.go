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
	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/migrate"
	"github.com/siteporter/siteporter/internal/preview"
	"github.com/siteporter/siteporter/internal/source"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Addr         string        `short:"a" help:"Listen address (overrides config)"`
	Source       string        `short:"s" help:"Source site directory or git URL (overrides config)"`
	Output       string        `short:"o" help:"Output directory (overrides config)"`
	Engine       string        `short:"e" help:"Migration engine (default: auto-detect)"`
	RebuildEvery time.Duration `help:"Periodic rebuild interval on top of file watching (overrides config)"`
	Metrics      bool          `help:"Expose Prometheus metrics at /metrics"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if p.Addr != "" {
		cfg.Preview.Addr = p.Addr
	}
	if p.Source != "" {
		cfg.Migrate.Source = p.Source
	}
	if p.Output != "" {
		cfg.Migrate.Output = p.Output
	}
	if p.Engine != "" {
		cfg.Migrate.Engine = p.Engine
	}
	if p.RebuildEvery > 0 {
		cfg.Preview.RebuildEvery = p.RebuildEvery
	}
	if p.Metrics {
		cfg.Preview.Metrics = true
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	resolved, err := source.Resolve(ctx, cfg.Migrate.Source, cfg.Migrate.Token)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	defer func() {
		if cerr := resolved.Cleanup(); cerr != nil {
			slog.Warn("source cleanup failed", logfields.Error(cerr))
		}
	}()

	engine, err := migrate.Select(cfg.Migrate.Engine, resolved.Dir)
	if err != nil {
		return err
	}

	registry, recorder := newMetrics(cfg.Preview.Metrics)

	manager, err := newPluginManager(cfg, recorder)
	if err != nil {
		return fmt.Errorf("load plugins: %w", err)
	}
	defer func() {
		if uerr := manager.UnloadAll(); uerr != nil {
			slog.Warn("plugin unload failed", logfields.Error(uerr))
		}
	}()

	bus, closeBus, err := newBus(cfg)
	if err != nil {
		return err
	}
	defer closeBus()

	return preview.Run(ctx, preview.Options{
		Addr:      cfg.Preview.Addr,
		SourceDir: resolved.Dir,
		OutputDir: cfg.Migrate.Output,
		Build: build.Options{
			Site:     cfg.Site,
			Engine:   engine,
			Plugins:  manager,
			Bus:      bus,
			Recorder: recorder,
			Clean:    cfg.Migrate.Clean,
		},
		RebuildEvery: cfg.Preview.RebuildEvery,
		Registry:     registry,
	})
}
