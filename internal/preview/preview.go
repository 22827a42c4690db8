// Package preview serves a migrated site locally, rebuilding on source
// changes and pushing livereload notifications to connected browsers.
package preview

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/siteporter/siteporter/internal/build"
	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/render"
)

// Options configures a preview run.
type Options struct {
	Addr      string
	SourceDir string
	OutputDir string

	// Build produces the per-rebuild options; the renderer is shared across
	// rebuilds so the markdown cache stays warm.
	Build build.Options

	// RebuildEvery adds a periodic rebuild on top of the file watcher. Zero
	// disables it.
	RebuildEvery time.Duration

	// Registry enables the /metrics endpoint when non-nil.
	Registry *prom.Registry
}

// buildStatus tracks the latest rebuild outcome for the status endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) get() (hasError bool, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError != nil, bs.lastError, bs.hasGoodBuild
}

// Run builds once, serves the output, and rebuilds on changes until ctx is
// canceled.
func Run(ctx context.Context, opts Options) error {
	hub := NewLiveReloadHub()
	status := &buildStatus{}

	buildOpts := opts.Build
	buildOpts.SourceDir = opts.SourceDir
	buildOpts.OutputDir = opts.OutputDir
	if buildOpts.Renderer == nil {
		buildOpts.Renderer = render.New()
	}

	rebuild := func(ctx context.Context) {
		if _, err := build.Run(ctx, buildOpts); err != nil {
			status.setError(err)
			slog.Warn("rebuild failed", logfields.Error(err))
			hub.Broadcast("error:" + strconv.FormatInt(time.Now().UnixNano(), 10))
			return
		}
		status.setSuccess()
		hub.Broadcast(strconv.FormatInt(time.Now().UnixNano(), 10))
	}

	// Initial build. A failure keeps the server up so the first fix triggers
	// a rebuild.
	if _, err := build.Run(ctx, buildOpts); err != nil {
		slog.Error("initial build failed", logfields.Error(err))
		status.setError(err)
	} else {
		status.setSuccess()
	}

	server := NewServer(opts.Addr, opts.OutputDir, hub, status, opts.Registry)
	if err := server.Start(ctx); err != nil {
		return err
	}

	watcher, err := NewWatcher(opts.SourceDir, rebuild)
	if err != nil {
		stopServer(server)
		return err
	}

	var scheduler gocron.Scheduler
	if opts.RebuildEvery > 0 {
		scheduler, err = gocron.NewScheduler()
		if err != nil {
			stopServer(server)
			return fmt.Errorf("create scheduler: %w", err)
		}
		if _, err := scheduler.NewJob(
			gocron.DurationJob(opts.RebuildEvery),
			gocron.NewTask(watcher.Trigger),
			gocron.WithName("periodic-rebuild"),
		); err != nil {
			stopServer(server)
			return fmt.Errorf("schedule periodic rebuild: %w", err)
		}
		scheduler.Start()
		slog.Info("periodic rebuild scheduled", "every", opts.RebuildEvery.String())
	}

	err = watcher.Run(ctx)

	if scheduler != nil {
		if serr := scheduler.Shutdown(); serr != nil {
			slog.Warn("scheduler shutdown", logfields.Error(serr))
		}
	}
	stopServer(server)
	return err
}

func stopServer(s *Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		slog.Warn("preview server shutdown", logfields.Error(err))
	}
}
