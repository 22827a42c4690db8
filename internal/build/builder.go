package build

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/siteporter/siteporter/internal/events"
	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/metrics"
	"github.com/siteporter/siteporter/internal/migrate"
	"github.com/siteporter/siteporter/internal/render"
	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

// Options configures one build run.
type Options struct {
	SourceDir string
	OutputDir string
	Site      site.Config
	Engine    migrate.Engine

	// Plugins is optional; a nil manager means no hook dispatch.
	Plugins *plugin.Manager

	// Renderer is optional. Passing the same renderer across watch-mode
	// rebuilds keeps its cache warm.
	Renderer *render.Renderer

	Bus      *events.Bus
	Recorder metrics.Recorder
	Log      *slog.Logger

	// Clean removes output entries this build did not produce.
	Clean bool

	// Observer receives per-stage progress callbacks. Optional.
	Observer Observer
}

// Run executes the full migration pipeline once and reports a summary. The
// returned error, when non-nil, is the stage error that aborted the run; the
// summary is valid either way.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = render.New()
	}

	st := &State{
		BuildID:     uuid.NewString(),
		StartedAt:   time.Now(),
		SourceDir:   opts.SourceDir,
		OutputDir:   opts.OutputDir,
		Site:        opts.Site,
		Engine:      opts.Engine,
		Renderer:    renderer,
		Plugins:     opts.Plugins,
		Bus:         opts.Bus,
		Recorder:    rec,
		CleanOutput: opts.Clean,
	}
	st.HookCtx = plugin.NewHookContext(ctx, log, opts.Site, opts.SourceDir, opts.OutputDir, st.BuildID)

	log.Info("build started",
		logfields.BuildID(st.BuildID),
		logfields.Engine(opts.Engine.Name()),
		logfields.Path(opts.SourceDir))
	publish(st, events.BuildStarted{
		BuildID:   st.BuildID,
		Engine:    opts.Engine.Name(),
		SourceDir: opts.SourceDir,
		StartedAt: st.StartedAt,
	})

	stages := NewPipeline().
		Add(StageInit, hooked(StageInit, stageInit)).
		Add(StageRead, hooked(StageRead, stageRead)).
		Add(StageGenerate, hooked(StageGenerate, stageGenerate)).
		Add(StageRender, stageRender).
		Add(StageWrite, hooked(StageWrite, stageWrite)).
		AddIf(opts.Clean, StageClean, hooked(StageClean, stageClean)).
		Build()

	err := RunStages(ctx, st, stages, opts.Observer)
	dur := time.Since(st.StartedAt)

	outcome := outcomeOf(err)
	rec.ObserveBuildDuration(dur)
	rec.IncBuildOutcome(outcome)

	summary := &Summary{
		BuildID:   st.BuildID,
		Engine:    opts.Engine.Name(),
		Pages:     len(st.Pages),
		StartedAt: st.StartedAt,
		Duration:  dur,
		Result:    outcome,
		Err:       err,
	}

	finished := events.BuildFinished{
		BuildID:  st.BuildID,
		Result:   outcome,
		Pages:    summary.Pages,
		Duration: dur,
	}
	if err != nil {
		finished.Error = err.Error()
	}
	publish(st, finished)

	if err != nil {
		log.Error("build failed",
			logfields.BuildID(st.BuildID),
			logfields.DurationMS(float64(dur.Milliseconds())),
			logfields.Error(err))
	} else {
		log.Info("build finished",
			logfields.BuildID(st.BuildID),
			logfields.Count(summary.Pages),
			logfields.DurationMS(float64(dur.Milliseconds())))
	}
	return summary, err
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	if se, ok := err.(*StageError); ok && se.Kind == StageErrorCanceled {
		return "canceled"
	}
	return "failed"
}

func publish(st *State, ev events.Event) {
	if st.Bus == nil {
		return
	}
	if err := st.Bus.Publish(ev); err != nil {
		slog.Warn("event publish failed", logfields.BuildID(st.BuildID), logfields.Error(err))
	}
}
