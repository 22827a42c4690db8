package build

import (
	"time"

	"github.com/siteporter/siteporter/internal/events"
	"github.com/siteporter/siteporter/internal/metrics"
	"github.com/siteporter/siteporter/internal/migrate"
	"github.com/siteporter/siteporter/internal/render"
	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

// State is the shared mutable state one build threads through its stages.
type State struct {
	BuildID   string
	StartedAt time.Time
	SourceDir string
	OutputDir string
	Site      site.Config

	// Pages accumulates through read → generate → render → write.
	Pages []*site.Page

	Engine   migrate.Engine
	Renderer *render.Renderer

	// Plugins dispatches the lifecycle hooks; HookCtx is the build-scoped
	// context every dispatch shares.
	Plugins *plugin.Manager
	HookCtx *plugin.HookContext

	Bus      *events.Bus
	Recorder metrics.Recorder

	// CleanOutput enables the clean stage.
	CleanOutput bool

	// StageDurations records per-stage timing for the final report.
	StageDurations map[StageName]time.Duration
}

// Summary is what a finished build reports back to the caller.
type Summary struct {
	BuildID   string
	Engine    string
	Pages     int
	StartedAt time.Time
	Duration  time.Duration
	Result    string
	Err       error
}
