package plugin

import (
	"context"
	"log/slog"
	"sync"

	"github.com/siteporter/siteporter/pkg/site"
)

// DataKeyPages is the well-known data bag key under which the pipeline shares
// the full page list ([]*site.Page) with write-stage plugins.
const DataKeyPages = "site.pages"

// HookContext carries the mutable build state shared across every hook
// dispatch of one build. One context is created per pipeline run and threaded
// through all dispatch points, so data written by an early stage is visible to
// plugins in later stages.
//
// Hooks may be dispatched concurrently, so the data bag and the current page
// are guarded internally and accessed through methods.
type HookContext struct {
	// Context is the standard Go context of the build, for cancellation and
	// deadlines. Long-running handlers should check it cooperatively; the host
	// never interrupts a handler.
	Context context.Context

	// Log provides structured logging for plugin operations.
	Log *slog.Logger

	// BuildID uniquely identifies this build.
	BuildID string

	// SiteConfig is a snapshot of the site configuration taken at build start.
	// Plugins must treat it as read-only.
	SiteConfig site.Config

	// SourceDir is the root of the site being converted.
	SourceDir string

	// OutputDir is where the converted site is written.
	OutputDir string

	mu      sync.RWMutex
	data    map[string]any
	current *site.Page
}

// NewHookContext creates a context for one build.
func NewHookContext(
	ctx context.Context,
	log *slog.Logger,
	siteCfg site.Config,
	sourceDir, outputDir, buildID string,
) *HookContext {
	if log == nil {
		log = slog.Default()
	}
	return &HookContext{
		Context:    ctx,
		Log:        log,
		BuildID:    buildID,
		SiteConfig: siteCfg,
		SourceDir:  sourceDir,
		OutputDir:  outputDir,
		data:       make(map[string]any),
	}
}

// SetData stores a value in the shared data bag.
func (hc *HookContext) SetData(key string, value any) {
	hc.mu.Lock()
	hc.data[key] = value
	hc.mu.Unlock()
}

// GetData retrieves a value from the shared data bag.
func (hc *HookContext) GetData(key string) (any, bool) {
	hc.mu.RLock()
	v, ok := hc.data[key]
	hc.mu.RUnlock()
	return v, ok
}

// GetString retrieves a string value from the data bag.
// Returns empty string if the key doesn't exist or is not a string.
func (hc *HookContext) GetString(key string) string {
	v, _ := hc.GetData(key)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// GetBool retrieves a boolean value from the data bag.
// Returns false if the key doesn't exist or is not a boolean.
func (hc *HookContext) GetBool(key string) bool {
	v, _ := hc.GetData(key)
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}

// GetInt retrieves an integer value from the data bag.
// Returns 0 if the key doesn't exist or is not an integer.
func (hc *HookContext) GetInt(key string) int {
	v, _ := hc.GetData(key)
	if n, ok := v.(int); ok {
		return n
	}
	return 0
}

// SetCurrentPage marks the page a per-page dispatch refers to.
func (hc *HookContext) SetCurrentPage(p *site.Page) {
	hc.mu.Lock()
	hc.current = p
	hc.mu.Unlock()
}

// ClearCurrentPage removes the current page marker.
func (hc *HookContext) ClearCurrentPage() {
	hc.mu.Lock()
	hc.current = nil
	hc.mu.Unlock()
}

// CurrentPage returns the page a per-page dispatch refers to, or nil outside
// per-page hooks.
func (hc *HookContext) CurrentPage() *site.Page {
	hc.mu.RLock()
	p := hc.current
	hc.mu.RUnlock()
	return p
}
