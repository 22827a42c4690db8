package plugin

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// State names the manager's position in its lifecycle.
type State string

const (
	StateUnloaded  State = "unloaded"
	StateLoading   State = "loading"
	StateReady     State = "ready"
	StateReloading State = "reloading"
)

// DefaultDir is the plugin directory scanned when none is configured.
const DefaultDir = "_plugins"

// reservedStem is a config-file stem that never names a plugin.
const reservedStem = "config"

// ManagerConfig selects whether the plugin system runs at all and where it
// looks for plugin artifacts.
type ManagerConfig struct {
	// Enabled gates the whole subsystem. A disabled manager loads nothing and
	// every dispatch continues immediately.
	Enabled bool `yaml:"enabled"`

	// Dir is the plugin directory. Empty means DefaultDir.
	Dir string `yaml:"dir"`
}

// Recorder receives dispatch observability signals. It is declared here, not
// in the host's metrics package, so plugin builds do not pull the metrics
// dependency graph.
type Recorder interface {
	ObserveHookDuration(hook string, d time.Duration)
	IncHookResult(hook, result string)
	SetPluginsLoaded(n int)
}

// noopRecorder is the default when no recorder is injected.
type noopRecorder struct{}

func (noopRecorder) ObserveHookDuration(string, time.Duration) {}
func (noopRecorder) IncHookResult(string, string)              {}
func (noopRecorder) SetPluginsLoaded(int)                      {}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithRecorder sets the dispatch metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.rec = r
		}
	}
}

// WithBuiltins seeds the loader's built-in factory table.
func WithBuiltins(factories map[string]Factory) Option {
	return func(m *Manager) {
		for name, f := range factories {
			m.loader.RegisterBuiltin(name, f)
		}
	}
}

// handler is one bucket entry: a plugin plus the priority its config gave it.
type handler struct {
	plugin   Plugin
	priority int
}

// Manager orchestrates plugin scanning, loading, hook-index construction, and
// dispatch. One RWMutex guards the registry and the hook index together:
// ExecuteHook holds the read lock for the whole dispatch so concurrent
// dispatches from parallel pipeline work proceed simultaneously, while
// LoadPlugins, UnloadAll, and ReloadPlugins hold the write lock and therefore
// wait for in-flight dispatches to drain.
type Manager struct {
	cfg    ManagerConfig
	log    *slog.Logger
	rec    Recorder
	loader *Loader

	mu       sync.RWMutex
	state    State
	registry *Registry
	hooks    map[Hook][]handler
}

// NewManager creates a manager. LoadPlugins must be called before dispatching
// does anything.
func NewManager(cfg ManagerConfig, opts ...Option) *Manager {
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir
	}
	m := &Manager{
		cfg:      cfg,
		log:      slog.Default(),
		rec:      noopRecorder{},
		state:    StateUnloaded,
		registry: NewRegistry(),
		hooks:    make(map[Hook][]handler),
	}
	m.loader = NewLoader(cfg.Dir, m.log)
	for _, opt := range opts {
		opt(m)
	}
	m.loader.log = m.log
	return m
}

// State returns the manager's lifecycle state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Count returns the number of loaded plugins.
func (m *Manager) Count() int {
	return m.registry.Count()
}

// LoadPlugins scans the plugin directory, loads every enabled plugin, and
// builds the hook index. Individual plugin failures are logged and skipped;
// only environmental failures (an unreadable directory) abort the call.
func (m *Manager) LoadPlugins() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked()
}

func (m *Manager) loadLocked() error {
	if !m.cfg.Enabled {
		m.log.Debug("plugin system disabled, nothing to load")
		m.state = StateReady
		return nil
	}
	m.state = StateLoading

	entries, err := os.ReadDir(m.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.Info("plugin directory absent, continuing without plugins", "dir", m.cfg.Dir)
			m.state = StateReady
			return nil
		}
		m.state = StateUnloaded
		return fmt.Errorf("read plugin directory %s: %w", m.cfg.Dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	priorities := make(map[string]int)
	seen := make(map[string]bool)

	for _, fname := range names {
		ext := filepath.Ext(fname)
		if ext != ".yml" && ext != ".yaml" {
			continue
		}
		stem := strings.TrimSuffix(fname, ext)
		if stem == reservedStem || strings.HasPrefix(stem, "_") {
			continue
		}
		seen[stem] = true

		cfg, err := LoadPluginConfig(filepath.Join(m.cfg.Dir, fname))
		if err != nil {
			m.log.Warn("plugin config unreadable, skipping", "plugin", stem, "error", err)
			continue
		}
		m.loadOne(stem, cfg, priorities)
	}

	// Plugin sources without a config of their own load with defaults
	// (native modules) or are acknowledged (foreign runtimes), so a migrated
	// site's _plugins dir never silently drops an entry.
	for _, fname := range names {
		ext := filepath.Ext(fname)
		if ext != ".so" && ext != ".rb" && ext != ".js" {
			continue
		}
		stem := strings.TrimSuffix(fname, ext)
		if seen[stem] || strings.HasPrefix(stem, "_") {
			continue
		}
		seen[stem] = true
		m.loadOne(stem, DefaultPluginConfig(), priorities)
	}

	m.rebuildHookIndexLocked(priorities)
	m.rec.SetPluginsLoaded(m.registry.Count())
	m.state = StateReady
	m.log.Info("plugins loaded", "count", m.registry.Count(), "dir", m.cfg.Dir)
	return nil
}

// loadOne runs one plugin through load, register. Failures log and skip.
func (m *Manager) loadOne(name string, cfg PluginConfig, priorities map[string]int) {
	if !cfg.Enabled {
		m.log.Debug("plugin disabled, skipping", "plugin", name)
		return
	}

	p, err := m.loader.Load(name, cfg)
	if err != nil {
		m.log.Error("plugin load failed, skipping", "plugin", name, "error", err)
		return
	}
	if p == nil {
		return
	}

	if err := m.registry.Register(p); err != nil {
		m.log.Error("plugin registration failed, skipping", "plugin", name, "error", err)
		return
	}
	priorities[p.Metadata().Name] = cfg.Priority
	m.log.Debug("plugin registered", "plugin", p.Metadata().String(), "priority", cfg.Priority)
}

// rebuildHookIndexLocked captures each plugin's subscriptions once and sorts
// every bucket by priority, highest first, preserving load order within equal
// priorities.
func (m *Manager) rebuildHookIndexLocked(priorities map[string]int) {
	m.hooks = make(map[Hook][]handler)
	for _, p := range m.registry.Plugins() {
		prio := priorities[p.Metadata().Name]
		for _, h := range p.Hooks() {
			m.hooks[h] = append(m.hooks[h], handler{plugin: p, priority: prio})
		}
	}
	for h := range m.hooks {
		bucket := m.hooks[h]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].priority > bucket[j].priority
		})
	}
}

// ExecuteHook dispatches a hook to its bucket in index order, threading hctx
// through every plugin so earlier effects are visible to later plugins. Stop
// halts the remaining bucket; an error result aborts with the plugin's error
// untouched. Dispatch holds the read lock so loads cannot interleave.
func (m *Manager) ExecuteHook(h Hook, hctx *HookContext) HookResult {
	if !m.cfg.Enabled {
		return Continue()
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	bucket := m.hooks[h]
	if len(bucket) == 0 {
		return Continue()
	}

	for _, hd := range bucket {
		res := m.invoke(hd.plugin, h, hctx)
		m.rec.IncHookResult(h.String(), string(res.Action))

		switch res.Action {
		case ActionStop:
			m.log.Debug("hook propagation stopped",
				"hook", h.String(), "plugin", hd.plugin.Metadata().Name)
			return res
		case ActionError:
			m.log.Error("hook handler failed",
				"hook", h.String(), "plugin", hd.plugin.Metadata().Name, "error", res.Err)
			return res
		}
	}
	return Continue()
}

// invoke runs one handler with timing and panic containment. A panicking
// plugin becomes an error result instead of tearing down the build.
func (m *Manager) invoke(p Plugin, h Hook, hctx *HookContext) (res HookResult) {
	t0 := time.Now()
	defer func() {
		m.rec.ObserveHookDuration(h.String(), time.Since(t0))
		if r := recover(); r != nil {
			res = Fail(NewPluginError(p.Metadata().Name, "handle_hook", fmt.Errorf("panic: %v", r)))
		}
	}()
	return p.HandleHook(hctx, h)
}

// ListPlugins returns metadata for every loaded plugin in load order.
func (m *Manager) ListPlugins() []PluginMetadata {
	m.mu.RLock()
	defer m.mu.RUnlock()

	plugins := m.registry.Plugins()
	out := make([]PluginMetadata, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, p.Metadata())
	}
	return out
}

// Get retrieves a loaded plugin by name.
func (m *Manager) Get(name string) (Plugin, bool) {
	return m.registry.Get(name)
}

// UnloadAll cleans up every plugin and drops the hook index. The manager
// returns to the unloaded state; Cleanup errors are joined, not fatal.
func (m *Manager) UnloadAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unloadLocked()
}

func (m *Manager) unloadLocked() error {
	err := m.registry.UnloadAll()
	m.hooks = make(map[Hook][]handler)
	m.rec.SetPluginsLoaded(0)
	m.state = StateUnloaded
	if err != nil {
		m.log.Warn("plugin cleanup reported errors", "error", err)
	}
	return err
}

// ReloadPlugins is a full rebuild: unload everything, then load again. Any
// in-memory plugin state not persisted by the plugin itself is lost.
func (m *Manager) ReloadPlugins() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateReloading
	if err := m.unloadLocked(); err != nil {
		m.log.Warn("unload before reload reported errors", "error", err)
	}
	return m.loadLocked()
}
