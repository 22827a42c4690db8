package plugin

import "sync"

// fakePlugin is an in-process test double satisfying the full contract
// without touching dynamic-library machinery.
type fakePlugin struct {
	BasePlugin
	mu sync.Mutex

	name    string
	hooks   []Hook
	handle  func(hctx *HookContext, h Hook) HookResult
	initErr error

	initialized int
	cleanedUp   int
	calls       []Hook
}

func newFakePlugin(name string, hooks ...Hook) *fakePlugin {
	return &fakePlugin{name: name, hooks: hooks}
}

func (f *fakePlugin) Metadata() PluginMetadata {
	return PluginMetadata{Name: f.name, Version: "0.1.0", Author: "test"}
}

func (f *fakePlugin) Initialize(cfg PluginConfig) error {
	f.mu.Lock()
	f.initialized++
	f.mu.Unlock()
	return f.initErr
}

func (f *fakePlugin) Hooks() []Hook {
	return f.hooks
}

func (f *fakePlugin) HandleHook(hctx *HookContext, h Hook) HookResult {
	f.mu.Lock()
	f.calls = append(f.calls, h)
	f.mu.Unlock()
	if f.handle != nil {
		return f.handle(hctx, h)
	}
	return Continue()
}

func (f *fakePlugin) Cleanup() error {
	f.mu.Lock()
	f.cleanedUp++
	f.mu.Unlock()
	return nil
}

func (f *fakePlugin) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
