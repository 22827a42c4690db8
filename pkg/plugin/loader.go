package plugin

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	goplugin "plugin"
)

// EntrySymbol is the symbol a native plugin module must export. It must be a
// func() plugin.Plugin constructing a fresh instance.
const EntrySymbol = "NewPlugin"

// Factory constructs a built-in plugin instance.
type Factory func() Plugin

// Loader resolves a logical plugin name to a live, initialized Plugin.
// Resolution consults the built-in factory table first, then scans the
// plugin directory for a native module, then for recognized foreign-runtime
// sources that cannot execute in-process.
//
// Go never unloads an opened module, so a native plugin's code stays mapped
// for the process lifetime; no call from it can outlive its module.
type Loader struct {
	dir      string
	log      *slog.Logger
	builtins map[string]Factory
}

// NewLoader creates a loader probing the given plugin directory.
func NewLoader(dir string, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{dir: dir, log: log, builtins: make(map[string]Factory)}
}

// RegisterBuiltin adds a factory for an in-process plugin. Built-in names are
// host-reserved: they resolve before any file in the plugin directory.
func (l *Loader) RegisterBuiltin(name string, f Factory) {
	if f == nil {
		return
	}
	l.builtins[name] = f
}

// Load resolves name to an initialized plugin. A nil plugin with a nil error
// means the name was acknowledged but produces nothing to run (foreign-runtime
// sources). Initialize failure discards the instance and returns the error.
func (l *Loader) Load(name string, cfg PluginConfig) (Plugin, error) {
	if f, ok := l.builtins[name]; ok {
		return l.initialize(name, f(), cfg)
	}

	soPath := filepath.Join(l.dir, name+".so")
	if fileExists(soPath) {
		p, err := l.openNative(name, soPath)
		if err != nil {
			return nil, err
		}
		return l.initialize(name, p, cfg)
	}

	for _, ext := range []string{".rb", ".js"} {
		if fileExists(filepath.Join(l.dir, name+ext)) {
			l.log.Warn("plugin uses a runtime this host cannot execute, skipping",
				"plugin", name, "artifact", name+ext)
			return nil, nil
		}
	}

	return nil, fmt.Errorf("plugin %s: %w", name, ErrNotFound)
}

// openNative opens a shared object and constructs its plugin. A defective
// module must never crash the host, so panics during open, lookup, or
// construction are recovered into errors.
func (l *Loader) openNative(name, path string) (p Plugin, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			p = nil
			retErr = NewPluginError(name, "load", fmt.Errorf("panic: %v", r))
		}
	}()

	mod, err := goplugin.Open(path)
	if err != nil {
		return nil, NewPluginError(name, "load", fmt.Errorf("open shared object: %w", err))
	}

	sym, err := mod.Lookup(EntrySymbol)
	if err != nil {
		return nil, NewPluginError(name, "load", fmt.Errorf("symbol %s not found: %w", EntrySymbol, err))
	}

	ctor, ok := sym.(func() Plugin)
	if !ok {
		return nil, NewPluginError(name, "load", fmt.Errorf("symbol %s is %T, want func() plugin.Plugin", EntrySymbol, sym))
	}

	p = ctor()
	if p == nil {
		return nil, NewPluginError(name, "load", fmt.Errorf("%s returned nil", EntrySymbol))
	}
	return p, nil
}

// initialize runs the one-time lifecycle entry with panic containment.
func (l *Loader) initialize(name string, p Plugin, cfg PluginConfig) (out Plugin, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			retErr = NewPluginError(name, "initialize", fmt.Errorf("panic: %v", r))
		}
	}()

	if err := p.Initialize(cfg); err != nil {
		return nil, NewPluginError(name, "initialize", err)
	}
	return p, nil
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
