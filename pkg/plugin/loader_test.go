package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderNotFound(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)

	_, err := l.Load("ghost", DefaultPluginConfig())
	if err == nil {
		t.Fatal("unknown plugin must fail")
	}
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error should wrap ErrNotFound, got %v", err)
	}
}

func TestLoaderBuiltinFactory(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)
	fake := newFakePlugin("built")
	l.RegisterBuiltin("built", func() Plugin { return fake })

	p, err := l.Load("built", DefaultPluginConfig())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p != Plugin(fake) {
		t.Error("loader should return the factory's instance")
	}
	if fake.initialized != 1 {
		t.Errorf("Initialize called %d times, want 1", fake.initialized)
	}
}

func TestLoaderBuiltinShadowsFiles(t *testing.T) {
	dir := t.TempDir()
	// A native artifact with the same name must lose to the built-in table.
	if err := os.WriteFile(filepath.Join(dir, "built.so"), []byte("not a real module"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(dir, nil)
	l.RegisterBuiltin("built", func() Plugin { return newFakePlugin("built") })

	if _, err := l.Load("built", DefaultPluginConfig()); err != nil {
		t.Fatalf("builtin resolution should not touch the bad artifact: %v", err)
	}
}

func TestLoaderInitializeFailureDiscardsInstance(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)
	fake := newFakePlugin("flaky")
	fake.initErr = fmt.Errorf("bad config")
	l.RegisterBuiltin("flaky", func() Plugin { return fake })

	p, err := l.Load("flaky", DefaultPluginConfig())
	if err == nil {
		t.Fatal("Initialize failure must surface")
	}
	if p != nil {
		t.Error("failed plugin must not be returned")
	}
	var perr *PluginError
	if !errors.As(err, &perr) || perr.Op != "initialize" {
		t.Errorf("want PluginError{Op: initialize}, got %v", err)
	}
}

func TestLoaderInitializePanicRecovered(t *testing.T) {
	l := NewLoader(t.TempDir(), nil)
	l.RegisterBuiltin("explosive", func() Plugin { return &panickyInitPlugin{} })

	p, err := l.Load("explosive", DefaultPluginConfig())
	if err == nil {
		t.Fatal("panicking Initialize must become an error, not a crash")
	}
	if p != nil {
		t.Error("no plugin expected after panic")
	}
}

func TestLoaderForeignRuntimeAcknowledged(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"legacy.rb", "widget.js"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("puts 'hi'"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	l := NewLoader(dir, nil)

	for _, name := range []string{"legacy", "widget"} {
		p, err := l.Load(name, DefaultPluginConfig())
		if err != nil {
			t.Errorf("foreign-runtime plugin %s: unexpected error %v", name, err)
		}
		if p != nil {
			t.Errorf("foreign-runtime plugin %s must produce no instance", name)
		}
	}
}

func TestLoaderBadNativeArtifact(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "corrupt.so"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(dir, nil)

	_, err := l.Load("corrupt", DefaultPluginConfig())
	if err == nil {
		t.Fatal("corrupt shared object must fail to load")
	}
	var perr *PluginError
	if !errors.As(err, &perr) || perr.Op != "load" {
		t.Errorf("want PluginError{Op: load}, got %v", err)
	}
}

// panickyInitPlugin panics in Initialize to exercise loader containment.
type panickyInitPlugin struct{ BasePlugin }

func (panickyInitPlugin) Metadata() PluginMetadata {
	return PluginMetadata{Name: "explosive", Version: "0.0.1"}
}

func (panickyInitPlugin) Initialize(PluginConfig) error {
	panic("kaboom")
}
