package plugin

import "testing"

// TestFromNameRoundTrip verifies name identity for every built-in hook.
func TestFromNameRoundTrip(t *testing.T) {
	for _, h := range BuiltinHooks() {
		if got := FromName(h.String()); got != h {
			t.Errorf("FromName(%q) = %q, want %q", h.String(), got, h)
		}
	}
}

// TestFromNameCustom verifies unrecognized names become custom hooks.
func TestFromNameCustom(t *testing.T) {
	h := FromName("x")
	if h != Hook("x") {
		t.Errorf("FromName(\"x\") = %q, want custom hook \"x\"", h)
	}
	if h.IsBuiltin() {
		t.Error("custom hook should not be builtin")
	}
	if got := FromName(h.String()); got != h {
		t.Errorf("custom round trip failed: %q", got)
	}
}

// TestBuiltinHooks verifies the fixed built-in set.
func TestBuiltinHooks(t *testing.T) {
	hooks := BuiltinHooks()
	if len(hooks) != 12 {
		t.Fatalf("expected 12 builtin hooks, got %d", len(hooks))
	}
	for _, h := range hooks {
		if !h.IsBuiltin() {
			t.Errorf("hook %q should be builtin", h)
		}
	}
}

func TestHookPrePost(t *testing.T) {
	tests := []struct {
		hook  Hook
		isPre bool
	}{
		{HookPreInit, true},
		{HookPostInit, false},
		{HookPreRender, true},
		{HookPostClean, false},
	}
	for _, tt := range tests {
		if got := tt.hook.IsPre(); got != tt.isPre {
			t.Errorf("%q IsPre() = %v, want %v", tt.hook, got, tt.isPre)
		}
		if got := tt.hook.IsPost(); got == tt.isPre {
			t.Errorf("%q IsPost() = %v, want %v", tt.hook, got, !tt.isPre)
		}
	}

	// Custom hooks are neither pre nor post even with matching prefixes.
	if Hook("pre_custom").IsPre() {
		t.Error("custom hook should not report IsPre")
	}
}
