package plugin

import (
	"context"
	"testing"

	"github.com/siteporter/siteporter/pkg/site"
)

func newTestContext() *HookContext {
	return NewHookContext(context.Background(), nil, site.Config{Title: "t"}, "/src", "/out", "build-1")
}

func TestHookContextData(t *testing.T) {
	hctx := newTestContext()

	if _, ok := hctx.GetData("missing"); ok {
		t.Error("missing key should not be found")
	}

	hctx.SetData("str", "value")
	hctx.SetData("num", 42)
	hctx.SetData("flag", true)

	if got := hctx.GetString("str"); got != "value" {
		t.Errorf("GetString = %q", got)
	}
	if got := hctx.GetInt("num"); got != 42 {
		t.Errorf("GetInt = %d", got)
	}
	if !hctx.GetBool("flag") {
		t.Error("GetBool should be true")
	}

	// Typed getters fall back on type mismatch.
	if got := hctx.GetString("num"); got != "" {
		t.Errorf("GetString on int = %q, want empty", got)
	}
	if got := hctx.GetInt("str"); got != 0 {
		t.Errorf("GetInt on string = %d, want 0", got)
	}
}

func TestHookContextCurrentPage(t *testing.T) {
	hctx := newTestContext()

	if hctx.CurrentPage() != nil {
		t.Error("no current page expected initially")
	}

	pg := &site.Page{Title: "Hello"}
	hctx.SetCurrentPage(pg)
	if hctx.CurrentPage() != pg {
		t.Error("current page not returned")
	}

	hctx.ClearCurrentPage()
	if hctx.CurrentPage() != nil {
		t.Error("current page should be cleared")
	}
}

func TestHookContextDefaultsLogger(t *testing.T) {
	hctx := newTestContext()
	if hctx.Log == nil {
		t.Fatal("nil logger must be replaced with the default")
	}
}
