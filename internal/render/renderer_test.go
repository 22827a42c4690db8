package render

import (
	"strings"
	"testing"
)

func TestRenderBasicMarkdown(t *testing.T) {
	r := New()

	out, err := r.Render([]byte("# Title\n\nSome **bold** text.\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "Title") {
		t.Errorf("heading missing: %s", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Errorf("emphasis missing: %s", html)
	}
}

func TestRenderGFMTable(t *testing.T) {
	r := New()

	out, err := r.Render([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<table>") {
		t.Errorf("GFM table not rendered: %s", out)
	}
}

func TestRenderRawHTMLPassthrough(t *testing.T) {
	r := New()

	out, err := r.Render([]byte("<div class=\"note\">hi</div>\n"))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), `<div class="note">`) {
		t.Errorf("raw HTML should pass through: %s", out)
	}
}

func TestRenderCaches(t *testing.T) {
	r := New()
	body := []byte("cached body\n")

	if _, err := r.Render(body); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if r.CacheLen() != 1 {
		t.Errorf("cache len = %d, want 1", r.CacheLen())
	}

	// Same body hits the cache; different body adds an entry.
	if _, err := r.Render(body); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if r.CacheLen() != 1 {
		t.Errorf("cache len after repeat = %d, want 1", r.CacheLen())
	}

	if _, err := r.Render([]byte("other body\n")); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if r.CacheLen() != 2 {
		t.Errorf("cache len = %d, want 2", r.CacheLen())
	}

	r.Purge()
	if r.CacheLen() != 0 {
		t.Errorf("cache len after purge = %d", r.CacheLen())
	}
}
