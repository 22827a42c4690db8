// Package render turns markdown page bodies into HTML. Rendering is cached by
// content hash so watch-mode rebuilds skip unchanged pages.
package render

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const (
	defaultCacheSize = 512
	defaultCacheTTL  = 30 * time.Minute
)

// Renderer renders markdown to HTML with an expiring LRU cache in front.
type Renderer struct {
	md    goldmark.Markdown
	cache *lru.LRU[string, []byte]
}

// New creates a renderer. Raw HTML in the source passes through, matching the
// behavior of the generators siteporter migrates from.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		cache: lru.NewLRU[string, []byte](defaultCacheSize, nil, defaultCacheTTL),
	}
}

// Render converts a markdown body to HTML, serving repeated identical bodies
// from cache.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	key := contentKey(body)
	if html, ok := r.cache.Get(key); ok {
		return html, nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	out := buf.Bytes()
	r.cache.Add(key, out)
	return out, nil
}

// Purge drops the cache, forcing the next render of every page.
func (r *Renderer) Purge() {
	r.cache.Purge()
}

// CacheLen reports how many rendered bodies are cached.
func (r *Renderer) CacheLen() int {
	return r.cache.Len()
}

func contentKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
