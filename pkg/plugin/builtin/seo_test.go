package builtin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

func seoContext(t *testing.T) *plugin.HookContext {
	t.Helper()
	cfg := site.Config{Title: "Test Site", BaseURL: "https://example.com"}
	return plugin.NewHookContext(context.Background(), nil, cfg, t.TempDir(), t.TempDir(), "b1")
}

func initializedSEO(t *testing.T, opts map[string]any) *SEOPlugin {
	t.Helper()
	p := NewSEOPlugin()
	cfg := plugin.DefaultPluginConfig()
	cfg.Options = opts
	require.NoError(t, p.Initialize(cfg))
	return p
}

func TestSEOHooks(t *testing.T) {
	p := NewSEOPlugin()
	assert.Equal(t, []plugin.Hook{plugin.HookPostRender, plugin.HookPreWrite}, p.Hooks())
}

func TestSEOInitializeRejectsBadLength(t *testing.T) {
	p := NewSEOPlugin()
	cfg := plugin.DefaultPluginConfig()
	cfg.Options = map[string]any{"description_length": -1}
	assert.Error(t, p.Initialize(cfg))
}

func TestSEOInjectsMetaBeforeHead(t *testing.T) {
	p := initializedSEO(t, nil)
	hctx := seoContext(t)

	pg := &site.Page{
		Title:      "Hello World",
		OutputPath: "posts/hello.html",
		HTML: []byte("<html><head><title>Hello</title></head>" +
			"<body><p>This is the opening paragraph of the post.</p></body></html>"),
	}
	hctx.SetCurrentPage(pg)

	res := p.HandleHook(hctx, plugin.HookPostRender)
	require.False(t, res.Failed(), "post_render: %v", res.Err)

	html := string(pg.HTML)
	assert.Contains(t, html, `<meta name="description" content="This is the opening paragraph of the post."`)
	assert.Contains(t, html, `og:title`)
	assert.Contains(t, html, `og:url`)
	// Injection lands inside the head element.
	assert.Less(t, strings.Index(html, "og:title"), strings.Index(html, "</head>"))

	desc, ok := pg.Meta("description")
	require.True(t, ok)
	assert.Equal(t, "This is the opening paragraph of the post.", desc)
}

func TestSEOTruncatesLongDescriptions(t *testing.T) {
	p := initializedSEO(t, map[string]any{"description_length": 30})
	hctx := seoContext(t)

	pg := &site.Page{
		Title: "Long",
		HTML:  []byte("<html><head></head><body><p>word word word word word word word word word word</p></body></html>"),
	}
	hctx.SetCurrentPage(pg)

	res := p.HandleHook(hctx, plugin.HookPostRender)
	require.False(t, res.Failed())

	desc, _ := pg.Meta("description")
	s := desc.(string)
	assert.LessOrEqual(t, len(s), 35)
	assert.True(t, strings.HasSuffix(s, "…"), "truncated description should end with ellipsis: %q", s)
}

func TestSEOHeadlessFragmentKeepsFrontmatterOnly(t *testing.T) {
	p := initializedSEO(t, nil)
	hctx := seoContext(t)

	pg := &site.Page{Title: "Frag", HTML: []byte("<p>Just a fragment.</p>")}
	hctx.SetCurrentPage(pg)

	res := p.HandleHook(hctx, plugin.HookPostRender)
	require.False(t, res.Failed())
	assert.NotContains(t, string(pg.HTML), "meta name")

	desc, ok := pg.Meta("description")
	require.True(t, ok)
	assert.Equal(t, "Just a fragment.", desc)
}

func TestSEOWritesSitemapAndRobots(t *testing.T) {
	p := initializedSEO(t, nil)
	hctx := seoContext(t)

	pages := []*site.Page{
		{Title: "One", OutputPath: "posts/one.md", Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{Title: "Two", OutputPath: "posts/two.md"},
		{Title: "Hidden", OutputPath: "posts/hidden.md", Draft: true},
	}
	hctx.SetData(plugin.DataKeyPages, pages)

	res := p.HandleHook(hctx, plugin.HookPreWrite)
	require.False(t, res.Failed(), "pre_write: %v", res.Err)

	sm, err := os.ReadFile(filepath.Join(hctx.OutputDir, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sm), "https://example.com/posts/one/")
	assert.Contains(t, string(sm), "<lastmod>2024-05-01</lastmod>")
	assert.NotContains(t, string(sm), "hidden", "drafts stay out of the sitemap")

	robots, err := os.ReadFile(filepath.Join(hctx.OutputDir, "robots.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(robots), "Sitemap: https://example.com/sitemap.xml")
}

func TestSEOSitemapDisabled(t *testing.T) {
	p := initializedSEO(t, map[string]any{"sitemap": false})
	hctx := seoContext(t)
	hctx.SetData(plugin.DataKeyPages, []*site.Page{{Title: "One", OutputPath: "one.md"}})

	res := p.HandleHook(hctx, plugin.HookPreWrite)
	require.False(t, res.Failed())

	_, err := os.Stat(filepath.Join(hctx.OutputDir, "sitemap.xml"))
	assert.True(t, os.IsNotExist(err))
}
