package builtin

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	xhtml "golang.org/x/net/html"

	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

const (
	defaultDescriptionLength = 160
	sitemapName              = "sitemap.xml"
	robotsName               = "robots.txt"
)

// SEOPlugin derives meta descriptions and OpenGraph tags per rendered page
// and emits sitemap.xml plus robots.txt before the output tree is written.
type SEOPlugin struct {
	plugin.BasePlugin
	descLen   int
	openGraph bool
	sitemap   bool
}

// NewSEOPlugin creates the plugin with defaults; Initialize applies options.
func NewSEOPlugin() *SEOPlugin {
	return &SEOPlugin{descLen: defaultDescriptionLength, openGraph: true, sitemap: true}
}

func (p *SEOPlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "seo",
		Version:     "1.0.0",
		Author:      "siteporter",
		Description: "Meta description and OpenGraph injection, sitemap and robots generation",
		License:     "MIT",
	}
}

func (p *SEOPlugin) Initialize(cfg plugin.PluginConfig) error {
	p.descLen = cfg.IntOption("description_length", defaultDescriptionLength)
	if p.descLen <= 0 {
		return fmt.Errorf("description_length must be positive, got %d", p.descLen)
	}
	p.openGraph = cfg.BoolOption("open_graph", true)
	p.sitemap = cfg.BoolOption("sitemap", true)
	return nil
}

func (p *SEOPlugin) Hooks() []plugin.Hook {
	return []plugin.Hook{plugin.HookPostRender, plugin.HookPreWrite}
}

func (p *SEOPlugin) HandleHook(hctx *plugin.HookContext, h plugin.Hook) plugin.HookResult {
	switch h {
	case plugin.HookPostRender:
		return p.decoratePage(hctx)
	case plugin.HookPreWrite:
		return p.emitSiteFiles(hctx)
	}
	return plugin.Continue()
}

// decoratePage derives a description from the page's rendered HTML and, when
// the document has a head, injects meta and OpenGraph tags. Headless
// fragments keep the description in frontmatter for the writer to use.
func (p *SEOPlugin) decoratePage(hctx *plugin.HookContext) plugin.HookResult {
	pg := hctx.CurrentPage()
	if pg == nil || len(pg.HTML) == 0 {
		return plugin.Continue()
	}

	desc := p.describe(pg)
	if desc == "" {
		return plugin.Continue()
	}
	pg.SetMeta("description", desc)

	idx := bytes.Index(pg.HTML, []byte("</head>"))
	if idx < 0 {
		return plugin.Continue()
	}

	var tags bytes.Buffer
	fmt.Fprintf(&tags, "<meta name=\"description\" content=%q>\n", desc)
	if p.openGraph {
		fmt.Fprintf(&tags, "<meta property=\"og:title\" content=%q>\n", pg.Title)
		fmt.Fprintf(&tags, "<meta property=\"og:description\" content=%q>\n", desc)
		fmt.Fprintf(&tags, "<meta property=\"og:url\" content=%q>\n", pg.Permalink(hctx.SiteConfig.BaseURL))
		fmt.Fprintf(&tags, "<meta property=\"og:type\" content=\"article\">\n")
	}

	out := make([]byte, 0, len(pg.HTML)+tags.Len())
	out = append(out, pg.HTML[:idx]...)
	out = append(out, tags.Bytes()...)
	out = append(out, pg.HTML[idx:]...)
	pg.HTML = out
	return plugin.Continue()
}

// describe returns the page's description: an explicit frontmatter field, or
// the first paragraph of the rendered body truncated to the configured length.
func (p *SEOPlugin) describe(pg *site.Page) string {
	if v, ok := pg.Meta("description"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}

	text := firstParagraphText(pg.HTML)
	if text == "" {
		return ""
	}
	if len(text) > p.descLen {
		cut := strings.LastIndex(text[:p.descLen], " ")
		if cut <= 0 {
			cut = p.descLen
		}
		text = strings.TrimRight(text[:cut], " ,;:") + "…"
	}
	return text
}

// firstParagraphText extracts the text content of the first <p> element.
func firstParagraphText(rendered []byte) string {
	doc, err := xhtml.Parse(bytes.NewReader(rendered))
	if err != nil {
		return ""
	}

	var para *xhtml.Node
	var find func(*xhtml.Node)
	find = func(n *xhtml.Node) {
		if para != nil {
			return
		}
		if n.Type == xhtml.ElementNode && n.Data == "p" {
			para = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)
	if para == nil {
		return ""
	}

	var sb strings.Builder
	var collect func(*xhtml.Node)
	collect = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(para)
	return strings.Join(strings.Fields(html.UnescapeString(sb.String())), " ")
}

// emitSiteFiles writes sitemap.xml and robots.txt into the output directory
// from the page list the render stage shared through the context bag.
func (p *SEOPlugin) emitSiteFiles(hctx *plugin.HookContext) plugin.HookResult {
	if !p.sitemap {
		return plugin.Continue()
	}

	v, ok := hctx.GetData(plugin.DataKeyPages)
	if !ok {
		return plugin.Continue()
	}
	pages, ok := v.([]*site.Page)
	if !ok || len(pages) == 0 {
		return plugin.Continue()
	}

	var sm bytes.Buffer
	sm.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sm.WriteString(`<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">` + "\n")
	for _, pg := range pages {
		if pg.Draft {
			continue
		}
		fmt.Fprintf(&sm, "  <url><loc>%s</loc>", html.EscapeString(pg.Permalink(hctx.SiteConfig.BaseURL)))
		if !pg.Date.IsZero() {
			fmt.Fprintf(&sm, "<lastmod>%s</lastmod>", pg.Date.Format("2006-01-02"))
		}
		sm.WriteString("</url>\n")
	}
	sm.WriteString("</urlset>\n")

	if err := writeOutputFile(hctx.OutputDir, sitemapName, sm.Bytes()); err != nil {
		return plugin.Fail(err)
	}

	robots := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/%s\n",
		strings.TrimSuffix(hctx.SiteConfig.BaseURL, "/"), sitemapName)
	if err := writeOutputFile(hctx.OutputDir, robotsName, []byte(robots)); err != nil {
		return plugin.Fail(err)
	}

	hctx.Log.Debug("seo artifacts written", "pages", len(pages))
	return plugin.Continue()
}

func writeOutputFile(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- published site artifact
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
