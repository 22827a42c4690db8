package builtin

import (
	"encoding/xml"
	"fmt"
	"sort"
	"time"

	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

const (
	defaultFeedLimit = 20
	defaultFeedPath  = "feed.xml"
)

// FeedPlugin emits an Atom feed of the newest pages before the output tree is
// written.
type FeedPlugin struct {
	plugin.BasePlugin
	limit    int
	feedPath string
}

// NewFeedPlugin creates the plugin with defaults; Initialize applies options.
func NewFeedPlugin() *FeedPlugin {
	return &FeedPlugin{limit: defaultFeedLimit, feedPath: defaultFeedPath}
}

func (p *FeedPlugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        "feed",
		Version:     "1.0.0",
		Author:      "siteporter",
		Description: "Atom feed generation from the newest pages",
		License:     "MIT",
	}
}

func (p *FeedPlugin) Initialize(cfg plugin.PluginConfig) error {
	p.limit = cfg.IntOption("limit", defaultFeedLimit)
	if p.limit <= 0 {
		return fmt.Errorf("limit must be positive, got %d", p.limit)
	}
	p.feedPath = cfg.StringOption("feed_path", defaultFeedPath)
	return nil
}

func (p *FeedPlugin) Hooks() []plugin.Hook {
	return []plugin.Hook{plugin.HookPreWrite}
}

// Atom document shapes for encoding/xml.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	ID      string      `xml:"id"`
	Updated string      `xml:"updated"`
	Author  *atomAuthor `xml:"author,omitempty"`
	Entries []atomEntry `xml:"entry"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomEntry struct {
	Title   string   `xml:"title"`
	Link    atomLink `xml:"link"`
	ID      string   `xml:"id"`
	Updated string   `xml:"updated"`
	Summary string   `xml:"summary,omitempty"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

func (p *FeedPlugin) HandleHook(hctx *plugin.HookContext, h plugin.Hook) plugin.HookResult {
	if h != plugin.HookPreWrite {
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

	newest := make([]*site.Page, 0, len(pages))
	for _, pg := range pages {
		if !pg.Draft {
			newest = append(newest, pg)
		}
	}
	sort.SliceStable(newest, func(i, j int) bool {
		return newest[i].Date.After(newest[j].Date)
	})
	if len(newest) > p.limit {
		newest = newest[:p.limit]
	}

	feed := atomFeed{
		Xmlns:   "http://www.w3.org/2005/Atom",
		Title:   hctx.SiteConfig.Title,
		ID:      hctx.SiteConfig.BaseURL + "/",
		Updated: time.Now().UTC().Format(time.RFC3339),
	}
	if hctx.SiteConfig.Author != "" {
		feed.Author = &atomAuthor{Name: hctx.SiteConfig.Author}
	}
	for _, pg := range newest {
		link := pg.Permalink(hctx.SiteConfig.BaseURL)
		entry := atomEntry{
			Title:   pg.Title,
			Link:    atomLink{Href: link},
			ID:      link,
			Updated: pg.Date.UTC().Format(time.RFC3339),
		}
		if v, ok := pg.Meta("description"); ok {
			if s, ok := v.(string); ok {
				entry.Summary = s
			}
		}
		feed.Entries = append(feed.Entries, entry)
	}

	data, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return plugin.Fail(fmt.Errorf("marshal atom feed: %w", err))
	}
	data = append([]byte(xml.Header), data...)

	if err := writeOutputFile(hctx.OutputDir, p.feedPath, data); err != nil {
		return plugin.Fail(err)
	}
	hctx.Log.Debug("feed written", "path", p.feedPath, "entries", len(feed.Entries))
	return plugin.Continue()
}
