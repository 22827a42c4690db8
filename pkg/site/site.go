// Package site holds the content model shared between the host pipeline and
// plugins. It lives outside internal/ because native plugin builds must be able
// to import the same types the host compiles against.
package site

import (
	"path"
	"strings"
	"time"
)

// Config is the site-level configuration snapshot handed to plugins. Plugins
// must treat it as read-only.
type Config struct {
	Title    string         `yaml:"title"`
	BaseURL  string         `yaml:"base_url"`
	Language string         `yaml:"language"`
	Author   string         `yaml:"author"`
	Params   map[string]any `yaml:"params"`
}

// Param returns a free-form site parameter.
func (c Config) Param(key string) (any, bool) {
	v, ok := c.Params[key]
	return v, ok
}

// Page is a single content document moving through the build pipeline.
// Stages and plugins mutate it in place; within one hook dispatch access is
// strictly sequential.
type Page struct {
	// SourcePath is the absolute path of the originating file.
	SourcePath string
	// RelPath is the path relative to the source root, forward slashes.
	RelPath string
	// OutputPath is where the converted document will be written, relative to
	// the output root. Set by the generate stage.
	OutputPath string

	Slug  string
	Title string
	Date  time.Time
	Draft bool

	// FrontMatter holds the parsed metadata fields. Nil until the read stage
	// has run.
	FrontMatter map[string]any

	// Content is the markdown body without frontmatter.
	Content []byte
	// HTML is the rendered body. Empty until the render stage has run.
	HTML []byte
}

// Permalink returns the page URL under the given base URL. The result always
// uses a trailing slash form for index-style output paths.
func (p *Page) Permalink(base string) string {
	rel := p.OutputPath
	if rel == "" {
		rel = p.RelPath
	}
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	rel = strings.TrimSuffix(rel, "/index")
	if rel == "index" {
		rel = ""
	}
	base = strings.TrimSuffix(base, "/")
	if rel == "" {
		return base + "/"
	}
	return base + "/" + rel + "/"
}

// Meta returns a frontmatter field.
func (p *Page) Meta(key string) (any, bool) {
	if p.FrontMatter == nil {
		return nil, false
	}
	v, ok := p.FrontMatter[key]
	return v, ok
}

// SetMeta sets a frontmatter field, allocating the map on first use.
func (p *Page) SetMeta(key string, v any) {
	if p.FrontMatter == nil {
		p.FrontMatter = make(map[string]any, 4)
	}
	p.FrontMatter[key] = v
}
