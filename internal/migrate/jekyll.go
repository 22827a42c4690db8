package migrate

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/siteporter/siteporter/pkg/site"
)

// postNameRe matches Jekyll's _posts naming: YYYY-MM-DD-title.md.
var postNameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// JekyllEngine converts Jekyll sites: date-stamped posts, layout and
// category frontmatter conventions.
type JekyllEngine struct{}

func NewJekyllEngine() *JekyllEngine { return &JekyllEngine{} }

func (e *JekyllEngine) Name() string { return "jekyll" }

// Detect recognizes a Jekyll site by its _config.yml or _posts directory.
func (e *JekyllEngine) Detect(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, "_config.yml")); err == nil {
		return true
	}
	st, err := os.Stat(filepath.Join(dir, "_posts"))
	return err == nil && st.IsDir()
}

// Convert rewrites one Jekyll page: extracts date and slug from the _posts
// filename, maps layout to type, normalizes categories/tags, and assigns the
// output path.
func (e *JekyllEngine) Convert(p *site.Page) error {
	rel := path.Clean(filepath.ToSlash(p.RelPath))
	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	isPost := strings.HasPrefix(rel, "_posts/")

	if isPost {
		m := postNameRe.FindStringSubmatch(base)
		if m == nil {
			return fmt.Errorf("post %s does not follow YYYY-MM-DD-title naming", rel)
		}
		date, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			return fmt.Errorf("post %s: %w", rel, err)
		}
		if p.Date.IsZero() {
			p.Date = date
		}
		base = m[2]
	}

	if p.Slug == "" {
		p.Slug = Slugify(base)
	}

	if isPost {
		p.OutputPath = path.Join("posts", p.Slug+".md")
	} else {
		p.OutputPath = path.Join(path.Dir(rel), p.Slug+".md")
		if strings.HasPrefix(p.OutputPath, "./") {
			p.OutputPath = p.OutputPath[2:]
		}
	}

	// Frontmatter mapping runs last so a permalink override beats the
	// computed output path.
	e.mapFrontMatter(p, isPost)
	return nil
}

// mapFrontMatter translates Jekyll's frontmatter dialect.
func (e *JekyllEngine) mapFrontMatter(p *site.Page, isPost bool) {
	if p.FrontMatter == nil {
		p.FrontMatter = map[string]any{}
	}

	// layout → type; Jekyll's "post"/"page" layouts become content types.
	if layout, ok := p.FrontMatter["layout"].(string); ok {
		delete(p.FrontMatter, "layout")
		p.FrontMatter["type"] = layout
	} else if isPost {
		p.FrontMatter["type"] = "post"
	}

	// Jekyll allows categories/tags as space-separated strings; normalize to
	// lists.
	for _, key := range []string{"categories", "tags"} {
		switch v := p.FrontMatter[key].(type) {
		case string:
			if v == "" {
				delete(p.FrontMatter, key)
				break
			}
			parts := strings.Fields(v)
			list := make([]any, len(parts))
			for i, s := range parts {
				list[i] = s
			}
			p.FrontMatter[key] = list
		}
	}

	// Jekyll permalink overrides win over the computed output path.
	if permalink, ok := p.FrontMatter["permalink"].(string); ok && permalink != "" {
		delete(p.FrontMatter, "permalink")
		clean := strings.Trim(permalink, "/")
		if clean != "" {
			p.OutputPath = path.Join(clean, "index.md")
		}
	}

	if p.Title == "" {
		if title, ok := p.FrontMatter["title"].(string); ok {
			p.Title = title
		} else {
			p.Title = strings.ReplaceAll(p.Slug, "-", " ")
		}
	}
	p.FrontMatter["title"] = p.Title

	if published, ok := p.FrontMatter["published"].(bool); ok {
		delete(p.FrontMatter, "published")
		p.Draft = !published
		p.FrontMatter["draft"] = p.Draft
	}
	if !p.Date.IsZero() {
		p.FrontMatter["date"] = p.Date.Format("2006-01-02")
	}
	p.FrontMatter["slug"] = p.Slug
}
