// Package migrate holds the per-source-engine conversion rules. Engines are
// mechanical: they map a source ecosystem's layout and frontmatter
// conventions onto the output layout, page by page.
package migrate

import (
	"fmt"

	"github.com/siteporter/siteporter/pkg/site"
)

// Engine converts pages from one source ecosystem.
type Engine interface {
	// Name is the engine identifier used in configuration ("jekyll").
	Name() string

	// Detect reports whether dir looks like a site of this engine.
	Detect(dir string) bool

	// Convert rewrites one page in place: frontmatter mapping, slug, output
	// path.
	Convert(p *site.Page) error
}

// Engines lists the available engines in detection order.
func Engines() []Engine {
	return []Engine{NewJekyllEngine()}
}

// Select returns the engine for name, or auto-detects from dir when name is
// empty.
func Select(name, dir string) (Engine, error) {
	if name != "" {
		for _, e := range Engines() {
			if e.Name() == name {
				return e, nil
			}
		}
		return nil, fmt.Errorf("unknown migration engine: %s", name)
	}
	for _, e := range Engines() {
		if e.Detect(dir) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no migration engine recognized the source at %s", dir)
}
