package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/siteporter/siteporter/pkg/plugin"
)

const starterConfig = `# siteporter configuration
site:
  title: "My Site"
  base_url: "https://example.com"
  language: "en"
  author: ""

migrate:
  engine: jekyll
  source: "."
  output: "./public"
  clean: true

plugins:
  enabled: true
  dir: "_plugins"

preview:
  addr: ":1414"
  metrics: false

history:
  enabled: true
`

const starterSEOConfig = `# Built-in SEO plugin
enabled: true
priority: 50
options:
  description_length: 160
  open_graph: true
  sitemap: true
`

// Init scaffolds a starter configuration file and plugin directory in dir.
func Init(dir string, force bool) error {
	path := filepath.Join(dir, DefaultPath)
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil { // #nosec G306 -- project scaffold
		return fmt.Errorf("write config: %w", err)
	}

	pluginDir := filepath.Join(dir, plugin.DefaultDir)
	if err := os.MkdirAll(pluginDir, 0o750); err != nil {
		return fmt.Errorf("create plugin directory: %w", err)
	}
	seoPath := filepath.Join(pluginDir, "seo.yml")
	if _, err := os.Stat(seoPath); os.IsNotExist(err) {
		if err := os.WriteFile(seoPath, []byte(starterSEOConfig), 0o644); err != nil { // #nosec G306
			return fmt.Errorf("write seo plugin config: %w", err)
		}
	}
	return nil
}
