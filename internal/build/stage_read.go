package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/siteporter/siteporter/internal/frontmatter"
	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

// Directories never treated as content, whatever the source engine.
var skipDirs = map[string]bool{
	"_site":        true,
	"_plugins":     true,
	"node_modules": true,
	"vendor":       true,
}

// stageRead walks the source tree, splits frontmatter from each markdown
// document, and builds the page list. Malformed documents are skipped with a
// warning so one bad file cannot sink a bulk migration.
func stageRead(ctx context.Context, st *State) error {
	var pages []*site.Page
	var skipped int

	err := filepath.WalkDir(st.SourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != st.SourceDir && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if !isMarkdown(p) {
			return nil
		}

		page, perr := readPage(st.SourceDir, p)
		if perr != nil {
			skipped++
			slog.Warn("skipping unreadable page", logfields.Path(p), logfields.Error(perr))
			return nil
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return NewFatalStageError(StageRead, fmt.Errorf("walk source: %w", err))
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].RelPath < pages[j].RelPath })
	st.Pages = pages
	st.HookCtx.SetData(plugin.DataKeyPages, pages)

	slog.Info("read source content", logfields.BuildID(st.BuildID), logfields.Count(len(pages)))
	if skipped > 0 {
		return NewWarnStageError(StageRead, fmt.Errorf("%d document(s) skipped", skipped))
	}
	return nil
}

func isMarkdown(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// readPage loads a single document and fills the fields every engine relies
// on. Engine-specific frontmatter mapping happens later, in the generate
// stage.
func readPage(root, p string) (*site.Page, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}

	fm, body, had, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("frontmatter: %w", err)
	}

	fields := map[string]any{}
	if had {
		fields, err = frontmatter.ParseYAML(fm)
		if err != nil {
			return nil, fmt.Errorf("frontmatter: %w", err)
		}
	}

	rel, err := filepath.Rel(root, p)
	if err != nil {
		return nil, err
	}

	page := &site.Page{
		SourcePath:  p,
		RelPath:     filepath.ToSlash(rel),
		FrontMatter: fields,
		Content:     body,
	}

	if title, ok := fields["title"].(string); ok {
		page.Title = title
	}
	if draft, ok := fields["draft"].(bool); ok {
		page.Draft = draft
	}
	switch v := fields["date"].(type) {
	case time.Time:
		page.Date = v
	case string:
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
			if t, perr := time.Parse(layout, v); perr == nil {
				page.Date = t
				break
			}
		}
	}
	return page, nil
}
