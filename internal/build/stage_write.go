package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/siteporter/siteporter/internal/frontmatter"
	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/migrate"
	"github.com/siteporter/siteporter/pkg/site"
)

// stageWrite persists the converted markdown and the rendered HTML. A
// destination markdown file whose stamped fingerprint no longer matches its
// content has been hand-edited since the last migration run; it is left
// alone.
func stageWrite(ctx context.Context, st *State) error {
	var preserved int

	for _, p := range st.Pages {
		select {
		case <-ctx.Done():
			return NewCanceledStageError(StageWrite, ctx.Err())
		default:
		}

		kept, err := writeMarkdown(st.OutputDir, p)
		if err != nil {
			return NewFatalStageError(StageWrite, err)
		}
		if kept {
			preserved++
			slog.Warn("output hand-edited since last run, keeping it",
				logfields.Page(p.RelPath), logfields.Path(p.OutputPath))
		}

		if p.Draft {
			continue
		}
		if err := writeHTML(st.OutputDir, p); err != nil {
			return NewFatalStageError(StageWrite, err)
		}
	}

	if st.Recorder != nil {
		st.Recorder.SetPagesProcessed(len(st.Pages))
	}
	slog.Info("wrote output", logfields.BuildID(st.BuildID), logfields.Count(len(st.Pages)))

	if preserved > 0 {
		return NewWarnStageError(StageWrite, fmt.Errorf("%d hand-edited file(s) preserved", preserved))
	}
	return nil
}

// writeMarkdown writes the converted source document. It reports kept=true
// when an existing hand-edited destination blocked the write.
func writeMarkdown(outputDir string, p *site.Page) (kept bool, err error) {
	dst := filepath.Join(outputDir, filepath.FromSlash(p.OutputPath))

	if existing, rerr := os.ReadFile(dst); rerr == nil {
		if handEdited(existing) {
			return true, nil
		}
	}

	style := frontmatter.Style{Newline: "\n", HasTrailingNewline: true}
	fm, err := frontmatter.SerializeYAML(p.FrontMatter, style)
	if err != nil {
		return false, fmt.Errorf("serialize frontmatter for %s: %w", p.RelPath, err)
	}
	doc := frontmatter.Join(fm, p.Content, true, style)

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, doc, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", p.OutputPath, err)
	}
	return false, nil
}

// handEdited reports whether an existing output document diverges from its
// stamped fingerprint. Unparseable or unstamped documents count as edited,
// erring on the side of never clobbering human work.
func handEdited(doc []byte) bool {
	fm, body, had, _, err := frontmatter.Split(doc)
	if err != nil || !had {
		return true
	}
	fields, err := frontmatter.ParseYAML(fm)
	if err != nil {
		return true
	}
	return !migrate.VerifyFingerprint(fields, body)
}

// writeHTML writes the rendered document under a pretty URL path, so
// posts/welcome.md serves as /posts/welcome/.
func writeHTML(outputDir string, p *site.Page) error {
	dst := filepath.Join(outputDir, filepath.FromSlash(htmlPath(p.OutputPath)))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(dst, p.HTML, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p.OutputPath, err)
	}
	return nil
}

func htmlPath(outputPath string) string {
	rel := strings.TrimSuffix(outputPath, path.Ext(outputPath))
	if rel == "index" || strings.HasSuffix(rel, "/index") {
		return rel + ".html"
	}
	return path.Join(rel, "index.html")
}
