package build

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

// stageRender converts each page body to HTML and wraps it in the output
// document shell. Unlike the other stages, its hooks fire per page with the
// page set as the dispatch's current page, so plugins can rewrite individual
// documents.
func stageRender(ctx context.Context, st *State) error {
	defer st.HookCtx.ClearCurrentPage()

	for _, p := range st.Pages {
		select {
		case <-ctx.Done():
			return NewCanceledStageError(StageRender, ctx.Err())
		default:
		}

		st.HookCtx.SetCurrentPage(p)
		if err := st.dispatch(plugin.HookPreRender, StageRender); err != nil {
			return err
		}

		body, err := st.Renderer.Render(p.Content)
		if err != nil {
			return NewFatalStageError(StageRender, fmt.Errorf("render %s: %w", p.RelPath, err))
		}
		p.HTML = renderDocument(st.Site, p, body)

		if err := st.dispatch(plugin.HookPostRender, StageRender); err != nil {
			return err
		}
	}
	return nil
}

// renderDocument wraps a rendered body in a minimal HTML page. Migrated sites
// get real templates applied downstream; this shell exists so the preview
// server and head-injecting plugins have a complete document to work with.
func renderDocument(cfg site.Config, p *site.Page, body []byte) []byte {
	lang := cfg.Language
	if lang == "" {
		lang = "en"
	}
	title := p.Title
	if title == "" {
		title = cfg.Title
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<!doctype html>\n<html lang=%q>\n<head>\n", lang)
	buf.WriteString("<meta charset=\"utf-8\">\n")
	buf.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	fmt.Fprintf(&buf, "<title>%s</title>\n", html.EscapeString(title))
	buf.WriteString("</head>\n<body>\n<article>\n")
	buf.Write(body)
	buf.WriteString("\n</article>\n</body>\n</html>\n")
	return buf.Bytes()
}
