package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/migrate"
	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

// stageGenerate runs each page through the migration engine and stamps the
// content fingerprint the write stage's overwrite guard relies on. Pages the
// engine rejects are dropped with a warning.
func stageGenerate(ctx context.Context, st *State) error {
	kept := make([]*site.Page, 0, len(st.Pages))
	var errs []error

	for _, p := range st.Pages {
		if err := st.Engine.Convert(p); err != nil {
			slog.Warn("page conversion failed",
				logfields.Page(p.RelPath), logfields.Engine(st.Engine.Name()), logfields.Error(err))
			errs = append(errs, err)
			continue
		}
		if err := migrate.StampFingerprint(p); err != nil {
			return NewFatalStageError(StageGenerate, fmt.Errorf("fingerprint %s: %w", p.RelPath, err))
		}
		kept = append(kept, p)
	}

	st.Pages = kept
	st.HookCtx.SetData(plugin.DataKeyPages, kept)

	if len(errs) > 0 {
		return NewWarnStageError(StageGenerate, errors.Join(errs...))
	}
	return nil
}
