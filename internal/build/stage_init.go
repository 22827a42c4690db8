package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siteporter/siteporter/internal/logfields"
)

// stageInit validates the source tree and prepares the output directory.
func stageInit(ctx context.Context, st *State) error {
	info, err := os.Stat(st.SourceDir)
	if err != nil {
		return NewFatalStageError(StageInit, fmt.Errorf("source directory: %w", err))
	}
	if !info.IsDir() {
		return NewFatalStageError(StageInit, fmt.Errorf("source %s is not a directory", st.SourceDir))
	}

	if err := os.MkdirAll(st.OutputDir, 0o755); err != nil {
		return NewFatalStageError(StageInit, fmt.Errorf("create output directory: %w", err))
	}

	slog.Debug("build initialized",
		logfields.BuildID(st.BuildID),
		logfields.Path(st.SourceDir),
		logfields.Engine(st.Engine.Name()))
	return nil
}
