package build

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/siteporter/siteporter/internal/logfields"
)

// stageClean removes output files this build did not touch. Anything written
// during the run, including files emitted by plugins, carries a fresh
// modification time and survives; everything older is stale output from a
// previous source tree.
func stageClean(ctx context.Context, st *State) error {
	var removed int

	err := filepath.WalkDir(st.OutputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.ModTime().Before(st.StartedAt) {
			if err := os.Remove(p); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return NewWarnStageError(StageClean, fmt.Errorf("clean output: %w", err))
	}

	pruneEmptyDirs(st.OutputDir)

	if removed > 0 {
		slog.Info("removed stale output", logfields.BuildID(st.BuildID), logfields.Count(removed))
	}
	return nil
}

// pruneEmptyDirs drops directories left empty by file removal. os.Remove
// fails on non-empty directories, which is exactly the behavior wanted here.
func pruneEmptyDirs(root string) {
	var dirs []string
	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() && p != root {
			dirs = append(dirs, p)
		}
		return nil
	})
	// Deepest first.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i])
	}
}
