// Package source resolves the site to migrate: a local directory is used in
// place, a git URL is fetched shallowly into a workspace.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"github.com/siteporter/siteporter/internal/logfields"
	"github.com/siteporter/siteporter/internal/workspace"
)

// Resolved is a usable local source tree plus its cleanup.
type Resolved struct {
	// Dir is the local directory holding the source site.
	Dir string

	// Cleanup releases the workspace for fetched sources; a no-op for local
	// directories.
	Cleanup func() error
}

// IsRemote reports whether src needs a fetch rather than a local stat.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") ||
		strings.HasPrefix(src, "https://") ||
		strings.HasPrefix(src, "git@")
}

// Resolve makes src available as a local directory. Remote URLs are cloned
// depth-1 into a fresh workspace; token optionally authenticates HTTPS
// fetches.
func Resolve(ctx context.Context, src, token string) (*Resolved, error) {
	if !IsRemote(src) {
		st, err := os.Stat(src)
		if err != nil {
			return nil, fmt.Errorf("source directory: %w", err)
		}
		if !st.IsDir() {
			return nil, fmt.Errorf("source %s is not a directory", src)
		}
		return &Resolved{Dir: src, Cleanup: func() error { return nil }}, nil
	}

	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		return nil, err
	}

	opts := &git.CloneOptions{URL: src, Depth: 1, SingleBranch: true}
	if token != "" {
		opts.Auth = &githttp.BasicAuth{Username: "token", Password: token}
	}

	slog.Info("Fetching source site", logfields.URL(src), logfields.Path(ws.Path()))
	if _, err := git.PlainCloneContext(ctx, ws.Path(), false, opts); err != nil {
		_ = ws.Cleanup()
		return nil, fmt.Errorf("clone source site: %w", err)
	}

	return &Resolved{Dir: ws.Path(), Cleanup: ws.Cleanup}, nil
}
