package builtin

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siteporter/siteporter/pkg/plugin"
	"github.com/siteporter/siteporter/pkg/site"
)

func feedContext(t *testing.T) *plugin.HookContext {
	t.Helper()
	cfg := site.Config{Title: "Feed Site", BaseURL: "https://example.com", Author: "Alex"}
	return plugin.NewHookContext(context.Background(), nil, cfg, t.TempDir(), t.TempDir(), "b1")
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func TestFeedHooks(t *testing.T) {
	assert.Equal(t, []plugin.Hook{plugin.HookPreWrite}, NewFeedPlugin().Hooks())
}

func TestFeedInitializeRejectsBadLimit(t *testing.T) {
	p := NewFeedPlugin()
	cfg := plugin.DefaultPluginConfig()
	cfg.Options = map[string]any{"limit": 0}
	assert.Error(t, p.Initialize(cfg))
}

func TestFeedWritesNewestEntriesFirst(t *testing.T) {
	p := NewFeedPlugin()
	cfg := plugin.DefaultPluginConfig()
	cfg.Options = map[string]any{"limit": 2, "feed_path": "atom.xml"}
	require.NoError(t, p.Initialize(cfg))

	hctx := feedContext(t)
	hctx.SetData(plugin.DataKeyPages, []*site.Page{
		{Title: "Oldest", OutputPath: "a.md", Date: day(1)},
		{Title: "Newest", OutputPath: "b.md", Date: day(9)},
		{Title: "Middle", OutputPath: "c.md", Date: day(5)},
		{Title: "Draft", OutputPath: "d.md", Date: day(8), Draft: true},
	})

	res := p.HandleHook(hctx, plugin.HookPreWrite)
	require.False(t, res.Failed(), "pre_write: %v", res.Err)

	data, err := os.ReadFile(filepath.Join(hctx.OutputDir, "atom.xml"))
	require.NoError(t, err)
	feed := string(data)

	assert.Contains(t, feed, "<title>Feed Site</title>")
	assert.Contains(t, feed, "<name>Alex</name>")
	assert.Contains(t, feed, "Newest")
	assert.Contains(t, feed, "Middle")
	assert.NotContains(t, feed, "Oldest", "limit truncates to the newest entries")
	assert.NotContains(t, feed, "Draft")
	assert.Less(t, strings.Index(feed, "Newest"), strings.Index(feed, "Middle"))
}

func TestFeedNoPagesNoFile(t *testing.T) {
	p := NewFeedPlugin()
	require.NoError(t, p.Initialize(plugin.DefaultPluginConfig()))

	hctx := feedContext(t)
	res := p.HandleHook(hctx, plugin.HookPreWrite)
	require.False(t, res.Failed())

	_, err := os.Stat(filepath.Join(hctx.OutputDir, "feed.xml"))
	assert.True(t, os.IsNotExist(err))
}
