package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T) (configPath, output string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "old-site")
	output = filepath.Join(dir, "public")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "_posts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "_config.yml"), []byte("title: Old\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(src, "_posts", "2024-05-01-first.md"),
		[]byte("---\ntitle: First\nlayout: post\n---\nHello.\n"), 0o644))

	cfg := fmt.Sprintf(`site:
  title: "Test Site"
  base_url: "http://localhost:1414"
migrate:
  engine: jekyll
  source: %q
  output: %q
history:
  enabled: true
  path: %q
`, src, output, filepath.Join(dir, "history.db"))
	configPath = filepath.Join(dir, "siteporter.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(cfg), 0o644))
	return configPath, output
}

func TestBuildCmdMigratesSite(t *testing.T) {
	configPath, output := writeProject(t)

	cmd := &BuildCmd{}
	root := &CLI{Config: configPath}
	require.NoError(t, cmd.Run(&Global{}, root))

	post, err := os.ReadFile(filepath.Join(output, "posts", "first.md"))
	require.NoError(t, err)
	assert.Contains(t, string(post), "Hello.")
}

func TestBuildCmdRecordsHistory(t *testing.T) {
	configPath, _ := writeProject(t)

	root := &CLI{Config: configPath}
	require.NoError(t, (&BuildCmd{}).Run(&Global{}, root))
	require.NoError(t, (&BuildCmd{}).Run(&Global{}, root))

	// HistoryCmd prints; just ensure it runs against the populated store.
	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(&Global{}, root))
}

func TestInitCmdScaffoldsProject(t *testing.T) {
	dir := t.TempDir()

	cmd := &InitCmd{Dir: dir}
	require.NoError(t, cmd.Run(&Global{}, &CLI{}))

	_, err := os.Stat(filepath.Join(dir, "siteporter.yaml"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "_plugins", "seo.yml"))
	assert.NoError(t, err)

	// A second init without force refuses to clobber.
	assert.Error(t, cmd.Run(&Global{}, &CLI{}))
}

func TestPluginsListRunsWithoutPluginDir(t *testing.T) {
	configPath, _ := writeProject(t)
	require.NoError(t, (&PluginsListCmd{}).Run(&Global{}, &CLI{Config: configPath}))
}
