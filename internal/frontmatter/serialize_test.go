package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeYAMLEmptyFields(t *testing.T) {
	out, err := SerializeYAML(map[string]any{}, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSerializeYAMLStableKeyOrder(t *testing.T) {
	fields := map[string]any{
		"title":  "Hello World",
		"layout": "post",
		"weight": 3,
	}

	first, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	second, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))

	require.Equal(t, "layout: post\ntitle: Hello World\nweight: 3\n", string(first))
}

func TestSerializeYAMLKeepsNewlineStyle(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"layout": "post"}, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "layout: post\r\n", string(out))
}

func TestSerializeYAMLSortsNestedMaps(t *testing.T) {
	fields := map[string]any{
		"sitemap": map[string]any{
			"priority":   0.5,
			"changefreq": "weekly",
		},
	}

	out, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "sitemap:\n  changefreq: weekly\n  priority: 0.5\n", string(out))
}
