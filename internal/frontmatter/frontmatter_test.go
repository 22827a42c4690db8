package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitPlainDocument(t *testing.T) {
	input := []byte("# Hello World\n\nFirst paragraph of the post.\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplitPostFrontmatter(t *testing.T) {
	input := []byte("---\nlayout: post\ntitle: Hello World\n---\nFirst paragraph.\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("layout: post\ntitle: Hello World\n"), fm)
	require.Equal(t, []byte("First paragraph.\n"), body)
}

func TestSplitUnterminatedFrontmatter(t *testing.T) {
	input := []byte("---\nlayout: post\nFirst paragraph.\n")

	_, _, had, _, err := Split(input)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestSplitWindowsLineEndings(t *testing.T) {
	input := []byte("---\r\ntitle: Hello World\r\n---\r\nFirst paragraph.\r\n")

	fm, body, had, style, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, "\r\n", style.Newline)
	require.Equal(t, []byte("title: Hello World\r\n"), fm)
	require.Equal(t, []byte("First paragraph.\r\n"), body)
}

func TestSplitEmptyFrontmatterBlock(t *testing.T) {
	input := []byte("---\n---\nFirst paragraph.\n")

	fm, body, had, _, err := Split(input)
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("First paragraph.\n"), body)
}

func TestJoinRoundTripsSplitOutput(t *testing.T) {
	cases := map[string][]byte{
		"plain":    []byte("# Hello World\n\nFirst paragraph.\n"),
		"post":     []byte("---\nlayout: post\ntitle: Hello World\n---\nFirst paragraph.\n"),
		"empty fm": []byte("---\n---\nFirst paragraph.\n"),
		"crlf":     []byte("---\r\ntitle: Hello World\r\n---\r\nFirst paragraph.\r\n"),
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			fm, body, had, style, err := Split(input)
			require.NoError(t, err)
			require.Equal(t, input, Join(fm, body, had, style))
		})
	}
}

func TestParseYAMLFields(t *testing.T) {
	fm := []byte("layout: post\ntags:\n  - release\n")

	fields, err := ParseYAML(fm)
	require.NoError(t, err)
	require.Equal(t, "post", fields["layout"])
	require.Equal(t, []any{"release"}, fields["tags"])
}

func TestParseYAMLEmptyInput(t *testing.T) {
	fields, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestParseYAMLMalformedInput(t *testing.T) {
	_, err := ParseYAML([]byte(": not yaml"))
	require.Error(t, err)
}
