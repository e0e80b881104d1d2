package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNoFrontmatter(t *testing.T) {
	content := []byte("# Heading\n\nbody text\n")

	raw, body, had, err := Split(content)
	require.NoError(t, err)
	assert.False(t, had)
	assert.Nil(t, raw)
	assert.Equal(t, content, body)
}

func TestSplitBasic(t *testing.T) {
	content := []byte("---\ntitle: Accounts\nchapter: 2\n---\n# Accounts\n")

	raw, body, had, err := Split(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: Accounts\nchapter: 2", string(raw))
	assert.Equal(t, "# Accounts\n", string(body))
}

func TestSplitEmptyFrontmatter(t *testing.T) {
	content := []byte("---\n---\nbody\n")

	raw, body, had, err := Split(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Empty(t, raw)
	assert.Equal(t, "body\n", string(body))
}

func TestSplitCRLF(t *testing.T) {
	content := []byte("---\r\ntitle: Keys\r\n---\r\nbody\r\n")

	raw, body, had, err := Split(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: Keys", string(raw))
	assert.Equal(t, "body\r\n", string(body))
}

func TestSplitMissingClose(t *testing.T) {
	content := []byte("---\ntitle: Broken\nnever closed\n")

	_, _, _, err := Split(content)
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestSplitCloseAtEOF(t *testing.T) {
	content := []byte("---\ntitle: Tail\n---")

	raw, body, had, err := Split(content)
	require.NoError(t, err)
	assert.True(t, had)
	assert.Equal(t, "title: Tail", string(raw))
	assert.Empty(t, body)
}

func TestParse(t *testing.T) {
	content := []byte("---\ntitle: Deploying Contracts\nchapter: 4\nweight: 40\ndraft: true\n---\nbody\n")

	meta, body, err := Parse(content)
	require.NoError(t, err)
	assert.Equal(t, "Deploying Contracts", meta.Title)
	assert.Equal(t, 4, meta.Chapter)
	assert.Equal(t, 40, meta.Weight)
	assert.True(t, meta.Draft)
	assert.Equal(t, "body\n", string(body))
}

func TestParseInvalidYAML(t *testing.T) {
	content := []byte("---\ntitle: [unclosed\n---\nbody\n")

	_, _, err := Parse(content)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode frontmatter")
}

func TestParseZeroMetaWithoutFrontmatter(t *testing.T) {
	meta, body, err := Parse([]byte("plain body\n"))
	require.NoError(t, err)
	assert.Equal(t, Meta{}, meta)
	assert.Equal(t, "plain body\n", string(body))
}
