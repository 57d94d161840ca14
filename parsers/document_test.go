package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/exocortex/core"
)

func TestDocumentParserHeaderTree(t *testing.T) {
	text := "# Main\n\n## Sub 1\n\n### Sub 1.1\n\n## Sub 2"
	parsed, err := NewDocumentParser().Parse(core.NewRawContent(text, core.SourceTypeMarkdown))
	require.NoError(t, err)

	tree := parsed.Structure.HeaderTree
	require.Len(t, tree, 1)
	assert.Equal(t, "Main", tree[0].Title)

	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Sub 1", tree[0].Children[0].Title)
	assert.Equal(t, "Sub 2", tree[0].Children[1].Title)

	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Sub 1.1", tree[0].Children[0].Children[0].Title)
	assert.Empty(t, tree[0].Children[1].Children)
}

func TestDocumentParserLevelSkip(t *testing.T) {
	// '#' directly followed by '###' must still nest under the top node.
	text := "# Top\n\n### Deep\n\n## Middle"
	parsed, err := NewDocumentParser().Parse(core.NewRawContent(text, core.SourceTypeMarkdown))
	require.NoError(t, err)

	tree := parsed.Structure.HeaderTree
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Deep", tree[0].Children[0].Title)
	assert.Equal(t, "Middle", tree[0].Children[1].Title)
}

func TestDocumentParserNoHeaders(t *testing.T) {
	text := "Just a plain note without any structure.\nSecond line."
	parsed, err := NewDocumentParser().Parse(core.NewRawContent(text, core.SourceTypeMarkdown))
	require.NoError(t, err)

	assert.Len(t, parsed.Chunks, 1)
	assert.Empty(t, parsed.Structure.Headers)
	assert.Empty(t, parsed.Structure.HeaderTree)
	assert.Equal(t, "Just a plain note without any structure.\nSecond line.", parsed.Chunks[0])
}

func TestDocumentParserPreamble(t *testing.T) {
	text := "Intro before any heading.\n\n# First\n\nBody one.\n\n# Second\n\nBody two."
	parsed, err := NewDocumentParser().Parse(core.NewRawContent(text, core.SourceTypeMarkdown))
	require.NoError(t, err)

	require.Len(t, parsed.Chunks, 3)
	assert.Equal(t, "Intro before any heading.", parsed.Chunks[0])
	assert.Contains(t, parsed.Chunks[1], "# First")
	assert.Contains(t, parsed.Chunks[1], "Body one.")
	assert.Contains(t, parsed.Chunks[2], "# Second")

	require.Len(t, parsed.Structure.Headers, 2)
	assert.Equal(t, 1, parsed.Structure.Headers[0].Position)
	assert.Equal(t, 2, parsed.Structure.Headers[1].Position)
}

func TestDocumentParserFingerprint(t *testing.T) {
	content := core.NewRawContent("# Note\n\nbody", core.SourceTypeMarkdown)

	first, err := NewDocumentParser().Parse(content)
	require.NoError(t, err)
	second, err := NewDocumentParser().Parse(content)
	require.NoError(t, err)

	assert.Len(t, first.Fingerprint, 64)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, core.Fingerprint(content.Text), first.Fingerprint)
}

func TestDocumentParserEmpty(t *testing.T) {
	_, err := NewDocumentParser().Parse(core.NewRawContent("   \n\t", core.SourceTypeMarkdown))
	assert.ErrorIs(t, err, ErrInvalidContent)
}

func TestForSourceTypeFallback(t *testing.T) {
	assert.IsType(t, &DocumentParser{}, ForSourceType(core.SourceTypeMarkdown))
	assert.IsType(t, &DocumentParser{}, ForSourceType(core.SourceTypeCode))
	assert.IsType(t, &ChatParser{}, ForSourceType(core.SourceTypeTelegram))
	assert.IsType(t, &ChatParser{}, ForSourceType(core.SourceTypeSlack))
	assert.IsType(t, &TranscriptParser{}, ForSourceType(core.SourceTypeAudio))
	assert.IsType(t, &DocumentParser{}, ForSourceType(core.SourceType("something_else")))
}
