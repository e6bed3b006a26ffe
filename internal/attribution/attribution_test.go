package attribution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prannavdeshpande/second-brain/internal/schema"
)

func chunk(source, locator string) schema.Chunk {
	return schema.Chunk{
		Content: "passage",
		Meta: schema.Provenance{
			Source:         source,
			ArchiveLocator: locator,
			FileType:       "txt",
		},
	}
}

func TestAttributeDeduplicatesByLocator(t *testing.T) {
	ranked := []schema.Chunk{
		chunk("notes.txt", "bucket/originals/notes.txt"),
		chunk("notes.txt", "bucket/originals/notes.txt"),
		chunk("other.txt", "bucket/originals/other.txt"),
	}

	sources := Attribute(ranked)
	require.Len(t, sources, 2)
	assert.Equal(t, "bucket/originals/notes.txt", sources[0].ArchiveLocator)
	assert.Equal(t, "bucket/originals/other.txt", sources[1].ArchiveLocator)
}

func TestAttributeFallsBackToSource(t *testing.T) {
	ranked := []schema.Chunk{
		chunk("https://example.com/a", ""),
		chunk("https://example.com/a", ""),
		chunk("https://example.com/b", ""),
	}

	sources := Attribute(ranked)
	require.Len(t, sources, 2)
	assert.Equal(t, "https://example.com/a", sources[0].Source)
	assert.Equal(t, "https://example.com/b", sources[1].Source)
}

// Two chunks with the same source but different archive locators are
// distinct documents; the locator is the stronger identity.
func TestAttributeLocatorBeatsSource(t *testing.T) {
	ranked := []schema.Chunk{
		chunk("notes.txt", "bucket/originals/v1/notes.txt"),
		chunk("notes.txt", "bucket/originals/v2/notes.txt"),
	}

	sources := Attribute(ranked)
	assert.Len(t, sources, 2)
}

func TestAttributePreservesRelevanceOrder(t *testing.T) {
	ranked := []schema.Chunk{
		chunk("c", ""),
		chunk("a", ""),
		chunk("b", ""),
		chunk("a", ""),
	}

	sources := Attribute(ranked)
	require.Len(t, sources, 3)
	assert.Equal(t, "c", sources[0].Source)
	assert.Equal(t, "a", sources[1].Source)
	assert.Equal(t, "b", sources[2].Source)
}

func TestAttributeSkipsEmptyIdentity(t *testing.T) {
	sources := Attribute([]schema.Chunk{chunk("", "")})
	assert.Empty(t, sources)
}

func TestAttributeFilenameDefaultsToSource(t *testing.T) {
	ranked := []schema.Chunk{chunk("https://example.com", "")}

	sources := Attribute(ranked)
	require.Len(t, sources, 1)
	assert.Equal(t, "https://example.com", sources[0].Filename)
}

func TestAttributeNeverLongerThanInput(t *testing.T) {
	ranked := []schema.Chunk{
		chunk("a", ""), chunk("b", ""), chunk("a", ""),
	}
	assert.LessOrEqual(t, len(Attribute(ranked)), len(ranked))
}
