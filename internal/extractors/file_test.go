package extractors

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prannavdeshpande/second-brain/internal/schema"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTextExtractorReadsVerbatim(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "meeting notes\n- first point\n")

	records, err := (&TextExtractor{}).Extract(context.Background(), Input{
		Path:     path,
		Filename: "notes.txt",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "meeting notes\n- first point\n", rec.Content)
	assert.Equal(t, "notes.txt", rec.Meta.Source)
	assert.Equal(t, "txt", rec.Meta.FileType)
}

// The file type is the lowercase extension, whatever the upload's casing.
func TestFileProvenanceUsesLowercaseExtension(t *testing.T) {
	meta := fileProvenance(Input{Filename: "Slides.PDF"})
	assert.Equal(t, "Slides.PDF", meta.Source)
	assert.Equal(t, "pdf", meta.FileType)
}

func TestTextExtractorMissingFileIsError(t *testing.T) {
	_, err := (&TextExtractor{}).Extract(context.Background(), Input{
		Path:     filepath.Join(t.TempDir(), "gone.txt"),
		Filename: "gone.txt",
	})
	assert.Error(t, err)
}

func TestImageExtractorEmitsOCRText(t *testing.T) {
	path := writeTempFile(t, "chart.png", "fake-png-bytes")

	ocr := &fakeOCR{results: map[string]string{"fake-png-bytes": "Q1 sales chart"}}
	records, err := (&ImageExtractor{ocr: ocr}).Extract(context.Background(), Input{
		Path:     path,
		Filename: "chart.png",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Q1 sales chart", rec.Content)
	assert.Equal(t, "chart.png", rec.Meta.Source)
	assert.Equal(t, "png", rec.Meta.FileType)
}

// A blank image is still a successful ingest: the sentinel is the content.
func TestImageExtractorKeepsNoTextSentinel(t *testing.T) {
	path := writeTempFile(t, "blank.jpg", "blank-bytes")

	records, err := (&ImageExtractor{ocr: &fakeOCR{}}).Extract(context.Background(), Input{
		Path:     path,
		Filename: "blank.jpg",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, schema.SentinelNoTextDetected, records[0].Content)
}

func TestAudioVideoExtractorEmitsTranscript(t *testing.T) {
	path := writeTempFile(t, "memo.mp3", "fake-audio")

	records, err := (&AudioVideoExtractor{speech: &fakeSpeech{text: "remember to buy milk"}}).
		Extract(context.Background(), Input{Path: path, Filename: "memo.mp3"})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "remember to buy milk", rec.Content)
	assert.Equal(t, "mp3", rec.Meta.FileType)
}
