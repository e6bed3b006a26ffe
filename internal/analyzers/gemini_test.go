package analyzers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prannavdeshpande/second-brain/internal/schema"
)

// Without an API key the analyzer starts in degraded mode: transcription
// reports its unavailable sentinel as a success, OCR reports the missing
// backend as an error for the extraction boundary to absorb.
func TestDegradedModeWithoutAPIKey(t *testing.T) {
	a, err := NewGeminiAnalyzer(context.Background(), "", "gemini-2.5-flash")
	require.NoError(t, err)
	assert.False(t, a.Available())

	_, err = a.OCRImage(context.Background(), []byte("png-bytes"))
	assert.Error(t, err)

	text, err := a.TranscribeFile(context.Background(), "/nonexistent/audio.mp3")
	require.NoError(t, err)
	assert.Equal(t, schema.SentinelNoTranscription, text)
}

func TestNilAnalyzerIsUnavailable(t *testing.T) {
	var a *GeminiAnalyzer
	assert.False(t, a.Available())
}
