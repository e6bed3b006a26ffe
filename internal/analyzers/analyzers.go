// Package analyzers adapts external media-understanding capabilities
// (OCR on images, speech transcription on audio/video) behind small
// interfaces so extractors never talk to a vendor SDK directly.
package analyzers

import "context"

// ImageAnalyzer extracts readable text from raw image bytes. When the
// image contains no text the analyzer returns the designated sentinel
// string as a successful outcome; an error means the backend itself failed.
type ImageAnalyzer interface {
	OCRImage(ctx context.Context, data []byte) (string, error)
}

// SpeechAnalyzer transcribes an audio or video file on local disk. When
// the transcription backend is not configured it returns the designated
// "unavailable" sentinel as a successful, degraded outcome; an error means
// the backend was available but failed to decode.
type SpeechAnalyzer interface {
	TranscribeFile(ctx context.Context, path string) (string, error)
}
