package analyzers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/prannavdeshpande/second-brain/internal/schema"
)

const (
	ocrPrompt = "Extract all readable text from this image. " +
		"Return only the text itself, with no commentary. " +
		"If the image contains no readable text, return an empty response."

	transcribePrompt = "Transcribe the speech in this recording. " +
		"Return only the transcript text, with no commentary."
)

// GeminiAnalyzer implements both ImageAnalyzer and SpeechAnalyzer on top
// of a Gemini multimodal model. A nil receiver or unconfigured model is a
// valid degraded state: transcription yields its unavailable sentinel and
// OCR reports the backend as missing.
type GeminiAnalyzer struct {
	model *genai.GenerativeModel
}

// NewGeminiAnalyzer creates an analyzer backed by the given model name.
// An empty API key returns an analyzer in degraded mode rather than an
// error, so the service can start without media understanding.
func NewGeminiAnalyzer(ctx context.Context, apiKey, modelName string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return &GeminiAnalyzer{}, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiAnalyzer{model: client.GenerativeModel(modelName)}, nil
}

// Available reports whether the multimodal backend is configured.
func (a *GeminiAnalyzer) Available() bool {
	return a != nil && a.model != nil
}

// OCRImage runs the model over raw image bytes. No detected text is a
// successful outcome carrying the no-text sentinel, distinct from a
// backend failure.
func (a *GeminiAnalyzer) OCRImage(ctx context.Context, data []byte) (string, error) {
	if !a.Available() {
		return "", fmt.Errorf("ocr backend is not configured")
	}

	format := strings.TrimPrefix(mimetype.Detect(data).Extension(), ".")
	if format == "" {
		format = "png"
	}

	resp, err := a.model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(ocrPrompt))
	if err != nil {
		return "", fmt.Errorf("ocr generate: %w", err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return schema.SentinelNoTextDetected, nil
	}
	return text, nil
}

// TranscribeFile transcribes a local audio/video file. An unconfigured
// backend degrades to the unavailable sentinel instead of failing the
// whole ingestion.
func (a *GeminiAnalyzer) TranscribeFile(ctx context.Context, path string) (string, error) {
	if !a.Available() {
		return schema.SentinelNoTranscription, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read media file: %w", err)
	}

	resp, err := a.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimetype.Detect(data).String(), Data: data},
		genai.Text(transcribePrompt),
	)
	if err != nil {
		return "", fmt.Errorf("transcribe generate: %w", err)
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return schema.SentinelNoTranscription, nil
	}
	return text, nil
}

// responseText flattens the first candidate's text parts.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return sb.String()
}

var (
	_ ImageAnalyzer  = (*GeminiAnalyzer)(nil)
	_ SpeechAnalyzer = (*GeminiAnalyzer)(nil)
)
