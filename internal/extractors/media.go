package extractors

import (
	"context"
	"fmt"
	"os"

	"github.com/prannavdeshpande/second-brain/internal/analyzers"
	"github.com/prannavdeshpande/second-brain/internal/schema"
)

// ImageExtractor runs OCR over an uploaded image. It always succeeds with
// either real text or the no-text sentinel; only a backend failure reaches
// the registry boundary, where it becomes an error record.
type ImageExtractor struct {
	ocr analyzers.ImageAnalyzer
}

func (e *ImageExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	text, err := e.ocr.OCRImage(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("ocr image: %w", err)
	}

	return []schema.TextRecord{{
		Content: text,
		Meta:    fileProvenance(in),
	}}, nil
}

// AudioVideoExtractor transcribes an uploaded audio or video file. An
// unconfigured backend yields the unavailable sentinel from the analyzer,
// so the record is still produced.
type AudioVideoExtractor struct {
	speech analyzers.SpeechAnalyzer
}

func (e *AudioVideoExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	text, err := e.speech.TranscribeFile(ctx, in.Path)
	if err != nil {
		return nil, fmt.Errorf("transcribe media: %w", err)
	}

	return []schema.TextRecord{{
		Content: text,
		Meta:    fileProvenance(in),
	}}, nil
}

var (
	_ Extractor = (*ImageExtractor)(nil)
	_ Extractor = (*AudioVideoExtractor)(nil)
)
