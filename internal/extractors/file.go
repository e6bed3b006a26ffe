package extractors

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/v2/document"

	"github.com/prannavdeshpande/second-brain/internal/classifier"
	"github.com/prannavdeshpande/second-brain/internal/schema"
)

// fileProvenance is the partial record shared by all file-based
// extractors: the original filename as source, the lowercase extension as
// file type. The pipeline fills filename and archive locator afterwards.
func fileProvenance(in Input) schema.Provenance {
	return schema.Provenance{
		Source:   in.Source(),
		FileType: classifier.FileExtension(in.Filename),
	}
}

// PDFExtractor reads a PDF from local disk and emits its plain text as a
// single record.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	f, reader, err := pdf.Open(in.Path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return nil, fmt.Errorf("read pdf text: %w", err)
	}

	return []schema.TextRecord{{
		Content: buf.String(),
		Meta:    fileProvenance(in),
	}}, nil
}

// DocxExtractor reads a Word document and emits the text of all paragraph
// runs as a single record.
type DocxExtractor struct{}

func (e *DocxExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	doc, err := document.Open(in.Path)
	if err != nil {
		return nil, fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for _, p := range doc.Paragraphs() {
		for _, r := range p.Runs() {
			sb.WriteString(r.Text())
		}
		sb.WriteString("\n")
	}

	return []schema.TextRecord{{
		Content: sb.String(),
		Meta:    fileProvenance(in),
	}}, nil
}

// TextExtractor reads plain text and markdown files verbatim.
type TextExtractor struct{}

func (e *TextExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	content, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("read text file: %w", err)
	}

	return []schema.TextRecord{{
		Content: string(content),
		Meta:    fileProvenance(in),
	}}, nil
}

var (
	_ Extractor = (*PDFExtractor)(nil)
	_ Extractor = (*DocxExtractor)(nil)
	_ Extractor = (*TextExtractor)(nil)
)
