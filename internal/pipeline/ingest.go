package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prannavdeshpande/second-brain/internal/chunker"
	"github.com/prannavdeshpande/second-brain/internal/classifier"
	"github.com/prannavdeshpande/second-brain/internal/embedding"
	"github.com/prannavdeshpande/second-brain/internal/extractors"
	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/internal/storage/objectstore"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

// FileIngestResult describes a completed file ingestion.
type FileIngestResult struct {
	Filename       string
	ArchiveLocator string
	NumChunks      int
}

// URLIngestResult describes a completed URL ingestion. ContentKind is the
// variant tag of the primary extracted record; NumImagesProcessed counts
// harvested page images that produced OCR records.
type URLIngestResult struct {
	Source             string
	ContentKind        string
	NumChunks          int
	NumDocuments       int
	NumImagesProcessed int
}

// ErrUnsupportedFile is returned for file extensions outside the closed
// ingestion vocabulary.
var ErrUnsupportedFile = fmt.Errorf("unsupported file type")

// Ingestor runs the ingestion pipeline end to end.
type Ingestor struct {
	registry *extractors.Registry
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	vectors  VectorStore
	archive  ObjectStore
	log      *logger.Logger
}

// NewIngestor wires the ingestion pipeline. archive may be nil; file
// ingests then record a degraded placeholder locator.
func NewIngestor(
	registry *extractors.Registry,
	ch *chunker.Chunker,
	embedder embedding.Embedder,
	vectors VectorStore,
	archive ObjectStore,
	log *logger.Logger,
) *Ingestor {
	return &Ingestor{
		registry: registry,
		chunker:  ch,
		embedder: embedder,
		vectors:  vectors,
		archive:  archive,
		log:      log,
	}
}

// IngestFile archives the upload, extracts its text, and indexes the
// resulting chunks. Every chunk leaves with the original filename and the
// archive locator stamped into its provenance.
func (ing *Ingestor) IngestFile(ctx context.Context, filename string, data []byte) (FileIngestResult, error) {
	kind := classifier.ClassifyFile(filename)
	if kind == classifier.KindUnsupported {
		return FileIngestResult{}, fmt.Errorf("%w: %q", ErrUnsupportedFile, filename)
	}

	locator := objectstore.DegradedLocator(filename)
	if ing.archive != nil {
		loc, err := ing.archive.Put(ctx, filename, data)
		if err != nil {
			return FileIngestResult{}, fmt.Errorf("archive original: %w", err)
		}
		locator = loc
	} else {
		ing.log.Warn(fmt.Sprintf("object store not configured, recording %s", locator))
	}

	// Extractors read from disk, so the upload lands in a scoped temp file
	// that is removed on every exit path.
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(filename))
	if err != nil {
		return FileIngestResult{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			ing.log.WithErr(err).Warn("could not remove temporary upload file")
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return FileIngestResult{}, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return FileIngestResult{}, fmt.Errorf("close temp file: %w", err)
	}

	records, err := ing.registry.Extract(ctx, extractors.Input{
		Kind:     kind,
		Path:     tmpPath,
		Filename: filename,
	})
	if err != nil {
		return FileIngestResult{}, err
	}

	for i := range records {
		records[i].Meta.Filename = filename
		records[i].Meta.ArchiveLocator = locator
	}

	n, err := ing.index(ctx, records)
	if err != nil {
		return FileIngestResult{}, err
	}

	ing.log.Info(fmt.Sprintf("Ingested file %q: %d records, %d chunks", filename, len(records), n))
	return FileIngestResult{Filename: filename, ArchiveLocator: locator, NumChunks: n}, nil
}

// IngestURL extracts content from the URL, harvests page images for
// generic web pages, and indexes the resulting chunks.
func (ing *Ingestor) IngestURL(ctx context.Context, rawURL string) (URLIngestResult, error) {
	kind := classifier.ClassifyURL(rawURL)

	records, err := ing.registry.Extract(ctx, extractors.Input{Kind: kind, URL: rawURL})
	if err != nil {
		return URLIngestResult{}, err
	}

	// Platform extractors manage their own media; only generic pages get
	// the separate image-harvesting pass.
	numImages := 0
	if kind == classifier.KindWeb {
		harvested := ing.registry.HarvestImages(ctx, rawURL)
		numImages = len(harvested)
		records = append(records, harvested...)
	}

	for i := range records {
		if records[i].Meta.Filename == "" {
			records[i].Meta.Filename = rawURL
		}
	}

	n, err := ing.index(ctx, records)
	if err != nil {
		return URLIngestResult{}, err
	}

	contentKind := schema.KindURL
	if len(records) > 0 && records[0].Meta.ContentKind != "" {
		contentKind = records[0].Meta.ContentKind
	}

	ing.log.Info(fmt.Sprintf("Ingested URL %q: %d records, %d chunks, %d images", rawURL, len(records), n, numImages))
	return URLIngestResult{
		Source:             rawURL,
		ContentKind:        contentKind,
		NumChunks:          n,
		NumDocuments:       len(records),
		NumImagesProcessed: numImages,
	}, nil
}

// index chunks the records, embeds the chunks in one batch, and inserts
// them into the vector store. Returns the number of chunks indexed.
func (ing *Ingestor) index(ctx context.Context, records []schema.TextRecord) (int, error) {
	chunks := ing.chunker.Split(records)
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Content
	}
	embeddings, err := ing.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %d chunks: %w", len(chunks), err)
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if err := ing.vectors.Add(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}
