// Package extractors turns classified ingestion inputs into normalized
// text records with partial provenance. One extractor exists per source
// kind; the registry resolves the handler once per input. Extraction is
// best-effort by policy: a total failure still yields a single
// error-flavored record so the corpus always captures that the source was
// ingested.
package extractors

import (
	"context"
	"fmt"
	"time"

	"github.com/prannavdeshpande/second-brain/internal/analyzers"
	"github.com/prannavdeshpande/second-brain/internal/classifier"
	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/pkg/httpclient"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

// Input describes one ingestion input after classification. Exactly one of
// Path (with Filename) or URL is set.
type Input struct {
	Kind     classifier.SourceKind
	Path     string
	Filename string
	URL      string
}

// Source returns the stable origin identifier for provenance records.
func (in Input) Source() string {
	if in.URL != "" {
		return in.URL
	}
	return in.Filename
}

// Extractor converts a raw input into text records with partial
// provenance. Implementations return an error only on total failure; the
// registry boundary converts that into a visible error record.
type Extractor interface {
	Extract(ctx context.Context, in Input) ([]schema.TextRecord, error)
}

// Config carries the external-capability endpoints and tuning knobs the
// extractors need. Endpoints are full URLs so tests can point them at
// local fakes.
type Config struct {
	RapidAPIKey       string
	YouTubeEndpoint   string
	TwitterEndpoint   string
	InstagramEndpoint string

	FetchTimeout time.Duration

	// MaxImagesPerPage bounds OCR fan-out for a single web page;
	// MinImagePixels filters decorative assets by declared dimensions.
	MaxImagesPerPage int
	MinImagePixels   int
}

const (
	defaultYouTubeEndpoint   = "https://youtube-transcript3.p.rapidapi.com/api/transcript"
	defaultTwitterEndpoint   = "https://twitter241.p.rapidapi.com/tweet"
	defaultInstagramEndpoint = "https://instagram-scraper-stable-api.p.rapidapi.com/get_media_data_v2.php"

	defaultMaxImagesPerPage = 5
	defaultMinImagePixels   = 100
)

func (c Config) withDefaults() Config {
	if c.YouTubeEndpoint == "" {
		c.YouTubeEndpoint = defaultYouTubeEndpoint
	}
	if c.TwitterEndpoint == "" {
		c.TwitterEndpoint = defaultTwitterEndpoint
	}
	if c.InstagramEndpoint == "" {
		c.InstagramEndpoint = defaultInstagramEndpoint
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = httpclient.DefaultTimeout
	}
	if c.MaxImagesPerPage <= 0 {
		c.MaxImagesPerPage = defaultMaxImagesPerPage
	}
	if c.MinImagePixels <= 0 {
		c.MinImagePixels = defaultMinImagePixels
	}
	return c
}

// Registry holds one handler per source kind, resolved by classification.
type Registry struct {
	handlers map[classifier.SourceKind]Extractor
	web      *WebExtractor
	log      *logger.Logger
}

// NewRegistry wires every extractor with its capabilities.
func NewRegistry(
	cfg Config,
	client *httpclient.Client,
	ocr analyzers.ImageAnalyzer,
	speech analyzers.SpeechAnalyzer,
	log *logger.Logger,
) *Registry {
	cfg = cfg.withDefaults()
	if client == nil {
		client = httpclient.New(cfg.FetchTimeout)
	}

	web := &WebExtractor{cfg: cfg, client: client, ocr: ocr, log: log}
	return &Registry{
		log: log,
		web: web,
		handlers: map[classifier.SourceKind]Extractor{
			classifier.KindPDF:        &PDFExtractor{},
			classifier.KindDocx:       &DocxExtractor{},
			classifier.KindPlainText:  &TextExtractor{},
			classifier.KindImage:      &ImageExtractor{ocr: ocr},
			classifier.KindAudioVideo: &AudioVideoExtractor{speech: speech},
			classifier.KindWeb:        web,
			classifier.KindYouTube:    &YouTubeExtractor{cfg: cfg, client: client},
			classifier.KindTwitter:    &TwitterExtractor{cfg: cfg, client: client, ocr: ocr, log: log},
			classifier.KindInstagram:  &InstagramExtractor{cfg: cfg, client: client, ocr: ocr, speech: speech, log: log},
		},
	}
}

// ErrUnsupported marks inputs the classifier refused; the request layer
// surfaces it as an input-validation error, never as soft content.
var ErrUnsupported = fmt.Errorf("unsupported input kind")

// Extract resolves the handler for the input's kind and runs it. Handler
// errors become a single visible error record here, at the outer
// extraction boundary; only unsupported kinds and context cancellation
// propagate as errors.
func (r *Registry) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	handler, ok := r.handlers[in.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, in.Kind)
	}

	records, err := handler.Extract(ctx, in)
	if err != nil {
		if ctx.Err() != nil {
			// The caller aborted; do not index a partial error record.
			return nil, ctx.Err()
		}
		r.log.WithErr(err).Warn(fmt.Sprintf("extraction failed for %s source %q", in.Kind, in.Source()))
		return []schema.TextRecord{errorRecord(in, err)}, nil
	}
	if len(records) == 0 {
		records = []schema.TextRecord{errorRecord(in, fmt.Errorf("no content extracted"))}
	}
	return records, nil
}

// HarvestImages runs the web media-harvesting step for a generic page.
// Platform extractors handle their own media, so this applies to KindWeb
// inputs only; failures yield an empty slice, never an error.
func (r *Registry) HarvestImages(ctx context.Context, pageURL string) []schema.TextRecord {
	return r.web.HarvestImages(ctx, pageURL)
}

// errorRecord builds the soft-failure record for an input. The error text
// becomes queryable content so callers can surface it downstream.
func errorRecord(in Input, err error) schema.TextRecord {
	kind := schema.KindError
	switch in.Kind {
	case classifier.KindYouTube:
		kind = schema.KindYouTubeError
	case classifier.KindTwitter:
		kind = schema.KindTwitterError
	case classifier.KindInstagram:
		kind = schema.KindInstagramError
	}
	return schema.TextRecord{
		Content: fmt.Sprintf("Error extracting content: %s", err),
		Meta: schema.Provenance{
			Source:      in.Source(),
			FileType:    schema.FileTypeError,
			ContentKind: kind,
		},
	}
}
