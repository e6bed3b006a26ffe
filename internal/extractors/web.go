package extractors

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/prannavdeshpande/second-brain/internal/analyzers"
	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/pkg/httpclient"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

// strippedTags are removed wholesale before extracting visible text:
// scripts, styling, and page chrome that would pollute the corpus.
var strippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"header":   true,
	"footer":   true,
	"nav":      true,
	"aside":    true,
}

// WebExtractor fetches a generic web page and extracts its visible text.
// A separate media-harvesting step OCRs a bounded number of embedded
// images; those results become independent records keyed by image URL.
type WebExtractor struct {
	cfg    Config
	client *httpclient.Client
	ocr    analyzers.ImageAnalyzer
	log    *logger.Logger
}

func (e *WebExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	body, err := e.client.Get(ctx, in.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}

	text := extractVisibleText(bytes.NewReader(body))
	if strings.TrimSpace(text) == "" {
		text = schema.SentinelNoWebText
	}

	return []schema.TextRecord{{
		Content: text,
		Meta: schema.Provenance{
			Source:      in.URL,
			FileType:    schema.FileTypeURL,
			ContentKind: schema.KindURL,
		},
	}}, nil
}

// HarvestImages scans the page's <img> tags, resolves their URLs, filters
// out declared-small decorative assets, and OCRs at most MaxImagesPerPage
// candidates concurrently. Every successful OCR with real text becomes its
// own record with the image URL as source. Failures are soft: a dead page
// or a failed image simply contributes nothing.
func (e *WebExtractor) HarvestImages(ctx context.Context, pageURL string) []schema.TextRecord {
	body, err := e.client.Get(ctx, pageURL, nil)
	if err != nil {
		e.log.WithErr(err).Warn(fmt.Sprintf("media harvest: could not refetch %s", pageURL))
		return nil
	}

	candidates := e.imageCandidates(pageURL, bytes.NewReader(body))
	if len(candidates) > e.cfg.MaxImagesPerPage {
		candidates = candidates[:e.cfg.MaxImagesPerPage]
	}

	// OCR the capped candidate set concurrently; the cap bounds both
	// attempts and in-flight work regardless of page size.
	results := make([]string, len(candidates))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.MaxImagesPerPage)
	for i, imgURL := range candidates {
		eg.Go(func() error {
			data, err := e.client.Get(gCtx, imgURL, nil)
			if err != nil {
				e.log.WithErr(err).Warn(fmt.Sprintf("media harvest: fetch failed for %s", imgURL))
				return nil
			}
			text, err := e.ocr.OCRImage(gCtx, data)
			if err != nil {
				e.log.WithErr(err).Warn(fmt.Sprintf("media harvest: ocr failed for %s", imgURL))
				return nil
			}
			if text != schema.SentinelNoTextDetected {
				results[i] = text
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil
	}

	var records []schema.TextRecord
	for i, text := range results {
		if text == "" {
			continue
		}
		records = append(records, schema.TextRecord{
			Content: text,
			Meta: schema.Provenance{
				Source:      candidates[i],
				FileType:    schema.FileTypeImageOCR,
				ContentKind: schema.KindImageOCR,
			},
		})
	}
	return records
}

// imageCandidates returns absolute image URLs that pass the decorative
// filter, in document order.
func (e *WebExtractor) imageCandidates(pageURL string, body io.Reader) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	root, err := html.Parse(body)
	if err != nil {
		return nil
	}

	var candidates []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" {
			if src := imageSrc(n, base, e.cfg.MinImagePixels); src != "" {
				candidates = append(candidates, src)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return candidates
}

func imageSrc(n *html.Node, base *url.URL, minPixels int) string {
	var src, width, height string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "src":
			src = attr.Val
		case "width":
			width = attr.Val
		case "height":
			height = attr.Val
		}
	}
	if src == "" {
		return ""
	}
	// Non-numeric declared sizes ("100%") pass through, like an absent one.
	if w, err := strconv.Atoi(width); err == nil && w < minPixels {
		return ""
	}
	if h, err := strconv.Atoi(height); err == nil && h < minPixels {
		return ""
	}

	ref, err := url.Parse(src)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// extractVisibleText walks the HTML token stream, drops stripped elements,
// and joins the remaining text nodes with single spaces.
func extractVisibleText(body io.Reader) string {
	z := html.NewTokenizer(body)
	skipDepth := 0
	var sb strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if strippedTags[string(name)] {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if strippedTags[string(name)] && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			text := strings.TrimSpace(string(z.Text()))
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(text)
			}
		}
	}
}

var _ Extractor = (*WebExtractor)(nil)
