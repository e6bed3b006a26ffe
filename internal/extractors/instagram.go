package extractors

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/prannavdeshpande/second-brain/internal/analyzers"
	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/pkg/httpclient"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

var mediaCodePattern = regexp.MustCompile(`/(p|reel)/([^/]+)`)

// InstagramExtractor fetches a post through the external media capability
// and assembles one combined record per post: author, caption, and a
// labeled, ordered concatenation of every carousel item's video transcript
// or image OCR. A failed item is simply omitted from the concatenation.
type InstagramExtractor struct {
	cfg    Config
	client *httpclient.Client
	ocr    analyzers.ImageAnalyzer
	speech analyzers.SpeechAnalyzer
	log    *logger.Logger
}

func (e *InstagramExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	match := mediaCodePattern.FindStringSubmatch(in.URL)
	if match == nil {
		return nil, fmt.Errorf("could not extract a valid media code from %q", in.URL)
	}

	data, err := fetchPlatformJSON(ctx, e.client, e.cfg.InstagramEndpoint, e.cfg.RapidAPIKey, url.Values{
		"media_code": {match[2]},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch instagram media: %w", err)
	}

	author := stringOr(data.Get("owner.username"), "Unknown Author")
	caption := instagramCaption(data)
	nodes := instagramNodes(data)

	// Analyze all items of this one post concurrently; blocks keep the
	// original carousel order regardless of completion order.
	blocks := make([]string, len(nodes))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.MaxImagesPerPage)
	for i, node := range nodes {
		eg.Go(func() error {
			blocks[i] = e.analyzeItem(gCtx, i+1, node)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Author: @%s\n\nCaption: %s", author, caption)
	for _, block := range blocks {
		if block != "" {
			sb.WriteString("\n\n")
			sb.WriteString(block)
		}
	}

	return []schema.TextRecord{{
		Content: sb.String(),
		Meta: schema.Provenance{
			Source:      in.URL,
			FileType:    schema.FileTypeInstagram,
			ContentKind: schema.KindInstagram,
			Author:      author,
		},
	}}, nil
}

// analyzeItem produces the labeled text block for one carousel item, or
// an empty string when the item yields nothing usable.
func (e *InstagramExtractor) analyzeItem(ctx context.Context, itemNum int, node gjson.Result) string {
	if node.Get("is_video").Bool() {
		videoURL := node.Get("video_url").String()
		if videoURL == "" {
			return ""
		}
		transcript := e.transcribeVideo(ctx, videoURL)
		if transcript == "" {
			return ""
		}
		return fmt.Sprintf("--- Item %d (Video Transcript) ---\n%s", itemNum, transcript)
	}

	displayURL := node.Get("display_url").String()
	if displayURL == "" {
		return ""
	}
	imgData, err := e.client.Get(ctx, displayURL, nil)
	if err != nil {
		e.log.WithErr(err).Warn(fmt.Sprintf("instagram image fetch failed: %s", displayURL))
		return ""
	}
	text, err := e.ocr.OCRImage(ctx, imgData)
	if err != nil {
		e.log.WithErr(err).Warn(fmt.Sprintf("instagram image ocr failed: %s", displayURL))
		return ""
	}
	if text == schema.SentinelNoTextDetected {
		return ""
	}
	return fmt.Sprintf("--- Item %d (Image OCR) ---\n%s", itemNum, text)
}

// transcribeVideo downloads the video to scoped temp storage, transcribes
// it, and removes the file on every exit path. Failures are soft.
func (e *InstagramExtractor) transcribeVideo(ctx context.Context, videoURL string) string {
	tmpPath, err := e.client.DownloadToTemp(ctx, videoURL, "instagram-*.mp4")
	if err != nil {
		e.log.WithErr(err).Warn(fmt.Sprintf("instagram video download failed: %s", videoURL))
		return ""
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			e.log.WithErr(err).Warn("could not remove temporary video file")
		}
	}()

	transcript, err := e.speech.TranscribeFile(ctx, tmpPath)
	if err != nil {
		e.log.WithErr(err).Warn(fmt.Sprintf("instagram video transcription failed: %s", videoURL))
		return ""
	}
	if transcript == schema.SentinelNoTranscription {
		return ""
	}
	return transcript
}

func instagramCaption(data gjson.Result) string {
	if text := data.Get("edge_media_to_caption.edges.0.node.text").String(); text != "" {
		return text
	}
	if text := data.Get("caption.text").String(); text != "" {
		return text
	}
	return "No caption found."
}

// instagramNodes detects carousel posts and returns every media node;
// single-media posts contribute the post object itself.
func instagramNodes(data gjson.Result) []gjson.Result {
	edges := data.Get("edge_sidecar_to_children.edges")
	if edges.IsArray() && len(edges.Array()) > 0 {
		var nodes []gjson.Result
		edges.ForEach(func(_, edge gjson.Result) bool {
			nodes = append(nodes, edge.Get("node"))
			return true
		})
		return nodes
	}
	return []gjson.Result{data}
}

var _ Extractor = (*InstagramExtractor)(nil)
