package extractors

import (
	"context"
	"fmt"
	"net/url"
	"regexp"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/prannavdeshpande/second-brain/internal/analyzers"
	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/pkg/httpclient"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

var tweetIDPattern = regexp.MustCompile(`status/(\d+)`)

// TwitterExtractor fetches a tweet thread through the external timeline
// capability and emits one record per tweet, plus OCR records for photo
// attachments. Photo records stay children of their tweet: they carry the
// tweet URL as source and parent_source rather than becoming independent
// documents, unlike web-page image harvesting.
type TwitterExtractor struct {
	cfg    Config
	client *httpclient.Client
	ocr    analyzers.ImageAnalyzer
	log    *logger.Logger
}

type tweetItem struct {
	author     string
	screenName string
	text       string
	photos     []string
}

func (e *TwitterExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	match := tweetIDPattern.FindStringSubmatch(in.URL)
	if match == nil {
		return nil, fmt.Errorf("could not extract tweet ID from %q", in.URL)
	}

	data, err := fetchPlatformJSON(ctx, e.client, e.cfg.TwitterEndpoint, e.cfg.RapidAPIKey, url.Values{
		"pid": {match[1]},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch tweet thread: %w", err)
	}

	items := parseTweetEntries(data)
	if len(items) == 0 {
		return []schema.TextRecord{{
			Content: schema.SentinelNoTweets,
			Meta: schema.Provenance{
				Source:      in.URL,
				FileType:    schema.FileTypeTwitter,
				ContentKind: schema.KindTwitterError,
			},
		}}, nil
	}

	// Photo OCR for the items of this one post runs concurrently, bounded
	// by the same fan-out cap as web harvesting.
	ocrTexts := make([][]string, len(items))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.cfg.MaxImagesPerPage)
	for i, item := range items {
		ocrTexts[i] = make([]string, len(item.photos))
		for j, photoURL := range item.photos {
			eg.Go(func() error {
				imgData, err := e.client.Get(gCtx, photoURL, nil)
				if err != nil {
					e.log.WithErr(err).Warn(fmt.Sprintf("tweet photo fetch failed: %s", photoURL))
					return nil
				}
				text, err := e.ocr.OCRImage(gCtx, imgData)
				if err != nil {
					e.log.WithErr(err).Warn(fmt.Sprintf("tweet photo ocr failed: %s", photoURL))
					return nil
				}
				if text != schema.SentinelNoTextDetected {
					ocrTexts[i][j] = text
				}
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var records []schema.TextRecord
	for i, item := range items {
		records = append(records, schema.TextRecord{
			Content: fmt.Sprintf("Author: %s (@%s)\n\nTweet: %s", item.author, item.screenName, item.text),
			Meta: schema.Provenance{
				Source:      in.URL,
				FileType:    schema.FileTypeTwitter,
				ContentKind: schema.KindTwitterThreadItem,
				Author:      item.author,
			},
		})
		for _, text := range ocrTexts[i] {
			if text == "" {
				continue
			}
			records = append(records, schema.TextRecord{
				Content: text,
				Meta: schema.Provenance{
					Source:       in.URL,
					ParentSource: in.URL,
					FileType:     schema.FileTypeImageOCR,
					ContentKind:  schema.KindImageOCR,
					Author:       item.author,
				},
			})
		}
	}
	return records, nil
}

// parseTweetEntries walks the timeline response, keeping only entries
// whose item type indicates a tweet with non-empty text.
func parseTweetEntries(data gjson.Result) []tweetItem {
	var entries gjson.Result
	data.Get("data.threaded_conversation_with_injections_v2.instructions").
		ForEach(func(_, inst gjson.Result) bool {
			if inst.Get("type").String() == "TimelineAddEntries" {
				entries = inst.Get("entries")
				return false
			}
			return true
		})

	var items []tweetItem
	entries.ForEach(func(_, entry gjson.Result) bool {
		itemContent := entry.Get("content.itemContent")
		if itemContent.Get("itemType").String() != "TimelineTweet" {
			return true
		}
		result := itemContent.Get("tweet_results.result")
		if result.Get("__typename").String() != "Tweet" {
			return true
		}
		legacy := result.Get("legacy")
		text := legacy.Get("full_text").String()
		if text == "" {
			return true
		}

		userLegacy := result.Get("core.user_results.result.legacy")
		item := tweetItem{
			author:     stringOr(userLegacy.Get("name"), "Unknown Author"),
			screenName: stringOr(userLegacy.Get("screen_name"), "unknown"),
			text:       text,
		}
		legacy.Get("extended_entities.media").ForEach(func(_, media gjson.Result) bool {
			if media.Get("type").String() == "photo" {
				if photoURL := media.Get("media_url_https").String(); photoURL != "" {
					item.photos = append(item.photos, photoURL)
				}
			}
			return true
		})
		items = append(items, item)
		return true
	})
	return items
}

func stringOr(res gjson.Result, fallback string) string {
	if s := res.String(); s != "" {
		return s
	}
	return fallback
}

var _ Extractor = (*TwitterExtractor)(nil)
