package extractors

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/pkg/httpclient"
)

// videoIDPattern accepts the URL shapes YouTube uses for a single video:
// watch?v=, youtu.be/, embed/. Video identifiers are always 11 characters.
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/|embed/|watch\?v=)([A-Za-z0-9_\-]{11})`)

// YouTubeExtractor fetches a video transcript through the external
// transcript capability. A video without a transcript is a successful
// outcome carrying the no-transcript sentinel, not a failure.
type YouTubeExtractor struct {
	cfg    Config
	client *httpclient.Client
}

func (e *YouTubeExtractor) Extract(ctx context.Context, in Input) ([]schema.TextRecord, error) {
	match := videoIDPattern.FindStringSubmatch(in.URL)
	if match == nil {
		return nil, fmt.Errorf("could not extract a valid YouTube video ID from %q", in.URL)
	}
	videoID := match[1]

	data, err := fetchPlatformJSON(ctx, e.client, e.cfg.YouTubeEndpoint, e.cfg.RapidAPIKey, url.Values{
		"videoId": {videoID},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch transcript: %w", err)
	}

	segments := data.Get("transcript")
	if !segments.IsArray() {
		return nil, fmt.Errorf("transcript not found or API returned an invalid format")
	}

	var parts []string
	segments.ForEach(func(_, segment gjson.Result) bool {
		if text := segment.Get("text"); text.Exists() {
			parts = append(parts, text.String())
		}
		return true
	})

	transcript := strings.TrimSpace(strings.Join(parts, " "))
	if transcript == "" {
		return []schema.TextRecord{{
			Content: schema.SentinelNoTranscript,
			Meta: schema.Provenance{
				Source:      in.URL,
				FileType:    schema.FileTypeYouTube,
				ContentKind: schema.KindYouTubeNoTranscript,
			},
		}}, nil
	}

	return []schema.TextRecord{{
		Content: transcript,
		Meta: schema.Provenance{
			Source:      in.URL,
			FileType:    schema.FileTypeYouTube,
			ContentKind: schema.KindYouTube,
		},
	}}, nil
}

var _ Extractor = (*YouTubeExtractor)(nil)
