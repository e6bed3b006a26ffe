package extractors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/pkg/httpclient"
)

func timelineJSON(entries string) string {
	return fmt.Sprintf(`{
		"data": {
			"threaded_conversation_with_injections_v2": {
				"instructions": [
					{"type": "TimelineClearCache"},
					{"type": "TimelineAddEntries", "entries": [%s]}
				]
			}
		}
	}`, entries)
}

func tweetEntry(text, name, screenName, photoURL string) string {
	media := ""
	if photoURL != "" {
		media = fmt.Sprintf(`,"extended_entities":{"media":[
			{"type":"video","media_url_https":"https://ignored.example/video"},
			{"type":"photo","media_url_https":"%s"}
		]}`, photoURL)
	}
	return fmt.Sprintf(`{
		"content": {
			"itemContent": {
				"itemType": "TimelineTweet",
				"tweet_results": {
					"result": {
						"__typename": "Tweet",
						"legacy": {"full_text": "%s"%s},
						"core": {"user_results": {"result": {"legacy": {"name": "%s", "screen_name": "%s"}}}}
					}
				}
			}
		}
	}`, text, media, name, screenName)
}

func newTwitterExtractor(endpoint string, ocr *fakeOCR) *TwitterExtractor {
	return &TwitterExtractor{
		cfg: Config{
			RapidAPIKey:     "test-key",
			TwitterEndpoint: endpoint,
		}.withDefaults(),
		client: httpclient.New(0),
		ocr:    ocr,
		log:    testLogger(),
	}
}

func TestTwitterExtractThread(t *testing.T) {
	var gotPID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPID = r.URL.Query().Get("pid")
		fmt.Fprint(w, timelineJSON(
			tweetEntry("First tweet in the thread", "Jane Doe", "jane", "")+","+
				tweetEntry("Reply tweet", "John Roe", "john", ""),
		))
	}))
	defer srv.Close()

	tweetURL := "https://x.com/jane/status/12345"
	records, err := newTwitterExtractor(srv.URL, &fakeOCR{}).Extract(context.Background(), Input{URL: tweetURL})
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "12345", gotPID)
	assert.Equal(t, "Author: Jane Doe (@jane)\n\nTweet: First tweet in the thread", records[0].Content)
	assert.Equal(t, "Author: John Roe (@john)\n\nTweet: Reply tweet", records[1].Content)
	for _, rec := range records {
		assert.Equal(t, tweetURL, rec.Meta.Source)
		assert.Equal(t, schema.FileTypeTwitter, rec.Meta.FileType)
		assert.Equal(t, schema.KindTwitterThreadItem, rec.Meta.ContentKind)
	}
	assert.Equal(t, "Jane Doe", records[0].Meta.Author)
}

// Photo OCR results become child records of their tweet: same source,
// parent link set, image kind, author preserved.
func TestTwitterPhotoAttachmentsBecomeChildRecords(t *testing.T) {
	imgSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "tweet-photo-bytes")
	}))
	defer imgSrv.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timelineJSON(tweetEntry("Look at this chart", "Jane Doe", "jane", imgSrv.URL+"/photo1")))
	}))
	defer srv.Close()

	ocr := &fakeOCR{results: map[string]string{"tweet-photo-bytes": "Q3 revenue up 40%"}}
	tweetURL := "https://twitter.com/jane/status/777"
	records, err := newTwitterExtractor(srv.URL, ocr).Extract(context.Background(), Input{URL: tweetURL})
	require.NoError(t, err)
	require.Len(t, records, 2)

	photo := records[1]
	assert.Equal(t, "Q3 revenue up 40%", photo.Content)
	assert.Equal(t, tweetURL, photo.Meta.Source)
	assert.Equal(t, tweetURL, photo.Meta.ParentSource)
	assert.Equal(t, schema.FileTypeImageOCR, photo.Meta.FileType)
	assert.Equal(t, schema.KindImageOCR, photo.Meta.ContentKind)
	assert.Equal(t, "Jane Doe", photo.Meta.Author)
}

// A response with no usable tweets is still a successful ingest carrying
// the sentinel.
func TestTwitterEmptyTimelineYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timelineJSON(""))
	}))
	defer srv.Close()

	tweetURL := "https://x.com/someone/status/999"
	records, err := newTwitterExtractor(srv.URL, &fakeOCR{}).Extract(context.Background(), Input{URL: tweetURL})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, schema.SentinelNoTweets, rec.Content)
	assert.Equal(t, schema.FileTypeTwitter, rec.Meta.FileType)
	assert.Equal(t, schema.KindTwitterError, rec.Meta.ContentKind)
	assert.Equal(t, tweetURL, rec.Meta.Source)
}

func TestTwitterMissingStatusIDIsError(t *testing.T) {
	_, err := newTwitterExtractor("http://unused.invalid", &fakeOCR{}).Extract(context.Background(), Input{
		URL: "https://x.com/jane",
	})
	assert.Error(t, err)
}

func TestTwitterFailedPhotoOCRIsOmitted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timelineJSON(tweetEntry("Tweet text", "Jane", "jane", "http://127.0.0.1:0/photo")))
	}))
	defer srv.Close()

	records, err := newTwitterExtractor(srv.URL, &fakeOCR{}).Extract(context.Background(), Input{
		URL: "https://x.com/jane/status/1",
	})
	require.NoError(t, err)
	// Only the tweet record survives; the unreachable photo contributes
	// nothing.
	require.Len(t, records, 1)
	assert.Equal(t, schema.KindTwitterThreadItem, records[0].Meta.ContentKind)
}
