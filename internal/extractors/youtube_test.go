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

func newYouTubeExtractor(endpoint string) *YouTubeExtractor {
	return &YouTubeExtractor{
		cfg: Config{
			RapidAPIKey:     "test-key",
			YouTubeEndpoint: endpoint,
		}.withDefaults(),
		client: httpclient.New(0),
	}
}

func TestYouTubeExtractJoinsSegments(t *testing.T) {
	var gotVideoID, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotVideoID = r.URL.Query().Get("videoId")
		gotKey = r.Header.Get("x-rapidapi-key")
		fmt.Fprint(w, `{"transcript":[{"text":"never gonna"},{"text":"give you up"}]}`)
	}))
	defer srv.Close()

	records, err := newYouTubeExtractor(srv.URL).Extract(context.Background(), Input{
		URL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "dQw4w9WgXcQ", gotVideoID)
	assert.Equal(t, "test-key", gotKey)

	rec := records[0]
	assert.Equal(t, "never gonna give you up", rec.Content)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", rec.Meta.Source)
	assert.Equal(t, schema.FileTypeYouTube, rec.Meta.FileType)
	assert.Equal(t, schema.KindYouTube, rec.Meta.ContentKind)
}

func TestYouTubeShortURLForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"transcript":[{"text":"hello"}]}`)
	}))
	defer srv.Close()

	records, err := newYouTubeExtractor(srv.URL).Extract(context.Background(), Input{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "hello", records[0].Content)
}

// An empty transcript is a successful outcome: the sentinel is indexed
// under its own content kind, not treated as a failure.
func TestYouTubeEmptyTranscriptYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"transcript":[]}`)
	}))
	defer srv.Close()

	records, err := newYouTubeExtractor(srv.URL).Extract(context.Background(), Input{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, schema.SentinelNoTranscript, rec.Content)
	assert.Equal(t, schema.FileTypeYouTube, rec.Meta.FileType)
	assert.Equal(t, schema.KindYouTubeNoTranscript, rec.Meta.ContentKind)
}

func TestYouTubeInvalidVideoIDIsError(t *testing.T) {
	_, err := newYouTubeExtractor("http://unused.invalid").Extract(context.Background(), Input{
		URL: "https://www.youtube.com/playlist?list=abc",
	})
	assert.Error(t, err)
}

func TestYouTubeMissingTranscriptFieldIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"quota exceeded"}`)
	}))
	defer srv.Close()

	_, err := newYouTubeExtractor(srv.URL).Extract(context.Background(), Input{
		URL: "https://youtu.be/dQw4w9WgXcQ",
	})
	assert.Error(t, err)
}
