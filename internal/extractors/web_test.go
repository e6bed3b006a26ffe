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

func newWebExtractor(ocr *fakeOCR) *WebExtractor {
	return &WebExtractor{
		cfg:    Config{}.withDefaults(),
		client: httpclient.New(0),
		ocr:    ocr,
		log:    testLogger(),
	}
}

func TestWebExtractStripsPageChrome(t *testing.T) {
	page := `<html><head>
		<script>var x = "script noise";</script>
		<style>.hidden { display:none }</style>
	</head><body>
		<header>site header</header>
		<nav>nav links</nav>
		<aside>sidebar junk</aside>
		<p>First visible paragraph.</p>
		<p>Second visible paragraph.</p>
		<footer>footer text</footer>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	records, err := newWebExtractor(&fakeOCR{}).Extract(context.Background(), Input{URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "First visible paragraph. Second visible paragraph.", rec.Content)
	assert.Equal(t, srv.URL, rec.Meta.Source)
	assert.Equal(t, schema.FileTypeURL, rec.Meta.FileType)
	assert.Equal(t, schema.KindURL, rec.Meta.ContentKind)
}

func TestWebExtractEmptyPageYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><script>only noise</script></body></html>`)
	}))
	defer srv.Close()

	records, err := newWebExtractor(&fakeOCR{}).Extract(context.Background(), Input{URL: srv.URL})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, schema.SentinelNoWebText, records[0].Content)
}

func TestWebExtractDeadPageIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newWebExtractor(&fakeOCR{}).Extract(context.Background(), Input{URL: srv.URL})
	assert.Error(t, err)
}

// A page with more images than the cap gets at most MaxImagesPerPage OCR
// attempts, counted against attempts rather than successes.
func TestHarvestImagesCapsOCRAttempts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "image-payload-%s", r.URL.Path)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>")
		for i := 0; i < 8; i++ {
			fmt.Fprintf(w, `<img src="/img/%d">`, i)
		}
		fmt.Fprint(w, "</body></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ocr := &fakeOCR{results: map[string]string{"image-payload": "text from image"}}
	records := newWebExtractor(ocr).HarvestImages(context.Background(), srv.URL)

	assert.Equal(t, 5, ocr.callCount())
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, "text from image", rec.Content)
		assert.Equal(t, schema.FileTypeImageOCR, rec.Meta.FileType)
		assert.Equal(t, schema.KindImageOCR, rec.Meta.ContentKind)
		// Each harvested image is an independent document keyed by its
		// own URL, in document order.
		assert.Equal(t, fmt.Sprintf("%s/img/%d", srv.URL, i), rec.Meta.Source)
		assert.Empty(t, rec.Meta.ParentSource)
	}
}

func TestHarvestImagesSkipsDeclaredSmallImages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "image-payload")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<img src="/img/icon" width="16" height="16">
			<img src="/img/banner" width="50">
			<img src="/img/photo" width="800" height="600">
			<img src="/img/fluid" width="100%">
		</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	ocr := &fakeOCR{results: map[string]string{"image-payload": "real text"}}
	records := newWebExtractor(ocr).HarvestImages(context.Background(), srv.URL)

	// icon and banner are filtered by declared size; photo passes, and the
	// non-numeric "100%" width passes like an absent one.
	assert.Equal(t, 2, ocr.callCount())
	assert.Len(t, records, 2)
}

func TestHarvestImagesDropsSentinelResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "blank-image")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><img src="/img/1"></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	// fakeOCR returns the no-text sentinel for unknown payloads.
	records := newWebExtractor(&fakeOCR{}).HarvestImages(context.Background(), srv.URL)
	assert.Empty(t, records)
}

func TestHarvestImagesDeadPageIsSoft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	records := newWebExtractor(&fakeOCR{}).HarvestImages(context.Background(), srv.URL)
	assert.Empty(t, records)
}
