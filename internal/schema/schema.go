package schema

// FileType vocabulary. A file-based ingest carries its lowercase extension
// (so image and audio/video ingests record "jpg", "mp4", ...); a URL ingest
// carries the platform that produced it.
const (
	FileTypePDF       = "pdf"
	FileTypeDocx      = "docx"
	FileTypeTxt       = "txt"
	FileTypeMarkdown  = "md"
	FileTypeURL       = "url"
	FileTypeYouTube   = "youtube"
	FileTypeTwitter   = "twitter"
	FileTypeInstagram = "instagram"
	FileTypeImageOCR  = "image_ocr"
	FileTypeError     = "error"
)

// ContentKind values set by extractors. The citation layer groups results
// by these tags, so they are fixed strings, not derived.
const (
	KindURL                 = "url"
	KindYouTube             = "youtube"
	KindYouTubeNoTranscript = "youtube_no_transcript"
	KindYouTubeError        = "youtube_error"
	KindTwitterThreadItem   = "twitter_thread_item"
	KindTwitterError        = "twitter_error"
	KindInstagram           = "instagram"
	KindInstagramError      = "instagram_error"
	KindImageOCR            = "image_ocr"
	KindError               = "error"
)

// Sentinel content emitted when an analyzer or extractor succeeds but has
// nothing to say. Absence of text is a valid outcome, distinct from failure,
// and these records are indexed like any other content.
const (
	SentinelNoTextDetected  = "Image uploaded but no text detected."
	SentinelNoTranscription = "Audio/Video file uploaded but transcription is not available."
	SentinelNoWebText       = "No text content could be extracted from this URL."
	SentinelNoTranscript    = "Transcript for this video is unavailable or empty."
	SentinelNoTweets        = "No valid tweet content was found."
)

// Provenance is the canonical metadata attached to every text record and
// every chunk derived from it. Extractors populate Source, FileType,
// ContentKind and Author; the ingestion pipeline fills Filename and
// ArchiveLocator for file-based ingests. Once a Chunk is built the record
// is never mutated again.
type Provenance struct {
	// Source is the stable identifier of the origin: a URL, a filename, or
	// the parent URL for sub-items such as an image embedded in a tweet.
	Source string `json:"source"`

	// Filename is the human-readable original name; defaults to Source.
	Filename string `json:"filename,omitempty"`

	// FileType is one of the FileType* constants.
	FileType string `json:"file_type"`

	// ArchiveLocator is the durable locator returned by the object store
	// for file-based ingests. A "local://" value marks degraded mode, not
	// an error. Empty for URL-based ingests.
	ArchiveLocator string `json:"s3_path,omitempty"`

	// ContentKind is the fine-grained variant tag, one of the Kind* constants.
	ContentKind string `json:"content_type,omitempty"`

	// Author is populated only by the social-media extractors.
	Author string `json:"author,omitempty"`

	// ParentSource links a sub-item (tweet photo OCR) back to the post it
	// was attached to. Web-page image OCR deliberately does not use this;
	// those records are independent documents keyed by the image URL.
	ParentSource string `json:"parent_source,omitempty"`
}

// DocumentIdentity is the identity used for citation deduplication: two
// chunks with the same ArchiveLocator, or failing that the same Source,
// originate from the same logical document.
func (p Provenance) DocumentIdentity() string {
	if p.ArchiveLocator != "" {
		return p.ArchiveLocator
	}
	return p.Source
}

// TextRecord is the pre-chunk unit of extracted text. It is owned by the
// extractor that created it until handed to the chunker and is never
// persisted.
type TextRecord struct {
	Content string
	Meta    Provenance
}

// Chunk is the unit stored in the vector index: bounded-length text with
// complete provenance. Created only by the chunker; immutable afterwards.
type Chunk struct {
	ID      string
	Content string
	Meta    Provenance

	// ChunkIndex is the 0-based position of this chunk within its parent
	// record; ChunkStartOffset is the character offset into the parent
	// content where this chunk begins.
	ChunkIndex       int
	ChunkStartOffset int

	// Embedding is attached by the indexing pipeline before storage.
	Embedding []float32

	// Score is the retrieval similarity score; only set on query results.
	Score float32
}

// SourceInfo is the deduplicated, user-facing reference to one originating
// document backing an answer. JSON keys match the external API contract.
type SourceInfo struct {
	ArchiveLocator string `json:"s3_path"`
	Filename       string `json:"filename"`
	FileType       string `json:"file_type"`
	Source         string `json:"source"`
	ContentKind    string `json:"content_type"`
}
