package classifier

import (
	"path/filepath"
	"regexp"
	"strings"
)

// SourceKind is the closed classification of an ingestion input. New kinds
// are added here and given a handler in the extractors package, never by
// chaining conditionals at call sites.
type SourceKind int

const (
	KindUnsupported SourceKind = iota
	KindPDF
	KindDocx
	KindPlainText
	KindImage
	KindAudioVideo
	KindWeb
	KindYouTube
	KindTwitter
	KindInstagram
)

var kindNames = map[SourceKind]string{
	KindUnsupported: "unsupported",
	KindPDF:         "pdf",
	KindDocx:        "docx",
	KindPlainText:   "plain-text",
	KindImage:       "image",
	KindAudioVideo:  "audio-video",
	KindWeb:         "generic-web",
	KindYouTube:     "youtube",
	KindTwitter:     "twitter",
	KindInstagram:   "instagram",
}

func (k SourceKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unsupported"
}

var extensionKinds = map[string]SourceKind{
	"pdf":  KindPDF,
	"docx": KindDocx,
	"txt":  KindPlainText,
	"md":   KindPlainText,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"png":  KindImage,
	"gif":  KindImage,
	"bmp":  KindImage,
	"tiff": KindImage,
	"mp3":  KindAudioVideo,
	"mp4":  KindAudioVideo,
	"wav":  KindAudioVideo,
	"m4a":  KindAudioVideo,
	"flac": KindAudioVideo,
	"ogg":  KindAudioVideo,
}

// urlMatcher pairs a platform kind with the patterns that claim a URL.
// Matchers are tried in slice order: YouTube before Twitter/X before
// Instagram. The pattern sets are mutually exclusive by construction; the
// order is the documented tie-break of last resort.
type urlMatcher struct {
	kind     SourceKind
	patterns []*regexp.Regexp
}

var urlMatchers = []urlMatcher{
	{KindYouTube, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(https?://)?(www\.)?(youtube\.com|youtu\.be)`),
	}},
	{KindTwitter, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(https?://)?(www\.)?(twitter\.com|x\.com)`),
	}},
	{KindInstagram, []*regexp.Regexp{
		regexp.MustCompile(`(?i)(https?://)?(www\.)?instagram\.com`),
	}},
}

// ClassifyFile maps a filename to a SourceKind by its lowercase extension.
// Unknown extensions classify to KindUnsupported, which callers must treat
// as a non-retryable input error, not a pipeline fault.
func ClassifyFile(filename string) SourceKind {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	return KindUnsupported
}

// ClassifyURL maps a URL string to a platform kind, falling back to
// KindWeb. It is pure and total: every string maps to exactly one kind.
func ClassifyURL(rawURL string) SourceKind {
	for _, m := range urlMatchers {
		for _, p := range m.patterns {
			if p.MatchString(rawURL) {
				return m.kind
			}
		}
	}
	return KindWeb
}

// FileExtension returns the lowercase extension without the dot, which is
// what file-based provenance records carry as their file type.
func FileExtension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
}
