package chunker

import (
	"fmt"
	"unicode"

	"github.com/google/uuid"

	"github.com/prannavdeshpande/second-brain/internal/schema"
)

const (
	// DefaultMaxLen and DefaultOverlap match the splitter settings the
	// corpus was originally indexed with.
	DefaultMaxLen  = 1000
	DefaultOverlap = 200
)

// Chunker splits text records into overlapping windows of at most MaxLen
// characters with Overlap characters of repeated context between
// consecutive windows. It prefers natural boundaries (paragraph, sentence,
// word) before falling back to a hard character cut.
type Chunker struct {
	MaxLen  int
	Overlap int
}

// New creates a Chunker. Zero values select the defaults; Overlap must be
// strictly less than MaxLen.
func New(maxLen, overlap int) (*Chunker, error) {
	if maxLen == 0 {
		maxLen = DefaultMaxLen
	}
	if overlap == 0 {
		overlap = DefaultOverlap
	}
	if maxLen <= 0 {
		return nil, fmt.Errorf("chunker: maxLen must be positive, got %d", maxLen)
	}
	if overlap < 0 || overlap >= maxLen {
		return nil, fmt.Errorf("chunker: overlap %d must be in [0, maxLen=%d)", overlap, maxLen)
	}
	return &Chunker{MaxLen: maxLen, Overlap: overlap}, nil
}

// Split turns every record into one or more chunks. Each chunk inherits
// the record's full provenance untouched, plus its 0-based index and the
// character offset into the parent content. A record whose content is
// empty still produces exactly one chunk, so downstream systems can
// account for every ingested source.
func (c *Chunker) Split(records []schema.TextRecord) []schema.Chunk {
	var chunks []schema.Chunk
	for _, rec := range records {
		chunks = append(chunks, c.splitRecord(rec)...)
	}
	return chunks
}

func (c *Chunker) splitRecord(rec schema.TextRecord) []schema.Chunk {
	runes := []rune(rec.Content)

	var chunks []schema.Chunk
	emit := func(start, end int) {
		chunks = append(chunks, schema.Chunk{
			ID:               uuid.New().String(),
			Content:          string(runes[start:end]),
			Meta:             rec.Meta,
			ChunkIndex:       len(chunks),
			ChunkStartOffset: start,
		})
	}

	if len(runes) <= c.MaxLen {
		emit(0, len(runes))
		return chunks
	}

	start := 0
	for {
		end := start + c.MaxLen
		if end >= len(runes) {
			emit(start, len(runes))
			return chunks
		}
		cut := c.findBreak(runes, start, end)
		emit(start, cut)

		next := cut - c.Overlap
		if next <= start {
			// A short tail window would otherwise loop forever.
			next = cut
		}
		start = next
	}
}

// findBreak picks a cut position in (start, end], preferring a paragraph
// break, then a sentence end, then a word boundary. Breaks in the first
// half of the window are rejected so chunks stay close to MaxLen.
func (c *Chunker) findBreak(runes []rune, start, end int) int {
	minCut := start + (end-start)/2

	for i := end - 1; i > minCut; i-- {
		if runes[i] == '\n' && runes[i-1] == '\n' {
			return i + 1
		}
	}
	for i := end - 1; i > minCut; i-- {
		if isSentenceEnd(runes[i-1]) && unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	for i := end - 1; i > minCut; i-- {
		if unicode.IsSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
