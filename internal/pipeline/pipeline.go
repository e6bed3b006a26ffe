// Package pipeline orchestrates the two halves of the system: ingestion
// (classify, extract, archive, chunk, embed, index) and querying (embed,
// retrieve, attribute, synthesize). Each request is all-or-nothing: a hard
// failure anywhere leaves the index untouched.
package pipeline

import (
	"context"

	"github.com/prannavdeshpande/second-brain/internal/schema"
)

// VectorStore is the chunk index surface the pipelines depend on.
type VectorStore interface {
	Add(ctx context.Context, chunks []schema.Chunk) error
	Search(ctx context.Context, embedding []float32, topK int) ([]schema.Chunk, error)
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// ObjectStore archives original uploads. A nil ObjectStore means degraded
// mode: ingestion proceeds with a placeholder locator.
type ObjectStore interface {
	Put(ctx context.Context, filename string, data []byte) (string, error)
}

// AnswerSynthesizer produces a grounded answer from retrieved passages.
type AnswerSynthesizer interface {
	Answer(ctx context.Context, question string, passages []string) (string, error)
}
