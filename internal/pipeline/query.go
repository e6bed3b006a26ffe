package pipeline

import (
	"context"
	"fmt"

	"github.com/prannavdeshpande/second-brain/internal/attribution"
	"github.com/prannavdeshpande/second-brain/internal/embedding"
	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

// DefaultTopK is the retrieval depth used when the caller does not ask
// for a specific one.
const DefaultTopK = 5

// QueryResult is one answered question: the synthesized answer plus the
// deduplicated source documents backing it, in relevance order.
type QueryResult struct {
	Answer  string
	Sources []schema.SourceInfo
}

// Querier runs the retrieval pipeline end to end.
type Querier struct {
	embedder embedding.Embedder
	vectors  VectorStore
	synth    AnswerSynthesizer
	topK     int
	log      *logger.Logger
}

// NewQuerier wires the query pipeline. topK <= 0 selects DefaultTopK.
func NewQuerier(embedder embedding.Embedder, vectors VectorStore, synth AnswerSynthesizer, topK int, log *logger.Logger) *Querier {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Querier{embedder: embedder, vectors: vectors, synth: synth, topK: topK, log: log}
}

// Query embeds the question, retrieves the most relevant chunks, resolves
// citations, and synthesizes an answer grounded in those chunks.
func (q *Querier) Query(ctx context.Context, question string) (QueryResult, error) {
	qEmb, err := q.embedder.Embed(ctx, question)
	if err != nil {
		return QueryResult{}, fmt.Errorf("embed question: %w", err)
	}

	chunks, err := q.vectors.Search(ctx, qEmb, q.topK)
	if err != nil {
		return QueryResult{}, err
	}
	q.log.Info(fmt.Sprintf("Retrieved %d relevant chunks", len(chunks)))

	passages := make([]string, len(chunks))
	for i, ch := range chunks {
		passages[i] = ch.Content
	}

	answer, err := q.synth.Answer(ctx, question, passages)
	if err != nil {
		return QueryResult{}, err
	}

	sources := attribution.Attribute(chunks)
	q.log.Info(fmt.Sprintf("Answer generated from %d unique sources", len(sources)))
	return QueryResult{Answer: answer, Sources: sources}, nil
}
