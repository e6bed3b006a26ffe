// Package vectorstore persists chunks with their embeddings in Milvus and
// serves similarity search over them. Provenance travels as scalar columns
// next to the vector so query results come back citation-ready without a
// second lookup.
package vectorstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"github.com/prannavdeshpande/second-brain/internal/schema"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

const (
	FieldID             = "id"
	FieldEmbedding      = "embedding"
	FieldContent        = "content"
	FieldSource         = "source"
	FieldFilename       = "filename"
	FieldFileType       = "file_type"
	FieldArchiveLocator = "s3_path"
	FieldContentKind    = "content_type"
	FieldAuthor         = "author"
	FieldParentSource   = "parent_source"
	FieldChunkIndex     = "chunk_index"
	FieldChunkStart     = "chunk_start"
)

// outputFields are returned on every search so results carry complete
// provenance.
var outputFields = []string{
	FieldID, FieldContent, FieldSource, FieldFilename, FieldFileType,
	FieldArchiveLocator, FieldContentKind, FieldAuthor, FieldParentSource,
	FieldChunkIndex, FieldChunkStart,
}

// MilvusStore adapts the milvus-sdk-go client to the chunk index.
type MilvusStore struct {
	log        *logger.Logger
	client     client.Client
	collection string
	dim        int
}

// New connects to Milvus and ensures the chunk collection exists, is
// indexed, and is loaded.
func New(ctx context.Context, address, collection string, dim int, log *logger.Logger) (*MilvusStore, error) {
	c, err := client.NewClient(ctx, client.Config{Address: address})
	if err != nil {
		return nil, fmt.Errorf("connect to Milvus at %s: %w", address, err)
	}

	s := &MilvusStore{log: log, client: c, collection: collection, dim: dim}
	if err := s.ensureCollection(ctx); err != nil {
		c.Close()
		return nil, err
	}
	log.Info(fmt.Sprintf("Milvus collection '%s' ready (dim=%d)", collection, dim))
	return s, nil
}

func (s *MilvusStore) ensureCollection(ctx context.Context) error {
	exists, err := s.client.HasCollection(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("check collection existence: %w", err)
	}

	if !exists {
		sch := entity.NewSchema().
			WithName(s.collection).
			WithDescription("ingested content chunks with provenance").
			WithField(entity.NewField().WithName(FieldID).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(64).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(FieldEmbedding).
				WithDataType(entity.FieldTypeFloatVector).WithDim(int64(s.dim))).
			WithField(entity.NewField().WithName(FieldContent).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(8192)).
			WithField(entity.NewField().WithName(FieldSource).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(2048)).
			WithField(entity.NewField().WithName(FieldFilename).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(1024)).
			WithField(entity.NewField().WithName(FieldFileType).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(64)).
			WithField(entity.NewField().WithName(FieldArchiveLocator).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(2048)).
			WithField(entity.NewField().WithName(FieldContentKind).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(64)).
			WithField(entity.NewField().WithName(FieldAuthor).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(512)).
			WithField(entity.NewField().WithName(FieldParentSource).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(2048)).
			WithField(entity.NewField().WithName(FieldChunkIndex).
				WithDataType(entity.FieldTypeInt64)).
			WithField(entity.NewField().WithName(FieldChunkStart).
				WithDataType(entity.FieldTypeInt64))

		if err := s.client.CreateCollection(ctx, sch, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("create collection '%s': %w", s.collection, err)
		}

		idx, err := entity.NewIndexIvfFlat(entity.L2, 128)
		if err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		if err := s.client.CreateIndex(ctx, s.collection, FieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("create index on '%s': %w", FieldEmbedding, err)
		}
	}

	if err := s.client.LoadCollection(ctx, s.collection, false); err != nil {
		return fmt.Errorf("load collection '%s': %w", s.collection, err)
	}
	return nil
}

// Add inserts the chunks into the collection. Every chunk must already
// carry an embedding of the configured dimension.
func (s *MilvusStore) Add(ctx context.Context, chunks []schema.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	ids := make([]string, len(chunks))
	embeddings := make([][]float32, len(chunks))
	contents := make([]string, len(chunks))
	sources := make([]string, len(chunks))
	filenames := make([]string, len(chunks))
	fileTypes := make([]string, len(chunks))
	locators := make([]string, len(chunks))
	kinds := make([]string, len(chunks))
	authors := make([]string, len(chunks))
	parents := make([]string, len(chunks))
	indexes := make([]int64, len(chunks))
	starts := make([]int64, len(chunks))

	for i, ch := range chunks {
		if len(ch.Embedding) != s.dim {
			return fmt.Errorf("chunk %s has embedding dimension %d, want %d", ch.ID, len(ch.Embedding), s.dim)
		}
		ids[i] = ch.ID
		embeddings[i] = ch.Embedding
		contents[i] = ch.Content
		sources[i] = ch.Meta.Source
		filenames[i] = ch.Meta.Filename
		fileTypes[i] = ch.Meta.FileType
		locators[i] = ch.Meta.ArchiveLocator
		kinds[i] = ch.Meta.ContentKind
		authors[i] = ch.Meta.Author
		parents[i] = ch.Meta.ParentSource
		indexes[i] = int64(ch.ChunkIndex)
		starts[i] = int64(ch.ChunkStartOffset)
	}

	_, err := s.client.Insert(ctx, s.collection, "", /* default partition */
		entity.NewColumnVarChar(FieldID, ids),
		entity.NewColumnFloatVector(FieldEmbedding, s.dim, embeddings),
		entity.NewColumnVarChar(FieldContent, contents),
		entity.NewColumnVarChar(FieldSource, sources),
		entity.NewColumnVarChar(FieldFilename, filenames),
		entity.NewColumnVarChar(FieldFileType, fileTypes),
		entity.NewColumnVarChar(FieldArchiveLocator, locators),
		entity.NewColumnVarChar(FieldContentKind, kinds),
		entity.NewColumnVarChar(FieldAuthor, authors),
		entity.NewColumnVarChar(FieldParentSource, parents),
		entity.NewColumnInt64(FieldChunkIndex, indexes),
		entity.NewColumnInt64(FieldChunkStart, starts),
	)
	if err != nil {
		return fmt.Errorf("insert %d chunks into Milvus: %w", len(chunks), err)
	}

	s.log.Info(fmt.Sprintf("Inserted %d chunks into collection '%s'", len(chunks), s.collection))
	return nil
}

// Search returns the topK most similar chunks, best first, with provenance
// and similarity scores attached.
func (s *MilvusStore) Search(ctx context.Context, embedding []float32, topK int) ([]schema.Chunk, error) {
	sp, _ := entity.NewIndexIvfFlatSearchParam(10)

	results, err := s.client.Search(
		ctx, s.collection, []string{}, "", outputFields,
		[]entity.Vector{entity.FloatVector(embedding)},
		FieldEmbedding, entity.L2, topK, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("search in Milvus: %w", err)
	}

	var chunks []schema.Chunk
	for _, res := range results {
		strCol := func(name string) []string {
			for _, field := range res.Fields {
				if field.Name() == name {
					if col, ok := field.(*entity.ColumnVarChar); ok {
						return col.Data()
					}
				}
			}
			return nil
		}
		intCol := func(name string) []int64 {
			for _, field := range res.Fields {
				if field.Name() == name {
					if col, ok := field.(*entity.ColumnInt64); ok {
						return col.Data()
					}
				}
			}
			return nil
		}

		ids := strCol(FieldID)
		contents := strCol(FieldContent)
		sources := strCol(FieldSource)
		filenames := strCol(FieldFilename)
		fileTypes := strCol(FieldFileType)
		locators := strCol(FieldArchiveLocator)
		kinds := strCol(FieldContentKind)
		authors := strCol(FieldAuthor)
		parents := strCol(FieldParentSource)
		indexes := intCol(FieldChunkIndex)
		starts := intCol(FieldChunkStart)

		at := func(data []string, i int) string {
			if i < len(data) {
				return data[i]
			}
			return ""
		}

		for i := 0; i < res.ResultCount; i++ {
			ch := schema.Chunk{
				ID:      at(ids, i),
				Content: at(contents, i),
				Meta: schema.Provenance{
					Source:         at(sources, i),
					Filename:       at(filenames, i),
					FileType:       at(fileTypes, i),
					ArchiveLocator: at(locators, i),
					ContentKind:    at(kinds, i),
					Author:         at(authors, i),
					ParentSource:   at(parents, i),
				},
				Score: res.Scores[i],
			}
			if i < len(indexes) {
				ch.ChunkIndex = int(indexes[i])
			}
			if i < len(starts) {
				ch.ChunkStartOffset = int(starts[i])
			}
			chunks = append(chunks, ch)
		}
	}
	return chunks, nil
}

// Count reports the number of stored chunks. A flush first forces pending
// inserts into sealed segments so the row count is current.
func (s *MilvusStore) Count(ctx context.Context) (int64, error) {
	if err := s.client.Flush(ctx, s.collection, false); err != nil {
		return 0, fmt.Errorf("flush collection '%s': %w", s.collection, err)
	}

	stats, err := s.client.GetCollectionStatistics(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("get collection statistics: %w", err)
	}
	count, err := strconv.ParseInt(stats["row_count"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse row_count %q: %w", stats["row_count"], err)
	}
	return count, nil
}

// DeleteAll removes every chunk from the collection and returns how many
// were stored beforehand.
func (s *MilvusStore) DeleteAll(ctx context.Context) (int64, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}

	expr := fmt.Sprintf(`%s != ""`, FieldID)
	if err := s.client.Delete(ctx, s.collection, "", expr); err != nil {
		return 0, fmt.Errorf("delete all chunks: %w", err)
	}
	if err := s.client.Flush(ctx, s.collection, false); err != nil {
		return 0, fmt.Errorf("flush after delete: %w", err)
	}

	s.log.Info(fmt.Sprintf("Cleared %d chunks from collection '%s'", count, s.collection))
	return count, nil
}

// HealthCheck verifies connectivity with a cheap metadata call.
func (s *MilvusStore) HealthCheck(ctx context.Context) error {
	if _, err := s.client.ListCollections(ctx); err != nil {
		return fmt.Errorf("milvus health check failed: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *MilvusStore) Close() {
	if s.client != nil {
		s.client.Close()
	}
}
