// Package api exposes the ingestion and query pipelines over HTTP.
// Response shapes and status codes form the external contract: validation
// problems are 400s, everything else that fails is a 500 with a message.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prannavdeshpande/second-brain/internal/extractors"
	"github.com/prannavdeshpande/second-brain/internal/pipeline"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

// IngestService is the ingestion surface the handlers call.
type IngestService interface {
	IngestFile(ctx context.Context, filename string, data []byte) (pipeline.FileIngestResult, error)
	IngestURL(ctx context.Context, rawURL string) (pipeline.URLIngestResult, error)
}

// QueryService is the question-answering surface the handlers call.
type QueryService interface {
	Query(ctx context.Context, question string) (pipeline.QueryResult, error)
}

// Maintenance covers the corpus-level operations behind /stats/, /clear/
// and /health/.
type Maintenance interface {
	Count(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	HealthCheck(ctx context.Context) error
}

// Info is the static deployment description reported by the liveness and
// health endpoints.
type Info struct {
	Version             string
	DatabasePath        string
	EmbeddingModel      string
	LLMModel            string
	GoogleAPIConfigured bool
	ObjectStoreReady    bool
}

// API holds the handlers for the service.
type API struct {
	ingest IngestService
	query  QueryService
	maint  Maintenance
	info   Info
	log    *logger.Logger
}

// NewAPI creates the handler set.
func NewAPI(ingest IngestService, query QueryService, maint Maintenance, info Info, log *logger.Logger) *API {
	return &API{ingest: ingest, query: query, maint: maint, info: info, log: log}
}

// UploadHandler ingests either an uploaded file or a URL. Exactly one of
// the two must be provided.
func (a *API) UploadHandler(c *gin.Context) {
	fileHeader, fileErr := c.FormFile("file")
	rawURL := c.PostForm("url")

	hasFile := fileErr == nil && fileHeader != nil
	if !hasFile && rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Either 'file' or 'url' must be provided."})
		return
	}
	if hasFile && rawURL != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide either 'file' or 'url', not both."})
		return
	}

	if hasFile {
		a.uploadFile(c, fileHeader)
		return
	}
	a.uploadURL(c, rawURL)
}

func (a *API) uploadFile(c *gin.Context, fileHeader *multipart.FileHeader) {
	src, err := fileHeader.Open()
	if err != nil {
		a.serverError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		a.serverError(c, err)
		return
	}

	result, err := a.ingest.IngestFile(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, pipeline.ErrUnsupportedFile) || errors.Is(err, extractors.ErrUnsupported) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		a.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("File '%s' processed successfully.", result.Filename),
		"s3_path":  result.ArchiveLocator,
		"filename": result.Filename,
		"type":     "file",
	})
}

func (a *API) uploadURL(c *gin.Context, rawURL string) {
	result, err := a.ingest.IngestURL(c.Request.Context(), rawURL)
	if err != nil {
		a.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":              fmt.Sprintf("URL '%s' processed successfully.", result.Source),
		"source":               result.Source,
		"type":                 result.ContentKind,
		"chunks":               result.NumChunks,
		"num_documents":        result.NumDocuments,
		"num_images_processed": result.NumImagesProcessed,
	})
}

// QueryHandler answers a question from the indexed corpus.
func (a *API) QueryHandler(c *gin.Context) {
	question := c.PostForm("query")
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Field 'query' must be provided."})
		return
	}

	result, err := a.query.Query(c.Request.Context(), question)
	if err != nil {
		a.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answer":      result.Answer,
		"sources":     result.Sources,
		"num_sources": len(result.Sources),
	})
}

// RootHandler is the liveness endpoint.
func (a *API) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Second Brain API is running",
		"status":  "healthy",
		"version": a.info.Version,
		"supported_platforms": []string{
			"Files (PDF, DOCX, TXT, MD, Images, Audio, Video)",
			"YouTube Videos (with transcripts)",
			"Twitter/X Posts",
			"Instagram Posts",
			"Regular Web Pages",
		},
	})
}

// StatsHandler reports corpus statistics.
func (a *API) StatsHandler(c *gin.Context) {
	count, err := a.maint.Count(c.Request.Context())
	if err != nil {
		a.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_documents": count,
		"database_path":   a.info.DatabasePath,
		"embedding_model": a.info.EmbeddingModel,
		"llm_model":       a.info.LLMModel,
	})
}

// ClearHandler removes every indexed chunk. This cannot be undone.
func (a *API) ClearHandler(c *gin.Context) {
	count, err := a.maint.DeleteAll(c.Request.Context())
	if err != nil {
		a.serverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Successfully cleared %d documents from the database", count),
		"deleted_count": count,
	})
}

// HealthHandler is the detailed health check: storage connectivity plus
// which optional capabilities are configured.
func (a *API) HealthHandler(c *gin.Context) {
	ctx := c.Request.Context()

	if err := a.maint.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	count, err := a.maint.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":                  "healthy",
		"vector_db_status":        "connected",
		"total_documents":         count,
		"google_api_configured":   a.info.GoogleAPIConfigured,
		"object_store_configured": a.info.ObjectStoreReady,
		"embedding_model":         a.info.EmbeddingModel,
		"llm_model":               a.info.LLMModel,
	})
}

func (a *API) serverError(c *gin.Context, err error) {
	a.log.WithErr(err).Error(fmt.Sprintf("%s %s failed", c.Request.Method, c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"message": fmt.Sprintf("An error occurred: %s", err)})
}
