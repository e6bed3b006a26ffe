package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/prannavdeshpande/second-brain/internal/analyzers"
	"github.com/prannavdeshpande/second-brain/internal/api"
	"github.com/prannavdeshpande/second-brain/internal/chunker"
	"github.com/prannavdeshpande/second-brain/internal/config"
	"github.com/prannavdeshpande/second-brain/internal/embedding"
	"github.com/prannavdeshpande/second-brain/internal/extractors"
	"github.com/prannavdeshpande/second-brain/internal/llm"
	"github.com/prannavdeshpande/second-brain/internal/pipeline"
	"github.com/prannavdeshpande/second-brain/internal/storage/objectstore"
	"github.com/prannavdeshpande/second-brain/internal/storage/vectorstore"
	"github.com/prannavdeshpande/second-brain/pkg/httpclient"
	"github.com/prannavdeshpande/second-brain/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// .env is optional; secrets may come from the real environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.ParseLevel(cfg.Logger.Level))
	appLogger := logger.New("SecondBrain")
	appLogger.Info("Starting Second Brain service...")

	ctx := context.Background()

	vectors, err := vectorstore.New(ctx, cfg.Milvus.Address, cfg.Milvus.Collection, cfg.Milvus.Dim, appLogger)
	if err != nil {
		log.Fatalf("Failed to connect to Milvus: %v", err)
	}
	defer vectors.Close()

	// The object store is optional: without it, file ingestion records
	// placeholder locators instead of failing.
	var archive pipeline.ObjectStore
	archiveReady := false
	if cfg.MinIO.Endpoint != "" {
		store, err := objectstore.New(ctx, objectstore.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Secure:    cfg.MinIO.Secure,
			Bucket:    cfg.MinIO.Bucket,
		}, appLogger)
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		archive = store
		archiveReady = true
	} else {
		appLogger.Warn("MinIO endpoint not configured; originals will not be archived")
	}

	if cfg.Gemini.APIKey == "" {
		appLogger.Warn("GOOGLE_API_KEY not set; image OCR and transcription run in degraded mode")
	}

	embedder, err := embedding.NewGoogleModel(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbeddingModel)
	if err != nil {
		log.Fatalf("Failed to create embedding client: %v", err)
	}

	gemini, err := llm.NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.LLMModel)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}
	synth := llm.NewSynthesizer(gemini, appLogger)

	analyzer, err := analyzers.NewGeminiAnalyzer(ctx, cfg.Gemini.APIKey, cfg.Gemini.AnalyzerModel)
	if err != nil {
		log.Fatalf("Failed to create analyzer client: %v", err)
	}

	client := httpclient.New(cfg.FetchTimeout())
	registry := extractors.NewRegistry(extractors.Config{
		RapidAPIKey:       cfg.RapidAPI.APIKey,
		YouTubeEndpoint:   cfg.RapidAPI.YouTubeEndpoint,
		TwitterEndpoint:   cfg.RapidAPI.TwitterEndpoint,
		InstagramEndpoint: cfg.RapidAPI.InstagramEndpoint,
		FetchTimeout:      cfg.FetchTimeout(),
		MaxImagesPerPage:  cfg.Ingest.MaxImagesPerPage,
		MinImagePixels:    cfg.Ingest.MinImagePixels,
	}, client, analyzer, analyzer, appLogger)

	ch, err := chunker.New(cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap)
	if err != nil {
		log.Fatalf("Invalid chunker configuration: %v", err)
	}

	ingestor := pipeline.NewIngestor(registry, ch, embedder, vectors, archive, appLogger)
	querier := pipeline.NewQuerier(embedder, vectors, synth, cfg.Ingest.TopK, appLogger)

	handlers := api.NewAPI(ingestor, querier, vectors, api.Info{
		Version:             cfg.App.Version,
		DatabasePath:        fmt.Sprintf("%s/%s", cfg.Milvus.Address, cfg.Milvus.Collection),
		EmbeddingModel:      cfg.Gemini.EmbeddingModel,
		LLMModel:            cfg.Gemini.LLMModel,
		GoogleAPIConfigured: cfg.Gemini.APIKey != "",
		ObjectStoreReady:    archiveReady,
	}, appLogger)

	router := api.NewRouter(handlers)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		appLogger.Info(fmt.Sprintf("HTTP server listening at %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.WithErr(err).Error("Forced shutdown")
	}
	appLogger.Info("Server gracefully stopped")
}
