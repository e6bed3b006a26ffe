// Package config loads the service configuration from a YAML file and
// applies environment overrides for secrets so credentials stay out of
// checked-in config.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppInfo holds basic application identity.
type AppInfo struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ShutdownTimeout string `yaml:"shutdownTimeout"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// MilvusConfig holds the vector database connection settings.
type MilvusConfig struct {
	Address    string `yaml:"address"`
	Collection string `yaml:"collection"`
	Dim        int    `yaml:"dim"`
}

// MinIOConfig holds the object store connection settings. An empty
// Endpoint disables archiving and puts file ingestion in degraded mode.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Secure    bool   `yaml:"secure"`
}

// GeminiConfig names the Google GenAI models used by each capability. An
// empty APIKey puts image and audio analysis in degraded mode.
type GeminiConfig struct {
	APIKey         string `yaml:"apiKey"`
	LLMModel       string `yaml:"llmModel"`
	EmbeddingModel string `yaml:"embeddingModel"`
	AnalyzerModel  string `yaml:"analyzerModel"`
}

// RapidAPIConfig holds the social platform capability settings. Endpoints
// are full URLs; empty values select the production defaults.
type RapidAPIConfig struct {
	APIKey            string `yaml:"apiKey"`
	YouTubeEndpoint   string `yaml:"youtubeEndpoint"`
	TwitterEndpoint   string `yaml:"twitterEndpoint"`
	InstagramEndpoint string `yaml:"instagramEndpoint"`
}

// IngestConfig holds chunking and harvesting tuning knobs.
type IngestConfig struct {
	ChunkSize        int    `yaml:"chunkSize"`
	ChunkOverlap     int    `yaml:"chunkOverlap"`
	MaxImagesPerPage int    `yaml:"maxImagesPerPage"`
	MinImagePixels   int    `yaml:"minImagePixels"`
	FetchTimeout     string `yaml:"fetchTimeout"`
	TopK             int    `yaml:"topK"`
}

// AppConfig is the root of the YAML configuration file.
type AppConfig struct {
	App      AppInfo        `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
	Milvus   MilvusConfig   `yaml:"milvus"`
	MinIO    MinIOConfig    `yaml:"minio"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	RapidAPI RapidAPIConfig `yaml:"rapidapi"`
	Ingest   IngestConfig   `yaml:"ingest"`
}

// LoadConfig reads and parses the YAML file at path, then overlays
// environment variables for secrets.
func LoadConfig(path string) (*AppConfig, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file '%s': %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file '%s': %w", path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv overlays secrets from the environment. Environment values win
// over the YAML file.
func (c *AppConfig) applyEnv() {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("RAPIDAPI_KEY"); v != "" {
		c.RapidAPI.APIKey = v
	}
	if v := os.Getenv("MINIO_ACCESS_KEY"); v != "" {
		c.MinIO.AccessKey = v
	}
	if v := os.Getenv("MINIO_SECRET_KEY"); v != "" {
		c.MinIO.SecretKey = v
	}
	if v := os.Getenv("MILVUS_ADDRESS"); v != "" {
		c.Milvus.Address = v
	}
}

func (c *AppConfig) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Milvus.Address == "" {
		c.Milvus.Address = "localhost:19530"
	}
	if c.Milvus.Collection == "" {
		c.Milvus.Collection = "second_brain_chunks"
	}
	if c.Milvus.Dim == 0 {
		c.Milvus.Dim = 768
	}
	if c.MinIO.Bucket == "" {
		c.MinIO.Bucket = "second-brain"
	}
	if c.Gemini.LLMModel == "" {
		c.Gemini.LLMModel = "gemini-2.5-flash"
	}
	if c.Gemini.EmbeddingModel == "" {
		c.Gemini.EmbeddingModel = "text-embedding-004"
	}
	if c.Gemini.AnalyzerModel == "" {
		c.Gemini.AnalyzerModel = "gemini-2.5-flash"
	}
}

// ShutdownTimeout parses the server shutdown grace period, defaulting to
// ten seconds.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// FetchTimeout parses the outbound HTTP timeout used by extractors.
func (c *AppConfig) FetchTimeout() time.Duration {
	return parseDuration(c.Ingest.FetchTimeout, 0)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
