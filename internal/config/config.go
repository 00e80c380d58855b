// ABOUTME: Centralized configuration for the document QA assistant
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// ErrInvalid marks every validation failure so callers can treat it as a configuration error
var ErrInvalid = errors.New("invalid configuration")

// Embedding providers
const (
	EmbeddingHash   = "hash"
	EmbeddingOpenAI = "openai"
	EmbeddingEino   = "eino"
)

// Answering providers
const (
	QALexical = "lexical"
	QAOpenAI  = "openai"
)

// Retrieval and chunking defaults
const (
	DefaultChunkSize    = 700
	DefaultChunkOverlap = 100
	DefaultTopK         = 3
)

// Config holds all configuration for the assistant
type Config struct {
	// Artifacts
	DocumentPath string
	IndexPath    string
	MetadataPath string

	// Chunking and retrieval
	ChunkSize    int
	ChunkOverlap int
	TopK         int

	// Embedding settings
	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingBaseURL  string
	HashDimension     int
	EmbedCacheSize    int

	// Answering settings
	QAProvider string
	QAModel    string

	// OpenAI settings
	OpenAIKey  string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration

	// Redis query-vector cache (disabled when RedisAddr is empty)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// HTTP server
	Port int
}

// DefaultDataDir returns the XDG data directory for index artifacts.
// XDG_DATA_HOME is re-read so tests can redirect it after process start.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "docqa")
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	dataDir := DefaultDataDir()

	cfg := &Config{
		DocumentPath:      os.Getenv("DOCQA_DOCUMENT"),
		IndexPath:         getEnv("DOCQA_INDEX_PATH", filepath.Join(dataDir, "rag_index.bin")),
		MetadataPath:      getEnv("DOCQA_METADATA_PATH", filepath.Join(dataDir, "rag_metadata.json")),
		ChunkSize:         getEnvInt("CHUNK_SIZE", DefaultChunkSize),
		ChunkOverlap:      getEnvInt("CHUNK_OVERLAP", DefaultChunkOverlap),
		TopK:              getEnvInt("TOP_K", DefaultTopK),
		EmbeddingProvider: strings.ToLower(getEnv("EMBEDDING_PROVIDER", EmbeddingHash)),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingBaseURL:  os.Getenv("EMBEDDING_BASE_URL"),
		HashDimension:     getEnvInt("HASH_DIMENSION", 384),
		EmbedCacheSize:    getEnvInt("EMBED_CACHE_SIZE", 256),
		QAProvider:        strings.ToLower(getEnv("QA_PROVIDER", QALexical)),
		QAModel:           getEnv("QA_MODEL", "gpt-4o-mini"),
		OpenAIKey:         os.Getenv("OPENAI_API_KEY"),
		Timeout:           getEnvDuration("CAPABILITY_TIMEOUT", 30*time.Second),
		MaxRetries:        getEnvInt("OPENAI_MAX_RETRIES", 0),
		RetryDelay:        getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvInt("REDIS_DB", 0),
		Port:              getEnvInt("PORT", 5000),
	}

	return cfg, cfg.Validate()
}

// Validate checks every setting that would otherwise fail later at build or query time
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: CHUNK_SIZE must be positive, got %d", ErrInvalid, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: CHUNK_OVERLAP must not be negative, got %d", ErrInvalid, c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("%w: CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", ErrInvalid, c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("%w: TOP_K must be positive, got %d", ErrInvalid, c.TopK)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("%w: OPENAI_MAX_RETRIES must be 0-10, got %d", ErrInvalid, c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: CAPABILITY_TIMEOUT must be positive, got %v", ErrInvalid, c.Timeout)
	}
	if c.IndexPath == "" || c.MetadataPath == "" {
		return fmt.Errorf("%w: index and metadata paths are required", ErrInvalid)
	}

	switch c.EmbeddingProvider {
	case EmbeddingHash:
		if c.HashDimension <= 0 {
			return fmt.Errorf("%w: HASH_DIMENSION must be positive, got %d", ErrInvalid, c.HashDimension)
		}
	case EmbeddingOpenAI, EmbeddingEino:
		if c.EmbeddingModel == "" {
			return fmt.Errorf("%w: EMBEDDING_MODEL is required for provider %q", ErrInvalid, c.EmbeddingProvider)
		}
		if c.OpenAIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for embedding provider %q", ErrInvalid, c.EmbeddingProvider)
		}
	default:
		return fmt.Errorf("%w: unknown EMBEDDING_PROVIDER %q", ErrInvalid, c.EmbeddingProvider)
	}

	switch c.QAProvider {
	case QALexical:
	case QAOpenAI:
		if c.QAModel == "" {
			return fmt.Errorf("%w: QA_MODEL is required for provider %q", ErrInvalid, c.QAProvider)
		}
		if c.OpenAIKey == "" {
			return fmt.Errorf("%w: OPENAI_API_KEY is required for answer provider %q", ErrInvalid, c.QAProvider)
		}
	default:
		return fmt.Errorf("%w: unknown QA_PROVIDER %q", ErrInvalid, c.QAProvider)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT must be 1-65535, got %d", ErrInvalid, c.Port)
	}
	return nil
}

// ManifestPath is where the build manifest sits next to the index file
func (c *Config) ManifestPath() string {
	return c.IndexPath + ".manifest.yaml"
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
