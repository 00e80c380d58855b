// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ChunkSize != 700 {
		t.Errorf("ChunkSize = %d, want 700", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 100 {
		t.Errorf("ChunkOverlap = %d, want 100", cfg.ChunkOverlap)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.EmbeddingProvider != EmbeddingHash {
		t.Errorf("EmbeddingProvider = %s, want %s", cfg.EmbeddingProvider, EmbeddingHash)
	}
	if cfg.QAProvider != QALexical {
		t.Errorf("QAProvider = %s, want %s", cfg.QAProvider, QALexical)
	}
	if cfg.QAModel != "gpt-4o-mini" {
		t.Errorf("QAModel = %s, want gpt-4o-mini", cfg.QAModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.HashDimension != 384 {
		t.Errorf("HashDimension = %d, want 384", cfg.HashDimension)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %d, want 5000", cfg.Port)
	}
	if !strings.HasSuffix(cfg.IndexPath, "rag_index.bin") {
		t.Errorf("IndexPath = %s, want suffix rag_index.bin", cfg.IndexPath)
	}
	if !strings.HasSuffix(cfg.MetadataPath, "rag_metadata.json") {
		t.Errorf("MetadataPath = %s, want suffix rag_metadata.json", cfg.MetadataPath)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr = %s, want empty", cfg.RedisAddr)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("DOCQA_DOCUMENT", "/tmp/manual.pdf")
	os.Setenv("DOCQA_INDEX_PATH", "/tmp/idx.bin")
	os.Setenv("DOCQA_METADATA_PATH", "/tmp/meta.db")
	os.Setenv("CHUNK_SIZE", "500")
	os.Setenv("CHUNK_OVERLAP", "50")
	os.Setenv("TOP_K", "5")
	os.Setenv("EMBEDDING_PROVIDER", "OpenAI")
	os.Setenv("EMBEDDING_MODEL", "text-embedding-3-large")
	os.Setenv("QA_PROVIDER", "openai")
	os.Setenv("QA_MODEL", "gpt-4")
	os.Setenv("OPENAI_API_KEY", "test-key")
	os.Setenv("CAPABILITY_TIMEOUT", "60s")
	os.Setenv("OPENAI_MAX_RETRIES", "5")
	os.Setenv("OPENAI_RETRY_DELAY", "3s")
	os.Setenv("REDIS_ADDR", "localhost:6379")
	os.Setenv("PORT", "8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DocumentPath != "/tmp/manual.pdf" {
		t.Errorf("DocumentPath = %s, want /tmp/manual.pdf", cfg.DocumentPath)
	}
	if cfg.IndexPath != "/tmp/idx.bin" {
		t.Errorf("IndexPath = %s, want /tmp/idx.bin", cfg.IndexPath)
	}
	if cfg.ManifestPath() != "/tmp/idx.bin.manifest.yaml" {
		t.Errorf("ManifestPath() = %s, want /tmp/idx.bin.manifest.yaml", cfg.ManifestPath())
	}
	if cfg.MetadataPath != "/tmp/meta.db" {
		t.Errorf("MetadataPath = %s, want /tmp/meta.db", cfg.MetadataPath)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 || cfg.TopK != 5 {
		t.Errorf("chunking = %d/%d/%d, want 500/50/5", cfg.ChunkSize, cfg.ChunkOverlap, cfg.TopK)
	}
	if cfg.EmbeddingProvider != EmbeddingOpenAI {
		t.Errorf("EmbeddingProvider = %s, want openai (lowercased)", cfg.EmbeddingProvider)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-large", cfg.EmbeddingModel)
	}
	if cfg.QAModel != "gpt-4" {
		t.Errorf("QAModel = %s, want gpt-4", cfg.QAModel)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %s, want localhost:6379", cfg.RedisAddr)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
}

func validConfig() *Config {
	return &Config{
		IndexPath:         "/tmp/idx.bin",
		MetadataPath:      "/tmp/meta.json",
		ChunkSize:         700,
		ChunkOverlap:      100,
		TopK:              3,
		EmbeddingProvider: EmbeddingHash,
		HashDimension:     384,
		QAProvider:        QALexical,
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		Port:              5000,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, true},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = 700 }, true},
		{"overlap exceeds size", func(c *Config) { c.ChunkOverlap = 800 }, true},
		{"zero overlap", func(c *Config) { c.ChunkOverlap = 0 }, false},
		{"zero top k", func(c *Config) { c.TopK = 0 }, true},
		{"retries above 10", func(c *Config) { c.MaxRetries = 15 }, true},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }, true},
		{"unknown embedding provider", func(c *Config) { c.EmbeddingProvider = "bert" }, true},
		{"openai embedder without key", func(c *Config) { c.EmbeddingProvider = EmbeddingOpenAI; c.EmbeddingModel = "m" }, true},
		{"openai embedder with key", func(c *Config) {
			c.EmbeddingProvider = EmbeddingOpenAI
			c.EmbeddingModel = "m"
			c.OpenAIKey = "k"
		}, false},
		{"eino embedder without model", func(c *Config) { c.EmbeddingProvider = EmbeddingEino; c.OpenAIKey = "k" }, true},
		{"zero hash dimension", func(c *Config) { c.HashDimension = 0 }, true},
		{"unknown qa provider", func(c *Config) { c.QAProvider = "bert-squad" }, true},
		{"openai answerer without key", func(c *Config) { c.QAProvider = QAOpenAI; c.QAModel = "gpt-4o-mini" }, true},
		{"openai answerer without model", func(c *Config) { c.QAProvider = QAOpenAI; c.OpenAIKey = "k" }, true},
		{"empty index path", func(c *Config) { c.IndexPath = "" }, true},
		{"port out of range", func(c *Config) { c.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want wrapped ErrInvalid", err)
			}
		})
	}
}

func TestLoad_InvalidOverlapFails(t *testing.T) {
	os.Clearenv()
	os.Setenv("CHUNK_SIZE", "100")
	os.Setenv("CHUNK_OVERLAP", "100")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when overlap equals chunk size")
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal int
		want       int
	}{
		{"empty uses default", "", 7, 7},
		{"parses number", "42", 7, 42},
		{"garbage uses default", "forty", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_INT", tt.value)
			}
			if got := getEnvInt("TEST_INT", tt.defaultVal); got != tt.want {
				t.Errorf("getEnvInt() = %d, want %d", got, tt.want)
			}
		})
	}
}
