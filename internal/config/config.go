package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	// Google Drive
	FolderID          string `envconfig:"GDRIVE_FOLDER_ID"`
	GoogleCredentials string `envconfig:"GOOGLE_CREDENTIALS" default:"credentials/credentials.json"`

	// Gemini
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`
	EmbedModel   string `envconfig:"GEMINI_EMBED_MODEL" default:"gemini-embedding-001"`
	GenModel     string `envconfig:"GEMINI_GEN_MODEL" default:"gemini-2.0-flash"`

	// Weaviate
	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	// Watcher
	PollIntervalSeconds   int    `envconfig:"POLL_INTERVAL_SECONDS" default:"60"`
	StatePath             string `envconfig:"STATE_PATH" default:"data/processed_files.json"`
	SourceTag             string `envconfig:"SOURCE_TAG" default:"gdrive"`
	RequestTimeoutSeconds int    `envconfig:"REQUEST_TIMEOUT_SECONDS" default:"60"`

	// Chunking
	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1000"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"100"`

	// Retrieval
	SearchLimit  int    `envconfig:"SEARCH_LIMIT" default:"5"`
	QueryLogPath string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Env vars may come from the shell instead, so a missing .env is fine.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate covers the settings every command needs.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingRequired)
	}
	if c.WeaviateHost == "" {
		return fmt.Errorf("%w: WEAVIATE_HOST", ErrMissingRequired)
	}
	if c.ChunkOverlap < 0 || c.ChunkSize <= c.ChunkOverlap {
		return fmt.Errorf("CHUNK_SIZE (%d) must be greater than CHUNK_OVERLAP (%d)", c.ChunkSize, c.ChunkOverlap)
	}
	return nil
}

// ValidateWatcher covers the extra settings the watch command needs.
func (c *Config) ValidateWatcher() error {
	if c.FolderID == "" {
		return fmt.Errorf("%w: GDRIVE_FOLDER_ID", ErrMissingRequired)
	}
	if c.GoogleCredentials == "" {
		return fmt.Errorf("%w: GOOGLE_CREDENTIALS", ErrMissingRequired)
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}
