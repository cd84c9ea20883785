package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	"drivewatch/internal/adapter/gemini"
	wstore "drivewatch/internal/adapter/weaviate"
	"drivewatch/internal/config"
	"drivewatch/internal/vector"
)

// Dependencies are the external clients shared by the watch and query
// commands.
type Dependencies struct {
	VectorStore *wstore.Store
	Embedder    *gemini.Embedder
	Generator   *gemini.Generator
}

// Bootstrap connects to Weaviate and Gemini and ensures the chunk
// schema exists. Weaviate may still be starting when we come up, so the
// schema check retries before giving up.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	wCfg := weaviate.Config{Host: cfg.WeaviateHost, Scheme: cfg.WeaviateScheme}
	wClient, err := weaviate.NewClient(wCfg)
	if err != nil {
		return nil, fmt.Errorf("weaviate client error: %w", err)
	}

	retryDelay := time.Duration(cfg.BootstrapRetryDelaySeconds) * time.Second
	adapter := vector.NewWeaviateClientAdapter(wClient)
	if err := EnsureSchemaWithRetry(ctx, adapter, cfg.BootstrapRetryAttempts, retryDelay); err != nil {
		return nil, fmt.Errorf("weaviate schema error: %w", err)
	}
	slog.InfoContext(ctx, "weaviate schema ensured", "host", cfg.WeaviateHost)

	embedder, err := gemini.NewEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel)
	if err != nil {
		return nil, fmt.Errorf("gemini embedder error: %w", err)
	}

	generator, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("gemini generator error: %w", err)
	}

	return &Dependencies{
		VectorStore: wstore.NewStore(wClient, cfg.SourceTag),
		Embedder:    embedder,
		Generator:   generator,
	}, nil
}

// EnsureSchemaWithRetry runs the schema check up to attempts times,
// waiting delay between tries.
func EnsureSchemaWithRetry(ctx context.Context, client vector.SchemaClient, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = vector.EnsureSchema(ctx, client); err == nil {
			return nil
		}
		slog.WarnContext(ctx, "failed to ensure weaviate schema, retrying...", "attempt", i+1, "error", err)

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return err
}
