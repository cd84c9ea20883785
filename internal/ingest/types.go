package ingest

import (
	"context"

	"drivewatch/internal/text"
)

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	StoreChunk(ctx context.Context, chunk text.Chunk) (string, error)
	DeleteChunksByURL(ctx context.Context, url string) error
}

// Downloader fetches file content from the remote store. Export is for
// Google Workspace files, which have no direct byte representation.
type Downloader interface {
	Download(ctx context.Context, fileID string) ([]byte, error)
	Export(ctx context.Context, fileID, mimeType string) ([]byte, error)
}

type Publisher interface {
	Publish(topic string, payload any)
}

type Upserter interface {
	Upsert(ctx context.Context, chunk text.Chunk) (string, error)
}
