package ingest

import (
	"errors"
	"fmt"

	"context"

	"drivewatch/internal/text"
)

var ErrEmptyChunk = errors.New("chunk has no content")

// Store persists chunks to the vector store, computing the embedding
// first when the chunk arrives without one. Nothing is written if the
// embedding fails. Re-submitting the same chunk is safe: the handler
// clears a document's previous chunks before re-ingesting it, and
// uniqueness beyond that is the vector store's concern.
type Store struct {
	embedder Embedder
	vectors  VectorStore
}

func NewStore(e Embedder, v VectorStore) *Store {
	return &Store{embedder: e, vectors: v}
}

func (s *Store) Upsert(ctx context.Context, chunk text.Chunk) (string, error) {
	if chunk.Content == "" {
		return "", ErrEmptyChunk
	}

	if len(chunk.Embedding) == 0 {
		vec, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return "", fmt.Errorf("embed chunk: %w", err)
		}
		chunk.Embedding = vec
	}

	id, err := s.vectors.StoreChunk(ctx, chunk)
	if err != nil {
		return "", fmt.Errorf("store chunk: %w", err)
	}
	return id, nil
}
