// Package retrieval answers free-text questions from the stored chunks:
// enrich the query with extracted concepts, embed it, pull the nearest
// chunks, and generate a grounded answer.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const conceptPrompt = `You are a technical concept extractor. Given a query, identify and extract the key
technical concepts that would be most relevant for searching documentation.
Return these concepts in a comma-separated list.`

const answerPrompt = `You are a helpful AI assistant with expertise in the watched document collection.
Use the provided context to answer questions accurately and concisely.
If you're not sure about something, say so rather than making assumptions.`

type SearchResult struct {
	SourceURL string
	Title     string
	Summary   string
	Content   string
	Score     float32
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	SearchNearest(ctx context.Context, vector []float32, limit int, source string) ([]SearchResult, error)
}

type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Service struct {
	embedder  Embedder
	store     VectorStore
	completer Completer
	logger    *QueryLogger
	limit     int
}

func NewService(e Embedder, s VectorStore, c Completer, l *QueryLogger, limit int) *Service {
	return &Service{embedder: e, store: s, completer: c, logger: l, limit: limit}
}

// Answer runs the full pipeline for one question. source, when
// non-empty, restricts the search to chunks with that source tag.
func (s *Service) Answer(ctx context.Context, query, source string) (string, error) {
	start := time.Now()

	enriched := s.preprocess(ctx, query)

	vec, err := s.embedder.Embed(ctx, enriched)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	docs, err := s.store.SearchNearest(ctx, vec, s.limit, source)
	if err != nil {
		return "", fmt.Errorf("search chunks: %w", err)
	}
	slog.DebugContext(ctx, "retrieved chunks", "count", len(docs))

	answer, err := s.generate(ctx, query, docs)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	if s.logger != nil {
		s.logger.Log(ctx, QueryLogEntry{
			Query:      query,
			NumResults: len(docs),
			Duration:   time.Since(start),
		})
	}
	return answer, nil
}

// preprocess appends extracted concepts to the query. Extraction is
// best effort: on failure the raw query is used as-is.
func (s *Service) preprocess(ctx context.Context, query string) string {
	concepts, err := s.completer.Complete(ctx, conceptPrompt, query)
	if err != nil {
		slog.WarnContext(ctx, "concept extraction failed, using raw query", "error", err)
		return query
	}
	return query + " " + concepts
}

func (s *Service) generate(ctx context.Context, query string, docs []SearchResult) (string, error) {
	var sb strings.Builder
	for i, doc := range docs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Source: %s\n%s", doc.SourceURL, doc.Content)
	}

	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion: %s", sb.String(), query)
	return s.completer.Complete(ctx, answerPrompt, userPrompt)
}
