package weaviate

import (
	"context"
	"fmt"
	"strconv"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"drivewatch/internal/retrieval"
	"drivewatch/internal/text"
	"drivewatch/internal/vector"
)

// Store persists and searches document chunks in Weaviate. Every chunk
// is written with an explicit vector and tagged with sourceTag so query
// paths can filter on origin.
type Store struct {
	client    *weaviate.Client
	sourceTag string
}

func NewStore(client *weaviate.Client, sourceTag string) *Store {
	return &Store{client: client, sourceTag: sourceTag}
}

func (s *Store) StoreChunk(ctx context.Context, chunk text.Chunk) (string, error) {
	res, err := s.client.Data().Creator().
		WithClassName(vector.ClassDocumentChunk).
		WithProperties(map[string]interface{}{
			"content": chunk.Content,
			"title":   chunk.Title,
			"summary": chunk.Summary,
			"url":     chunk.SourceURL,
			"source":  s.sourceTag,
		}).
		WithVector(chunk.Embedding).
		Do(ctx)
	if err != nil {
		return "", err
	}
	return string(res.Object.ID), nil
}

// DeleteChunksByURL removes every chunk previously stored for a source
// url, so re-ingesting a changed document never accumulates duplicates.
func (s *Store) DeleteChunksByURL(ctx context.Context, url string) error {
	_, err := s.client.Batch().ObjectsBatchDeleter().
		WithClassName(vector.ClassDocumentChunk).
		WithOutput("minimal").
		WithWhere(filters.Where().
			WithPath([]string{"url"}).
			WithOperator(filters.Equal).
			WithValueString(url)).
		Do(ctx)
	return err
}

// SearchNearest runs a nearVector query, optionally restricted to a
// source tag, and returns up to limit chunks ordered by similarity.
func (s *Store) SearchNearest(ctx context.Context, vec []float32, limit int, source string) ([]retrieval.SearchResult, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vec)

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "title"},
		{Name: "summary"},
		{Name: "url"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	query := s.client.GraphQL().Get().
		WithClassName(vector.ClassDocumentChunk).
		WithNearVector(nearVector).
		WithLimit(limit).
		WithFields(fields...)

	if source != "" {
		query = query.WithWhere(filters.Where().
			WithPath([]string{"source"}).
			WithOperator(filters.Equal).
			WithValueString(source))
	}

	res, err := query.Do(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %v", res.Errors)
	}

	var results []retrieval.SearchResult
	data, ok := res.Data["Get"].(map[string]interface{})
	if !ok {
		return results, nil
	}
	chunks, ok := data[vector.ClassDocumentChunk].([]interface{})
	if !ok {
		return results, nil
	}

	for _, c := range chunks {
		props, ok := c.(map[string]interface{})
		if !ok {
			continue
		}

		result := retrieval.SearchResult{}
		if content, ok := props["content"].(string); ok {
			result.Content = content
		}
		if title, ok := props["title"].(string); ok {
			result.Title = title
		}
		if summary, ok := props["summary"].(string); ok {
			result.Summary = summary
		}
		if url, ok := props["url"].(string); ok {
			result.SourceURL = url
		}

		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			// Certainty usually decodes as a JSON number, but some
			// server versions return it as a string.
			switch v := additional["certainty"].(type) {
			case float64:
				result.Score = float32(v)
			case string:
				if f, err := strconv.ParseFloat(v, 32); err == nil {
					result.Score = float32(f)
				}
			}
		}

		results = append(results, result)
	}

	return results, nil
}
