package weaviate_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"

	adapter "drivewatch/internal/adapter/weaviate"
	"drivewatch/internal/text"
)

func mockWeaviate(t *testing.T, handler http.HandlerFunc) (*weaviate.Client, *httptest.Server) {
	ts := httptest.NewServer(handler)
	cfg := weaviate.Config{Host: ts.Listener.Addr().String(), Scheme: "http"}
	client, err := weaviate.NewClient(cfg)
	assert.NoError(t, err)
	return client, ts
}

func TestStore_StoreChunk(t *testing.T) {
	client, ts := mockWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/meta" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"version": "1.19.0"}`))
			return
		}
		assert.Equal(t, "/v1/objects", r.URL.Path)
		assert.Equal(t, "POST", r.Method)

		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "DocumentChunk", body["class"])
		props := body["properties"].(map[string]interface{})
		assert.Equal(t, "hello world", props["content"])
		assert.Equal(t, "report.txt", props["title"])
		assert.Equal(t, "gdrive://report.txt", props["url"])
		assert.Equal(t, "gdrive", props["source"])

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "c4a3b4f0-0000-0000-0000-000000000001",
		})
	})
	defer ts.Close()

	store := adapter.NewStore(client, "gdrive")
	id, err := store.StoreChunk(context.Background(), text.Chunk{
		SourceURL: "gdrive://report.txt",
		Title:     "report.txt",
		Summary:   "Part 1 of report.txt",
		Content:   "hello world",
		Embedding: []float32{0.1, 0.2},
	})
	assert.NoError(t, err)
	assert.Equal(t, "c4a3b4f0-0000-0000-0000-000000000001", id)
}

func TestStore_DeleteChunksByURL(t *testing.T) {
	client, ts := mockWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/meta" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"version": "1.19.0"}`))
			return
		}
		assert.Equal(t, "/v1/batch/objects", r.URL.Path)
		assert.Equal(t, "DELETE", r.Method)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})
	defer ts.Close()

	store := adapter.NewStore(client, "gdrive")
	err := store.DeleteChunksByURL(context.Background(), "gdrive://report.txt")
	assert.NoError(t, err)
}

func TestStore_SearchNearest(t *testing.T) {
	client, ts := mockWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/meta" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"version": "1.19.0"}`))
			return
		}
		assert.Equal(t, "/v1/graphql", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		resp := map[string]interface{}{
			"data": map[string]interface{}{
				"Get": map[string]interface{}{
					"DocumentChunk": []interface{}{
						map[string]interface{}{
							"content": "found content",
							"title":   "report.txt",
							"summary": "Part 1 of report.txt",
							"url":     "gdrive://report.txt",
							"_additional": map[string]interface{}{
								"certainty": 0.95,
							},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})
	defer ts.Close()

	store := adapter.NewStore(client, "gdrive")
	results, err := store.SearchNearest(context.Background(), []float32{0.1, 0.2}, 5, "gdrive")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "found content", results[0].Content)
	assert.Equal(t, "gdrive://report.txt", results[0].SourceURL)
	assert.Equal(t, float32(0.95), results[0].Score)
}

func TestStore_SearchNearest_StringCertainty(t *testing.T) {
	client, ts := mockWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/meta" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"version": "1.19.0"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		resp := map[string]interface{}{
			"data": map[string]interface{}{
				"Get": map[string]interface{}{
					"DocumentChunk": []interface{}{
						map[string]interface{}{
							"content": "c",
							"_additional": map[string]interface{}{
								"certainty": "0.5",
							},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})
	defer ts.Close()

	store := adapter.NewStore(client, "gdrive")
	results, err := store.SearchNearest(context.Background(), []float32{0.1}, 5, "")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, float32(0.5), results[0].Score)
}

func TestStore_SearchNearest_Empty(t *testing.T) {
	client, ts := mockWeaviate(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/meta" {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"version": "1.19.0"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		resp := map[string]interface{}{
			"data": map[string]interface{}{
				"Get": map[string]interface{}{
					"DocumentChunk": []interface{}{},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})
	defer ts.Close()

	store := adapter.NewStore(client, "gdrive")
	results, err := store.SearchNearest(context.Background(), []float32{0.1}, 5, "")
	assert.NoError(t, err)
	assert.Empty(t, results)
}
