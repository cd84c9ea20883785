package ingest_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"drivewatch/internal/text"
)

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) Embed(ctx context.Context, content string) ([]float32, error) {
	args := m.Called(ctx, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockVectorStore struct{ mock.Mock }

func (m *MockVectorStore) StoreChunk(ctx context.Context, chunk text.Chunk) (string, error) {
	args := m.Called(ctx, chunk)
	return args.String(0), args.Error(1)
}

func (m *MockVectorStore) DeleteChunksByURL(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type MockDownloader struct{ mock.Mock }

func (m *MockDownloader) Download(ctx context.Context, fileID string) ([]byte, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDownloader) Export(ctx context.Context, fileID, mimeType string) ([]byte, error) {
	args := m.Called(ctx, fileID, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockUpserter struct{ mock.Mock }

func (m *MockUpserter) Upsert(ctx context.Context, chunk text.Chunk) (string, error) {
	args := m.Called(ctx, chunk)
	return args.String(0), args.Error(1)
}

// recordingPub captures published bus messages.
type recordingPub struct {
	messages []publishedMsg
}

type publishedMsg struct {
	topic   string
	payload any
}

func (p *recordingPub) Publish(topic string, payload any) {
	p.messages = append(p.messages, publishedMsg{topic: topic, payload: payload})
}
