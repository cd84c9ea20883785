package text

import (
	"fmt"
	"strings"
)

// Chunk is one window of a source document, ready for embedding and
// storage. Embedding stays nil until the ingest store populates it.
type Chunk struct {
	SourceURL string
	Title     string
	Summary   string
	Content   string
	Embedding []float32
}

// Splitter cuts whitespace-tokenized text into overlapping windows of
// ChunkSize tokens, advancing ChunkSize-Overlap tokens per window so
// consecutive chunks share Overlap tokens.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) Splitter {
	return Splitter{ChunkSize: chunkSize, Overlap: overlap}
}

// Split is pure and deterministic. Empty or whitespace-only input
// yields no chunks. Summaries are "Part N of {title}" with N starting
// at 1 in window order; the final window may be shorter than ChunkSize.
func (s Splitter) Split(text, sourceURL, title string) []Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := s.ChunkSize - s.Overlap
	if step <= 0 {
		step = s.ChunkSize
	}

	var chunks []Chunk
	for i := 0; i < len(words); i += step {
		end := i + s.ChunkSize
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, Chunk{
			SourceURL: sourceURL,
			Title:     title,
			Summary:   fmt.Sprintf("Part %d of %s", len(chunks)+1, title),
			Content:   strings.Join(words[i:end], " "),
		})

		if end == len(words) {
			break
		}
	}

	return chunks
}
