package text

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_Empty(t *testing.T) {
	s := NewSplitter(1000, 100)
	assert.Empty(t, s.Split("", "gdrive://doc", "Doc"))
	assert.Empty(t, s.Split("   \n\t ", "gdrive://doc", "Doc"))
}

func TestSplit_SingleChunk(t *testing.T) {
	s := NewSplitter(1000, 100)
	chunks := s.Split("just a few words", "gdrive://doc", "Doc")

	assert.Len(t, chunks, 1)
	assert.Equal(t, "just a few words", chunks[0].Content)
	assert.Equal(t, "Part 1 of Doc", chunks[0].Summary)
	assert.Equal(t, "gdrive://doc", chunks[0].SourceURL)
	assert.Equal(t, "Doc", chunks[0].Title)
	assert.Nil(t, chunks[0].Embedding)
}

func TestSplit_OverlappingWindows(t *testing.T) {
	s := NewSplitter(4, 2)
	chunks := s.Split("a b c d e f g h i j", "gdrive://t", "T")

	contents := make([]string, len(chunks))
	summaries := make([]string, len(chunks))
	for i, c := range chunks {
		contents[i] = c.Content
		summaries[i] = c.Summary
	}

	assert.Equal(t, []string{"a b c d", "c d e f", "e f g h", "g h i j"}, contents)
	assert.Equal(t, []string{"Part 1 of T", "Part 2 of T", "Part 3 of T", "Part 4 of T"}, summaries)
}

func TestSplit_ShortFinalWindow(t *testing.T) {
	s := NewSplitter(4, 1)
	chunks := s.Split("a b c d e", "u", "T")

	assert.Len(t, chunks, 2)
	assert.Equal(t, "a b c d", chunks[0].Content)
	assert.Equal(t, "d e", chunks[1].Content)
}

func TestSplit_Deterministic(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 2500; i++ {
		fmt.Fprintf(&sb, "w%d ", i)
	}
	input := sb.String()

	s := NewSplitter(1000, 100)
	first := s.Split(input, "u", "T")
	second := s.Split(input, "u", "T")

	assert.Equal(t, first, second)
	assert.Len(t, first, 3)
}

func TestSplit_OverlapInvariant(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "w%d ", i)
	}

	size, overlap := 10, 3
	s := NewSplitter(size, overlap)
	chunks := s.Split(sb.String(), "u", "T")

	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1].Content)
		cur := strings.Fields(chunks[i].Content)

		if len(cur) == size {
			// Tail of the previous window must equal the head of this one.
			assert.Equal(t, prev[len(prev)-overlap:], cur[:overlap], "chunk %d", i)
		}
	}
}

func TestSplit_NormalizesWhitespace(t *testing.T) {
	s := NewSplitter(10, 2)
	chunks := s.Split("a\tb\n\nc   d", "u", "T")

	assert.Len(t, chunks, 1)
	assert.Equal(t, "a b c d", chunks[0].Content)
}
