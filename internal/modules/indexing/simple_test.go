package indexing_test

import (
	"strings"
	"testing"

	"github.com/solenecodes/web-search-agent/internal/modules/indexing"
)

func TestChunkTextEmpty(t *testing.T) {
	if chunks := indexing.ChunkText("", 100); chunks != nil {
		t.Errorf("got %v, expected nil for empty text", chunks)
	}
	if chunks := indexing.ChunkText("  \n  \n ", 100); chunks != nil {
		t.Errorf("got %v, expected nil for whitespace-only text", chunks)
	}
}

func TestChunkTextSingleChunk(t *testing.T) {
	chunks := indexing.ChunkText("one paragraph\n\nanother paragraph", 100)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, expected 1", len(chunks))
	}
	if chunks[0] != "one paragraph\nanother paragraph" {
		t.Errorf("got chunk '%s', expected paragraphs joined", chunks[0])
	}
}

func TestChunkTextParagraphBoundaries(t *testing.T) {
	first := strings.Repeat("a", 60)
	second := strings.Repeat("b", 60)
	third := strings.Repeat("c", 20)

	chunks := indexing.ChunkText(first+"\n"+second+"\n"+third, 100)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, expected 2", len(chunks))
	}
	if chunks[0] != first {
		t.Errorf("got chunk '%s', expected the first paragraph alone", chunks[0])
	}
	if chunks[1] != second+"\n"+third {
		t.Errorf("got chunk '%s', expected second and third paragraphs together", chunks[1])
	}
}

func TestChunkTextSplitsOversizedParagraph(t *testing.T) {
	long := strings.Repeat("x", 250)

	chunks := indexing.ChunkText(long, 100)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, expected 3", len(chunks))
	}
	if len(chunks[0]) != 100 || len(chunks[1]) != 100 {
		t.Errorf("got chunk sizes %d and %d, expected hard splits of 100", len(chunks[0]), len(chunks[1]))
	}
	if len(chunks[2]) != 50 {
		t.Errorf("got final chunk size %d, expected 50", len(chunks[2]))
	}

	for i, chunk := range chunks {
		if strings.Trim(chunk, "x") != "" {
			t.Errorf("chunk %d lost content: '%s'", i, chunk)
		}
	}
}
