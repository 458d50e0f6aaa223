package indexer

import (
	"fmt"
	"strings"
	"testing"
)

func TestChunkEmptyInput(t *testing.T) {
	c := NewChunker(10, 2, 3)
	for _, text := range []string{"", "   ", "\n\t  \n"} {
		if got := c.Chunk("doc", Preprocess(text)); got != nil {
			t.Errorf("Chunk(%q) = %d chunks, want none", text, len(got))
		}
	}
}

func TestChunkDeterministicIDs(t *testing.T) {
	c := NewChunker(3, 0, 0)
	chunks := c.Chunk("doc-42", "one two three four five six seven")
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, ch := range chunks {
		want := fmt.Sprintf("doc-42:%d", i)
		if ch.ID != want {
			t.Errorf("chunk %d id = %q, want %q", i, ch.ID, want)
		}
		if ch.DocumentID != "doc-42" {
			t.Errorf("chunk %d document id = %q", i, ch.DocumentID)
		}
	}

	again := c.Chunk("doc-42", "one two three four five six seven")
	for i := range chunks {
		if chunks[i].ID != again[i].ID || chunks[i].Text != again[i].Text {
			t.Errorf("chunking is not deterministic at chunk %d", i)
		}
	}
}

func TestChunkShortTextRoundTrip(t *testing.T) {
	c := NewChunker(100, 10, 5)
	text := "a short document that fits in one chunk"
	chunks := c.Chunk("doc", text)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("Text = %q, want %q", chunks[0].Text, text)
	}
}

func TestChunkCountBounds(t *testing.T) {
	tests := []struct {
		words, size, overlap int
		want                 int
	}{
		{words: 10, size: 10, overlap: 0, want: 1},
		{words: 11, size: 10, overlap: 0, want: 2},
		{words: 30, size: 10, overlap: 0, want: 3},
		{words: 30, size: 10, overlap: 2, want: 4}, // stride 8: cuts at 10,18,26
		{words: 1, size: 10, overlap: 0, want: 1},
	}
	for _, tt := range tests {
		c := NewChunker(tt.size, tt.overlap, 0)
		words := make([]string, tt.words)
		for i := range words {
			words[i] = fmt.Sprintf("w%d", i)
		}
		chunks := c.Chunk("doc", strings.Join(words, " "))
		if len(chunks) != tt.want {
			t.Errorf("words=%d size=%d overlap=%d: got %d chunks, want %d",
				tt.words, tt.size, tt.overlap, len(chunks), tt.want)
		}
	}
}

func TestChunkOverlap(t *testing.T) {
	c := NewChunker(4, 2, 0)
	chunks := c.Chunk("doc", "w0 w1 w2 w3 w4 w5 w6 w7")
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	first := strings.Fields(chunks[0].Text)
	second := strings.Fields(chunks[1].Text)
	if first[len(first)-2] != second[0] || first[len(first)-1] != second[1] {
		t.Errorf("consecutive chunks should share 2 words: %q then %q", chunks[0].Text, chunks[1].Text)
	}
}

func TestChunkSnapsToSentenceBoundary(t *testing.T) {
	// Without snapping the first cut lands after w7; the period on w5
	// within the look-back window pulls it there.
	c := NewChunker(8, 0, 4)
	chunks := c.Chunk("doc", "w0 w1 w2 w3 w4 w5. w6 w7 w8 w9 w10 w11")
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks, want at least 2", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Text, "w5.") {
		t.Errorf("first chunk = %q, want it to end at the sentence boundary", chunks[0].Text)
	}
	if !strings.HasPrefix(chunks[1].Text, "w6") {
		t.Errorf("second chunk = %q, want it to start after the boundary", chunks[1].Text)
	}
}

func TestChunkNoBoundaryInWindow(t *testing.T) {
	c := NewChunker(4, 0, 2)
	chunks := c.Chunk("doc", "w0 w1 w2 w3 w4 w5")
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}
	if chunks[0].Text != "w0 w1 w2 w3" {
		t.Errorf("first chunk = %q, cut should stay at the window size", chunks[0].Text)
	}
}

func TestChunkProgressWithDegenerateOverlap(t *testing.T) {
	// NewChunker rejects overlap >= size, so chunking always advances.
	c := NewChunker(2, 5, 0)
	chunks := c.Chunk("doc", "w0 w1 w2 w3 w4 w5")
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  hello   world  ", "hello world"},
		{"a\n\nb\tc", "a b c"},
		{"", ""},
		{"   ", ""},
		{"already clean", "already clean"},
	}
	for _, tt := range tests {
		if got := Preprocess(tt.in); got != tt.want {
			t.Errorf("Preprocess(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
