// Package indexer provides text chunking and the ingestion orchestrator that
// keeps the remote vector store in sync per document.
package indexer

import (
	"fmt"
	"strings"

	"github.com/canopyhq/vectord/internal/models"
)

// Chunker splits normalized text into word-window segments sized for
// embedding. Cutting on word boundaries means no word is ever split; when a
// sentence boundary exists within the look-back window of a cut, the cut
// snaps to it so segments end on natural boundaries where possible.
type Chunker struct {
	size     int // target segment size, in words
	overlap  int // words shared between consecutive segments
	lookback int // boundary snap window, in words
}

// NewChunker creates a chunker with the given size, overlap, and look-back
// window, all in words.
func NewChunker(size, overlap, lookback int) *Chunker {
	if size <= 0 {
		size = 200
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	if lookback < 0 {
		lookback = 0
	}
	return &Chunker{size: size, overlap: overlap, lookback: lookback}
}

// Chunk splits text into chunks owned by docID. Chunk ids are deterministic,
// "<docID>:<n>", so re-ingesting a document overwrites the same ids. Empty
// input yields no chunks.
func (c *Chunker) Chunk(docID, text string) []*models.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var chunks []*models.Chunk
	start := 0
	for index := 0; start < len(words); index++ {
		end := start + c.size
		if end >= len(words) {
			end = len(words)
		} else {
			end = c.snapToBoundary(words, start, end)
		}
		chunks = append(chunks, &models.Chunk{
			ID:         fmt.Sprintf("%s:%d", docID, index),
			DocumentID: docID,
			Text:       strings.Join(words[start:end], " "),
		})
		if end >= len(words) {
			break
		}
		next := end - c.overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// snapToBoundary moves a cut at end back to just after the nearest
// sentence-ending word within the look-back window, or leaves it unchanged
// when no boundary is found.
func (c *Chunker) snapToBoundary(words []string, start, end int) int {
	limit := end - c.lookback
	if limit <= start {
		limit = start + 1
	}
	for i := end - 1; i >= limit; i-- {
		if endsSentence(words[i]) {
			return i + 1
		}
	}
	return end
}

func endsSentence(word string) bool {
	word = strings.TrimRight(word, `"')]`)
	return strings.HasSuffix(word, ".") ||
		strings.HasSuffix(word, "!") ||
		strings.HasSuffix(word, "?")
}
