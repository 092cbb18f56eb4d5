package chunker

import (
	"fmt"
	"strings"
)

// Chunker splits text into overlapping rune substrings of bounded size.
// Splitting is a pure function: identical input always yields identical
// output.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker producing chunks of at most size runes where
// consecutive chunks share overlap runes. Requires size > 0 and
// 0 <= overlap < size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("overlap must be in [0, size), got %d with size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split cuts text into an ordered sequence of substrings covering the whole
// text. Each chunk is at most size runes; each chunk after the first starts
// overlap runes before the end of its predecessor. Cuts prefer a paragraph
// break, then a sentence break, inside the window and fall back to a hard
// cut. Empty or all-whitespace input yields no chunks; no chunk is empty.
func (c *Chunker) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for {
		end := start + c.size
		if end >= n {
			chunks = append(chunks, string(runes[start:n]))
			return chunks
		}
		cut := c.cutPoint(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))
		start = cut - c.overlap
	}
}

// cutPoint picks where to end the chunk starting at start, scanning backward
// from the window end for a paragraph break, then a sentence break. Cuts
// never land at or before start+overlap so every chunk advances past the
// shared region.
func (c *Chunker) cutPoint(runes []rune, start, end int) int {
	lo := start + c.overlap + 1
	if lo > end-2 {
		return end
	}
	for i := end - 2; i >= lo; i-- {
		if runes[i] == '\n' && runes[i+1] == '\n' {
			return i + 2
		}
	}
	for i := end - 2; i >= lo; i-- {
		if isSentenceEnd(runes[i]) && isBreakSpace(runes[i+1]) {
			return i + 2
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isBreakSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}
