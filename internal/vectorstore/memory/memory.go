package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore"
)

// Storage is an in-memory vector store using brute-force cosine similarity.
// It backs the "memory" store type for local development and tests.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	chunks    []domain.Chunk
}

// New creates an in-memory store expecting vectors of the given dimension.
func New(dimension int) (*Storage, error) {
	if dimension <= 0 {
		return nil, errors.New("invalid dimension")
	}
	return &Storage{dimension: dimension}, nil
}

// Insert stores one chunk.
func (s *Storage) Insert(ctx context.Context, chunk domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(chunk.Embedding) != s.dimension {
		return fmt.Errorf("vector dimension %d does not match store dimension %d",
			len(chunk.Embedding), s.dimension)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunk)
	return nil
}

// Search ranks stored chunks by cosine similarity to the query vector,
// applying the owner filter and similarity threshold before the limit.
func (s *Storage) Search(ctx context.Context, params vectorstore.SearchParams) ([]domain.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(params.Embedding) != s.dimension {
		return nil, fmt.Errorf("query dimension %d does not match store dimension %d",
			len(params.Embedding), s.dimension)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []domain.SearchResult
	for _, chunk := range s.chunks {
		if params.OwnerID != "" && chunk.OwnerID != params.OwnerID {
			continue
		}
		score := cosine(params.Embedding, chunk.Embedding)
		if score < params.Threshold {
			continue
		}
		results = append(results, domain.SearchResult{Content: chunk.Content, Similarity: score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	limit := params.Limit
	if limit <= 0 || limit > len(results) {
		limit = len(results)
	}
	return results[:limit], nil
}

func cosine(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

var _ vectorstore.Store = (*Storage)(nil)
