package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore"
)

func insertAll(t *testing.T, s *Storage, chunks ...domain.Chunk) {
	t.Helper()
	for _, c := range chunks {
		require.NoError(t, s.Insert(context.Background(), c))
	}
}

func TestNewRejectsInvalidDimension(t *testing.T) {
	_, err := New(0)
	assert.Error(t, err)
}

func TestInsertDimensionMismatch(t *testing.T) {
	s, err := New(3)
	require.NoError(t, err)

	err = s.Insert(context.Background(), domain.Chunk{Content: "x", Embedding: []float32{1, 0}})
	assert.Error(t, err)
}

func TestSearchRanksByDescendingSimilarity(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	insertAll(t, s,
		domain.Chunk{Content: "east", Embedding: []float32{1, 0}},
		domain.Chunk{Content: "north", Embedding: []float32{0, 1}},
		domain.Chunk{Content: "northeast", Embedding: []float32{1, 1}},
	)

	results, err := s.Search(context.Background(), vectorstore.SearchParams{
		Embedding: []float32{1, 0},
		Threshold: 0.5,
		Limit:     5,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "east", results[0].Content)
	assert.Equal(t, "northeast", results[1].Content)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestSearchThresholdExcludesWeakMatches(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	insertAll(t, s,
		domain.Chunk{Content: "orthogonal", Embedding: []float32{0, 1}},
	)

	results, err := s.Search(context.Background(), vectorstore.SearchParams{
		Embedding: []float32{1, 0},
		Threshold: 0.5,
		Limit:     5,
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLimit(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		insertAll(t, s, domain.Chunk{Content: "c", Embedding: []float32{1, 0}})
	}

	results, err := s.Search(context.Background(), vectorstore.SearchParams{
		Embedding: []float32{1, 0},
		Threshold: 0,
		Limit:     3,
	})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearchOwnerIsolation(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	insertAll(t, s,
		domain.Chunk{Content: "alice's chunk", Embedding: []float32{1, 0}, OwnerID: "alice"},
		domain.Chunk{Content: "bob's chunk", Embedding: []float32{1, 0}, OwnerID: "bob"},
	)

	results, err := s.Search(context.Background(), vectorstore.SearchParams{
		Embedding: []float32{1, 0},
		Threshold: 0.5,
		Limit:     10,
		OwnerID:   "alice",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alice's chunk", results[0].Content)
}

func TestSearchWithoutOwnerSeesEverything(t *testing.T) {
	s, err := New(2)
	require.NoError(t, err)

	insertAll(t, s,
		domain.Chunk{Content: "a", Embedding: []float32{1, 0}, OwnerID: "alice"},
		domain.Chunk{Content: "b", Embedding: []float32{1, 0}, OwnerID: "bob"},
	)

	results, err := s.Search(context.Background(), vectorstore.SearchParams{
		Embedding: []float32{1, 0},
		Threshold: 0.5,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
