package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

func newSearchService(t *testing.T, embedder *fakeEmbedder, store *fakeStore) *SearchService {
	t.Helper()
	svc, err := NewSearchService(embedder, store, SearchConfig{Threshold: 0.5, Limit: 5}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewSearchServiceValidation(t *testing.T) {
	_, err := NewSearchService(nil, &fakeStore{}, SearchConfig{Threshold: 0.5, Limit: 5}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewSearchService(&fakeEmbedder{}, &fakeStore{}, SearchConfig{Threshold: 1.5, Limit: 5}, zap.NewNop())
	assert.Error(t, err)

	_, err = NewSearchService(&fakeEmbedder{}, &fakeStore{}, SearchConfig{Threshold: 0.5, Limit: 0}, zap.NewNop())
	assert.Error(t, err)
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	svc := newSearchService(t, embedder, store)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Search(context.Background(), q, "alice")
		assert.ErrorIs(t, err, domain.ErrEmptyQuery, "query %q", q)
	}
	assert.Zero(t, embedder.queryCalls, "embedder must not run for blank queries")
	assert.Zero(t, store.searchCalls, "store must not be searched for blank queries")
}

func TestSearchZeroMatchesIsNotAnError(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{results: nil}
	svc := newSearchService(t, embedder, store)

	results, err := svc.Search(context.Background(), "anything", "alice")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 1, store.searchCalls)
}

func TestSearchPassesConfiguredParams(t *testing.T) {
	embedder := &fakeEmbedder{}
	store := &fakeStore{}
	svc := newSearchService(t, embedder, store)

	_, err := svc.Search(context.Background(), "query text", "alice")
	require.NoError(t, err)

	assert.Equal(t, []float32{1, 0, 0}, store.lastSearch.Embedding)
	assert.InDelta(t, 0.5, store.lastSearch.Threshold, 1e-6)
	assert.Equal(t, 5, store.lastSearch.Limit)
	assert.Equal(t, "alice", store.lastSearch.OwnerID)
}

func TestSearchReturnsResultsAsRanked(t *testing.T) {
	ranked := []domain.SearchResult{
		{Content: "best", Similarity: 0.92},
		{Content: "good", Similarity: 0.81},
		{Content: "ok", Similarity: 0.55},
	}
	store := &fakeStore{results: ranked}
	svc := newSearchService(t, &fakeEmbedder{}, store)

	results, err := svc.Search(context.Background(), "query", "")
	require.NoError(t, err)
	assert.Equal(t, ranked, results, "pipeline must not re-sort or re-filter")
}

func TestSearchStoreFailure(t *testing.T) {
	store := &fakeStore{searchErr: errors.New("connection refused")}
	svc := newSearchService(t, &fakeEmbedder{}, store)

	_, err := svc.Search(context.Background(), "query", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
