package service

import (
	"context"
	"errors"
	"sync"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore"
)

// fakeEmbedder returns a constant-direction vector and counts calls.
type fakeEmbedder struct {
	mu            sync.Mutex
	documentCalls int
	queryCalls    int
	failAfter     int // fail when documentCalls exceeds this; 0 disables
}

func (f *fakeEmbedder) Name() string   { return "fake" }
func (f *fakeEmbedder) Dimension() int { return 3 }

func (f *fakeEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.documentCalls++
	if f.failAfter > 0 && f.documentCalls > f.failAfter {
		return nil, errors.New("model unavailable")
	}
	return []float32{1, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queryCalls++
	return []float32{1, 0, 0}, nil
}

// fakeStore records inserts and search params, optionally failing on the
// n-th insert (1-based).
type fakeStore struct {
	mu           sync.Mutex
	inserted     []domain.Chunk
	failOnInsert int
	lastSearch   vectorstore.SearchParams
	searchCalls  int
	results      []domain.SearchResult
	searchErr    error
}

func (f *fakeStore) Insert(ctx context.Context, chunk domain.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOnInsert > 0 && len(f.inserted)+1 == f.failOnInsert {
		return errors.New("store unavailable")
	}
	f.inserted = append(f.inserted, chunk)
	return nil
}

func (f *fakeStore) Search(ctx context.Context, params vectorstore.SearchParams) ([]domain.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	f.lastSearch = params
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}
