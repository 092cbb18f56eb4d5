package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore"
)

// SearchConfig holds the similarity search parameters.
type SearchConfig struct {
	// Threshold is the minimum similarity for a result.
	Threshold float32
	// Limit caps the number of results.
	Limit int
}

// SearchService orchestrates Embedder -> Store similarity search. Results
// are returned exactly as ranked by the store.
type SearchService struct {
	embedder domain.Embedder
	store    vectorstore.Store
	config   SearchConfig
	logger   *zap.Logger
}

// NewSearchService wires the query pipeline.
func NewSearchService(embedder domain.Embedder, store vectorstore.Store, cfg SearchConfig, logger *zap.Logger) (*SearchService, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("threshold must be in [0,1], got %v", cfg.Threshold)
	}
	if cfg.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", cfg.Limit)
	}
	return &SearchService{embedder: embedder, store: store, config: cfg, logger: logger}, nil
}

// Search embeds the query and returns the nearest stored chunks above the
// similarity threshold, scoped to ownerID when set. An empty or blank query
// short-circuits with domain.ErrEmptyQuery before the embedder or the store
// is invoked; a query that matched nothing returns an empty slice and no
// error.
func (s *SearchService) Search(ctx context.Context, query, ownerID string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}

	embedding, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := s.store.Search(ctx, vectorstore.SearchParams{
		Embedding: embedding,
		Threshold: s.config.Threshold,
		Limit:     s.config.Limit,
		OwnerID:   ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	s.logger.Debug("search completed",
		zap.Int("results", len(results)),
		zap.String("owner_id", ownerID),
	)
	return results, nil
}

var _ domain.Searcher = (*SearchService)(nil)
