package vectorstore

import (
	"context"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

// SearchParams describes one similarity search call.
type SearchParams struct {
	// Embedding is the query vector.
	Embedding []float32
	// Threshold is the minimum similarity for a candidate to be returned.
	Threshold float32
	// Limit caps the number of results.
	Limit int
	// OwnerID, when non-empty, restricts results to chunks stored with
	// the same owner id.
	OwnerID string
}

// Store persists embedded chunks and answers similarity searches.
type Store interface {
	// Insert stores a single chunk. Inserts are independent: a failed
	// insert does not undo earlier ones.
	Insert(ctx context.Context, chunk domain.Chunk) error
	// Search returns matching chunks ranked by descending similarity.
	Search(ctx context.Context, params SearchParams) ([]domain.SearchResult, error)
}
