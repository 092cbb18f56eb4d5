package domain

import "context"

// Embedder converts free text into a fixed-length vector representation.
// The underlying model is loaded once at process start and is safe for
// concurrent use.
type Embedder interface {
	Name() string
	Dimension() int
	// EmbedDocument embeds text that will be stored for retrieval.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
	// EmbedQuery embeds a search query. Some models use a different
	// prefix for queries than for passages.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits plain text into ordered overlapping pieces suitable for
// retrieval indexing.
type Chunker interface {
	Split(text string) []string
}

// Extractor produces the plain text of a document from its raw bytes.
type Extractor interface {
	Extract(data []byte, filename string) (string, error)
}

// Ingester runs the document ingestion pipeline: extract, chunk, embed, store.
type Ingester interface {
	Ingest(ctx context.Context, data []byte, filename, ownerID string) (IngestReport, error)
}

// Searcher runs the query pipeline: embed the query and rank stored chunks.
type Searcher interface {
	Search(ctx context.Context, query, ownerID string) ([]SearchResult, error)
}

// Verifier checks a bearer credential and derives the owner id it maps to.
type Verifier interface {
	Verify(token string) (ownerID string, err error)
}
