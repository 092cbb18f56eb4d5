package domain

// Chunk is a bounded piece of a source document together with its embedding
// and ownership metadata. Chunks are immutable once stored; the original
// chunk order within a document is not preserved in storage.
type Chunk struct {
	Content        string
	Embedding      []float32
	OwnerID        string
	SourceFilename string
}

// SearchResult is a matching chunk content with its similarity score in [0,1].
type SearchResult struct {
	Content    string
	Similarity float32
}

// IngestReport summarizes a successful document ingestion.
type IngestReport struct {
	Filename   string
	ChunkCount int
}
