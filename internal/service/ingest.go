// Package service contains the two pipelines of the system: document
// ingestion (extract, chunk, embed, store) and query (embed, search).
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore"
)

// IngestService orchestrates Extractor -> Chunker -> Embedder -> Store,
// one chunk at a time.
type IngestService struct {
	extractor domain.Extractor
	chunker   domain.Chunker
	embedder  domain.Embedder
	store     vectorstore.Store
	logger    *zap.Logger
}

// NewIngestService wires the ingestion pipeline. All dependencies are
// required.
func NewIngestService(extractor domain.Extractor, chunker domain.Chunker, embedder domain.Embedder, store vectorstore.Store, logger *zap.Logger) (*IngestService, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if chunker == nil {
		return nil, fmt.Errorf("chunker is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &IngestService{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		logger:    logger,
	}, nil
}

// Ingest extracts the document text, splits it into chunks and stores one
// embedded chunk per record. Storage is at-least-once and non-atomic: if a
// store call fails partway through, the pipeline aborts immediately and
// chunks already stored remain stored.
func (s *IngestService) Ingest(ctx context.Context, data []byte, filename, ownerID string) (domain.IngestReport, error) {
	text, err := s.extractor.Extract(data, filename)
	if err != nil {
		return domain.IngestReport{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.IngestReport{}, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, filename)
	}

	chunks := s.chunker.Split(text)
	for i, content := range chunks {
		embedding, err := s.embedder.EmbedDocument(ctx, content)
		if err != nil {
			return domain.IngestReport{}, fmt.Errorf("embedding chunk %d of %s: %w", i, filename, err)
		}
		chunk := domain.Chunk{
			Content:        content,
			Embedding:      embedding,
			OwnerID:        ownerID,
			SourceFilename: filename,
		}
		if err := s.store.Insert(ctx, chunk); err != nil {
			return domain.IngestReport{}, fmt.Errorf("storing chunk %d of %s: %w", i, filename, err)
		}
	}

	s.logger.Info("document ingested",
		zap.String("filename", filename),
		zap.Int("chunks", len(chunks)),
		zap.String("owner_id", ownerID),
	)
	return domain.IngestReport{Filename: filename, ChunkCount: len(chunks)}, nil
}

var _ domain.Ingester = (*IngestService)(nil)
