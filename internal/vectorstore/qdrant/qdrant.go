package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore"
)

// Payload field names used for stored chunks.
const (
	fieldContent        = "content"
	fieldOwnerID        = "owner_id"
	fieldSourceFilename = "source_filename"
)

// Config configures the Qdrant gRPC store.
type Config struct {
	// Host is the Qdrant server hostname. Default "localhost".
	Host string
	// Port is the Qdrant gRPC port (not the HTTP REST port). Default 6334.
	Port int
	// UseTLS enables TLS for the gRPC connection.
	UseTLS bool
	// APIKey is the optional API key for authentication.
	APIKey string
	// Collection is the collection holding document chunks.
	Collection string
	// RequestTimeout bounds individual requests. Default 30s.
	RequestTimeout time.Duration
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.Collection == "" {
		c.Collection = "documents"
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 30 * time.Second
	}
}

// Storage stores chunks in a Qdrant collection over gRPC.
type Storage struct {
	client     *qdrant.Client
	config     *Config
	logger     *zap.Logger
	collection string
}

// New connects to Qdrant, verifies the connection and ensures the chunk
// collection exists with the given vector dimension and cosine distance.
func New(ctx context.Context, cfg *Config, dimension int, logger *zap.Logger) (*Storage, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid vector dimension: %d", dimension)
	}
	cfg.ApplyDefaults()

	qdrantConfig := &qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		UseTLS: cfg.UseTLS,
		APIKey: cfg.APIKey,
	}
	if !cfg.UseTLS {
		qdrantConfig.GrpcOptions = append(qdrantConfig.GrpcOptions,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
	}

	client, err := qdrant.NewClient(qdrantConfig)
	if err != nil {
		return nil, fmt.Errorf("creating qdrant client: %w", err)
	}

	s := &Storage{
		client:     client,
		config:     cfg,
		logger:     logger,
		collection: cfg.Collection,
	}

	healthCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	if _, err := client.HealthCheck(healthCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("qdrant health check: %w", err)
	}
	logger.Info("qdrant connection established",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)

	if err := s.ensureCollection(ctx, uint64(dimension)); err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) ensureCollection(ctx context.Context, dimension uint64) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("checking collection %q: %w", s.collection, err)
	}
	if exists {
		return nil
	}

	s.logger.Info("creating qdrant collection",
		zap.String("collection", s.collection),
		zap.Uint64("dimension", dimension),
	)
	err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", s.collection, err)
	}
	return nil
}

// Insert stores a single chunk as a new point. No retry: the first failure
// is terminal for the request, and earlier inserts remain stored.
func (s *Storage) Insert(ctx context.Context, chunk domain.Chunk) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	payload := map[string]any{
		fieldContent: chunk.Content,
	}
	if chunk.OwnerID != "" {
		payload[fieldOwnerID] = chunk.OwnerID
	}
	if chunk.SourceFilename != "" {
		payload[fieldSourceFilename] = chunk.SourceFilename
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(uuid.NewString()),
				Vectors: qdrant.NewVectors(chunk.Embedding...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	return nil
}

// Search runs a similarity query and returns ranked results as scored by
// Qdrant. Results are not re-sorted or re-filtered here.
func (s *Storage) Search(ctx context.Context, params vectorstore.SearchParams) ([]domain.SearchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.RequestTimeout)
	defer cancel()

	limit := uint64(params.Limit)
	points, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(params.Embedding...),
		Limit:          &limit,
		ScoreThreshold: &params.Threshold,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         OwnerFilter(params.OwnerID),
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(points))
	for _, p := range points {
		results = append(results, domain.SearchResult{
			Content:    p.Payload[fieldContent].GetStringValue(),
			Similarity: p.Score,
		})
	}
	return results, nil
}

// OwnerFilter builds the payload filter restricting matches to one owner.
// An empty owner id means no filter.
func OwnerFilter(ownerID string) *qdrant.Filter {
	if ownerID == "" {
		return nil
	}
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch(fieldOwnerID, ownerID),
		},
	}
}

// Close closes the underlying gRPC connection.
func (s *Storage) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

var _ vectorstore.Store = (*Storage)(nil)
