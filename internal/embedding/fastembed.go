package embedding

import (
	"context"
	"fmt"
	"path/filepath"

	fastembed "github.com/anush008/fastembed-go"
)

// FastEmbedConfig configures the local ONNX embedder.
type FastEmbedConfig struct {
	// Model is the embedding model name, e.g. "BAAI/bge-small-en-v1.5".
	Model string
	// CacheDir is where downloaded model files are kept.
	CacheDir string
	// MaxLength is the maximum input sequence length.
	MaxLength int
}

// FastEmbedder embeds text with a pretrained sentence-embedding model run
// locally through ONNX. The model is loaded once and reused for all calls;
// the embedder is safe for concurrent use.
type FastEmbedder struct {
	model     *fastembed.FlagEmbedding
	modelName string
	dimension int
}

var fastEmbedModels = map[string]fastembed.EmbeddingModel{
	"BAAI/bge-small-en-v1.5":                 fastembed.BGESmallENV15,
	"BAAI/bge-base-en-v1.5":                  fastembed.BGEBaseENV15,
	"sentence-transformers/all-MiniLM-L6-v2": fastembed.AllMiniLML6V2,
}

var fastEmbedDimensions = map[fastembed.EmbeddingModel]int{
	fastembed.BGESmallENV15: 384,
	fastembed.BGEBaseENV15:  768,
	fastembed.AllMiniLML6V2: 384,
}

// NewFastEmbedder loads the configured model, downloading it into CacheDir
// on first use.
func NewFastEmbedder(cfg FastEmbedConfig) (*FastEmbedder, error) {
	model, ok := fastEmbedModels[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("unsupported embedding model %q", cfg.Model)
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = filepath.Join(".", "model_cache")
	}
	maxLength := cfg.MaxLength
	if maxLength == 0 {
		maxLength = 512
	}
	showProgress := false

	flagEmbed, err := fastembed.NewFlagEmbedding(&fastembed.InitOptions{
		Model:                model,
		CacheDir:             cacheDir,
		MaxLength:            maxLength,
		ShowDownloadProgress: &showProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing embedding model: %w", err)
	}

	return &FastEmbedder{
		model:     flagEmbed,
		modelName: cfg.Model,
		dimension: fastEmbedDimensions[model],
	}, nil
}

// Name returns the configured model name.
func (e *FastEmbedder) Name() string { return e.modelName }

// Dimension returns the fixed length of vectors this model produces.
func (e *FastEmbedder) Dimension() int { return e.dimension }

// EmbedDocument embeds stored text. BGE models expect a "passage: " prefix
// for documents, which PassageEmbed adds.
func (e *FastEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vectors, err := e.model.PassageEmbed([]string{text}, 1)
	if err != nil {
		return nil, fmt.Errorf("embedding document: %w", err)
	}
	return vectors[0], nil
}

// EmbedQuery embeds a search query. QueryEmbed adds the "query: " prefix.
func (e *FastEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vector, err := e.model.QueryEmbed(text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return vector, nil
}

// Close releases the loaded model.
func (e *FastEmbedder) Close() error {
	if e.model != nil {
		return e.model.Destroy()
	}
	return nil
}
