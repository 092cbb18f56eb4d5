package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"
)

// OpenAIEmbedder is an OpenAI-compatible remote embeddings client. It serves
// as the alternative to the local ONNX model for deployments that already
// run an embeddings endpoint.
type OpenAIEmbedder struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int
	client    *http.Client
}

// OpenAIConfig configures the remote embeddings client.
type OpenAIConfig struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	// Dimension overrides the vector length for models not in the known
	// set. Required for unknown models.
	Dimension int
	Timeout   time.Duration
}

var openAIDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"mxbai-embed-large-v1":   1024,
	"nomic-embed-text":       768,
}

// NewOpenAIEmbedder creates a client for an OpenAI-compatible embeddings API.
// The API key is read from the environment variable named by APIKeyEnv.
func NewOpenAIEmbedder(cfg OpenAIConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	dimension := cfg.Dimension
	if dimension == 0 {
		dimension = openAIDimensions[cfg.Model]
	}
	if dimension == 0 {
		return nil, fmt.Errorf("unknown dimension for model %q, set embedder.openai.dimension", cfg.Model)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIEmbedder{
		baseURL:   cfg.BaseURL,
		apiKey:    key,
		model:     cfg.Model,
		dimension: dimension,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the remote model name.
func (c *OpenAIEmbedder) Name() string { return c.model }

// Dimension returns the fixed vector length for the configured model.
func (c *OpenAIEmbedder) Dimension() int { return c.dimension }

// EmbedDocument embeds text that will be stored.
func (c *OpenAIEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text)
}

// EmbedQuery embeds a search query.
func (c *OpenAIEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return c.embed(ctx, text)
}

func (c *OpenAIEmbedder) embed(ctx context.Context, text string) ([]float32, error) {
	type reqBody struct {
		Input string `json:"input"`
		Model string `json:"model"`
	}
	data, err := json.Marshal(reqBody{Input: text, Model: c.model})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/embeddings", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embeddings request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embeddings request failed: %s", resp.Status)
	}

	var out struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
		return nil, errors.New("no embedding returned")
	}
	vector := out.Data[0].Embedding
	if len(vector) != c.dimension {
		return nil, fmt.Errorf("embedding dimension %d does not match expected %d", len(vector), c.dimension)
	}
	return vector, nil
}
