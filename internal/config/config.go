// Package config loads service configuration from an optional YAML file
// overridden by environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// envPrefix namespaces the service's environment variables.
// Double underscore is the nesting separator, single underscores belong to
// the key: ARCHIVEIQ_AUTH__JWT_SECRET -> auth.jwt_secret,
// ARCHIVEIQ_STORE__QDRANT__HOST -> store.qdrant.host.
const envPrefix = "ARCHIVEIQ_"

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host                string `koanf:"host" yaml:"host"`
	Port                int    `koanf:"port" yaml:"port"`
	ShutdownTimeoutSecs int    `koanf:"shutdown_timeout_secs" yaml:"shutdown_timeout_secs"`
	MaxUploadBytes      int64  `koanf:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// ChunkingConfig holds document splitting parameters.
type ChunkingConfig struct {
	Size    int `koanf:"size" yaml:"size"`
	Overlap int `koanf:"overlap" yaml:"overlap"`
}

// SearchConfig holds similarity search parameters.
type SearchConfig struct {
	Threshold float64 `koanf:"threshold" yaml:"threshold"`
	Limit     int     `koanf:"limit" yaml:"limit"`
}

// FastEmbedConfig configures the local ONNX embedder.
type FastEmbedConfig struct {
	Model     string `koanf:"model" yaml:"model"`
	CacheDir  string `koanf:"cache_dir" yaml:"cache_dir"`
	MaxLength int    `koanf:"max_length" yaml:"max_length"`
}

// OpenAIConfig configures the OpenAI-compatible remote embedder.
type OpenAIConfig struct {
	BaseURL     string `koanf:"base_url" yaml:"base_url"`
	APIKeyEnv   string `koanf:"api_key_env" yaml:"api_key_env"`
	Model       string `koanf:"model" yaml:"model"`
	Dimension   int    `koanf:"dimension" yaml:"dimension"`
	TimeoutSecs int    `koanf:"timeout_secs" yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the embedder implementation.
type EmbedderConfig struct {
	Type      string          `koanf:"type" yaml:"type"`
	FastEmbed FastEmbedConfig `koanf:"fastembed" yaml:"fastembed"`
	OpenAI    OpenAIConfig    `koanf:"openai" yaml:"openai"`
}

// QdrantConfig holds Qdrant connection details.
type QdrantConfig struct {
	Host        string `koanf:"host" yaml:"host"`
	Port        int    `koanf:"port" yaml:"port"`
	UseTLS      bool   `koanf:"use_tls" yaml:"use_tls"`
	APIKey      string `koanf:"api_key" yaml:"api_key"`
	Collection  string `koanf:"collection" yaml:"collection"`
	TimeoutSecs int    `koanf:"timeout_secs" yaml:"timeout_secs"`
}

// StoreConfig selects and configures the vector store implementation.
type StoreConfig struct {
	Type   string       `koanf:"type" yaml:"type"`
	Qdrant QdrantConfig `koanf:"qdrant" yaml:"qdrant"`
}

// AuthUser is one configured login account.
type AuthUser struct {
	ID           string `koanf:"id" yaml:"id"`
	Email        string `koanf:"email" yaml:"email"`
	PasswordHash string `koanf:"password_hash" yaml:"password_hash"`
}

// AuthConfig holds credential verification settings.
type AuthConfig struct {
	JWTSecret    string     `koanf:"jwt_secret" yaml:"jwt_secret"`
	Audience     string     `koanf:"audience" yaml:"audience"`
	TokenTTLSecs int        `koanf:"token_ttl_secs" yaml:"token_ttl_secs"`
	Users        []AuthUser `koanf:"users" yaml:"users,omitempty"`
}

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server" yaml:"server"`
	Chunking ChunkingConfig `koanf:"chunking" yaml:"chunking"`
	Search   SearchConfig   `koanf:"search" yaml:"search"`
	Embedder EmbedderConfig `koanf:"embedder" yaml:"embedder"`
	Store    StoreConfig    `koanf:"store" yaml:"store"`
	Auth     AuthConfig     `koanf:"auth" yaml:"auth"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "localhost",
			Port:                8080,
			ShutdownTimeoutSecs: 10,
			MaxUploadBytes:      32 << 20, // 32MB
		},
		Chunking: ChunkingConfig{Size: 1000, Overlap: 200},
		Search:   SearchConfig{Threshold: 0.5, Limit: 5},
		Embedder: EmbedderConfig{
			Type: "fastembed",
			FastEmbed: FastEmbedConfig{
				Model:     "BAAI/bge-small-en-v1.5",
				MaxLength: 512,
			},
			OpenAI: OpenAIConfig{
				BaseURL:     "https://api.openai.com/v1",
				APIKeyEnv:   "OPENAI_API_KEY",
				Model:       "text-embedding-3-small",
				TimeoutSecs: 30,
			},
		},
		Store: StoreConfig{
			Type: "qdrant",
			Qdrant: QdrantConfig{
				Host:        "localhost",
				Port:        6334,
				Collection:  "documents",
				TimeoutSecs: 30,
			},
		},
		Auth: AuthConfig{
			Audience:     "authenticated",
			TokenTTLSecs: 3600,
		},
	}
}

// Load reads configuration from the YAML file at path, then overrides it
// with ARCHIVEIQ_* environment variables. A missing file is not an error;
// env vars and defaults still apply. Returns a validated config.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := defaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads ./config.yaml if present, otherwise
// ~/.config/archiveiq/config.yaml, writing the defaults there first if
// neither exists.
func LoadDefault() (*Config, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, "", err
	}
	userPath := filepath.Join(home, ".config", "archiveiq", "config.yaml")
	if _, err := os.Stat(userPath); errors.Is(err, os.ErrNotExist) {
		if err := Save(userPath, defaultConfig()); err != nil {
			return nil, "", err
		}
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yamlv3.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks the configuration. The signing secret is required: the
// process must fail fast at startup without it.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required (set ARCHIVEIQ_AUTH__JWT_SECRET)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, size), got %d", c.Chunking.Overlap)
	}
	if c.Search.Threshold < 0 || c.Search.Threshold > 1 {
		return fmt.Errorf("search.threshold must be in [0,1], got %v", c.Search.Threshold)
	}
	if c.Search.Limit <= 0 {
		return fmt.Errorf("search.limit must be positive, got %d", c.Search.Limit)
	}
	switch c.Embedder.Type {
	case "fastembed", "openai":
	default:
		return fmt.Errorf("unknown embedder type %q", c.Embedder.Type)
	}
	switch c.Store.Type {
	case "qdrant", "memory":
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	return nil
}

func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
