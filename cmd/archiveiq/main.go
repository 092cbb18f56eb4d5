package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/deanlockgaard/ArchiveIQ/internal/auth"
	"github.com/deanlockgaard/ArchiveIQ/internal/chunker"
	"github.com/deanlockgaard/ArchiveIQ/internal/config"
	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
	"github.com/deanlockgaard/ArchiveIQ/internal/embedding"
	"github.com/deanlockgaard/ArchiveIQ/internal/extract"
	"github.com/deanlockgaard/ArchiveIQ/internal/server"
	"github.com/deanlockgaard/ArchiveIQ/internal/service"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore/memory"
	"github.com/deanlockgaard/ArchiveIQ/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/archiveiq/config.yaml if not provided)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "fastembed":
		fe, err := embedding.NewFastEmbedder(embedding.FastEmbedConfig{
			Model:     cfg.Embedder.FastEmbed.Model,
			CacheDir:  cfg.Embedder.FastEmbed.CacheDir,
			MaxLength: cfg.Embedder.FastEmbed.MaxLength,
		})
		if err != nil {
			logger.Fatal("fastembed init failed", zap.Error(err))
		}
		defer fe.Close()
		emb = fe
	case "openai":
		client, err := embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Dimension: cfg.Embedder.OpenAI.Dimension,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Fatal("openai embedder init failed", zap.Error(err))
		}
		emb = client
	default:
		logger.Fatal("unknown embedder", zap.String("type", cfg.Embedder.Type))
	}
	logger.Info("embedder ready",
		zap.String("model", emb.Name()),
		zap.Int("dimension", emb.Dimension()),
	)

	var store vectorstore.Store
	switch cfg.Store.Type {
	case "memory":
		store, err = memory.New(emb.Dimension())
		if err != nil {
			logger.Fatal("memory store init failed", zap.Error(err))
		}
	case "qdrant":
		qs, err := qdrant.New(ctx, &qdrant.Config{
			Host:           cfg.Store.Qdrant.Host,
			Port:           cfg.Store.Qdrant.Port,
			UseTLS:         cfg.Store.Qdrant.UseTLS,
			APIKey:         cfg.Store.Qdrant.APIKey,
			Collection:     cfg.Store.Qdrant.Collection,
			RequestTimeout: time.Duration(cfg.Store.Qdrant.TimeoutSecs) * time.Second,
		}, emb.Dimension(), logger)
		if err != nil {
			logger.Fatal("qdrant init failed", zap.Error(err))
		}
		defer qs.Close()
		store = qs
	default:
		logger.Fatal("unknown vector store", zap.String("type", cfg.Store.Type))
	}

	ch, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		logger.Fatal("chunker init failed", zap.Error(err))
	}

	ingester, err := service.NewIngestService(extract.New(), ch, emb, store, logger)
	if err != nil {
		logger.Fatal("ingest service init failed", zap.Error(err))
	}
	searcher, err := service.NewSearchService(emb, store, service.SearchConfig{
		Threshold: float32(cfg.Search.Threshold),
		Limit:     cfg.Search.Limit,
	}, logger)
	if err != nil {
		logger.Fatal("search service init failed", zap.Error(err))
	}

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:   cfg.Auth.JWTSecret,
		Audience: cfg.Auth.Audience,
		TTL:      time.Duration(cfg.Auth.TokenTTLSecs) * time.Second,
	})
	if err != nil {
		logger.Fatal("token service init failed", zap.Error(err))
	}
	users := make([]auth.User, 0, len(cfg.Auth.Users))
	for _, u := range cfg.Auth.Users {
		users = append(users, auth.User{ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash})
	}
	creds := auth.NewCredentialStore(users)

	srv, err := server.New(ingester, searcher, tokens, creds, tokens, logger, server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		logger.Fatal("server stopped", zap.Error(err))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
