package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/hh-matcher/internal/ai/gemini"
	"github.com/spigell/hh-matcher/internal/embedding"
	"github.com/spigell/hh-matcher/internal/index"
	"github.com/spigell/hh-matcher/internal/index/bolt"
	"github.com/spigell/hh-matcher/internal/index/memory"
	"github.com/spigell/hh-matcher/internal/index/qdrant"
	"github.com/spigell/hh-matcher/internal/logger"
	"github.com/spigell/hh-matcher/internal/matching"
	"github.com/spigell/hh-matcher/internal/secrets"
	"github.com/spigell/hh-matcher/internal/tracing"
)

const (
	backendQdrant = "qdrant"
	backendBolt   = "bolt"
	backendMemory = "memory"

	embeddingGemini  = "gemini"
	embeddingHashing = "hashing"
)

// components holds everything a command needs, built once from the config.
type components struct {
	service *matching.Service
	indexer *matching.Indexer
	closers []func() error
	logger  *zap.Logger
}

func (c *components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.logger.Warn("closing component", zap.Error(err))
		}
	}
}

func setup(ctx context.Context) (*Config, *components, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("getting a config: %w", err)
	}
	if config == nil {
		return nil, nil, errors.New("config is required")
	}

	c, err := build(ctx, config, log)
	if err != nil {
		return nil, nil, err
	}
	return config, c, nil
}

func build(ctx context.Context, config *Config, log *zap.Logger) (*components, error) {
	c := &components{logger: log}

	shutdown, err := tracing.Init(ctx, config.Tracing, version)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	c.closers = append(c.closers, func() error { return shutdown(context.Background()) })

	idx, closeIndex := buildIndex(ctx, config.Index, log)
	if closeIndex != nil {
		c.closers = append(c.closers, closeIndex)
	}

	generator, err := buildGenerator(ctx, config.AI, log)
	if err != nil {
		return nil, err
	}

	annotator := matching.NewAnnotator(generator, matching.AnnotatorConfig{
		Concurrency:       config.AI.Reasons.Concurrency,
		RequestsPerMinute: config.AI.Reasons.RequestsPerMinute,
		MaxLogLength:      config.AI.Gemini.MaxLogLength,
		Model:             generatorModel(config.AI.Gemini.Model),
	}, log)

	c.indexer = matching.NewIndexer(idx, log)
	c.service = matching.NewService(
		c.indexer,
		matching.NewRetriever(idx, config.Matching.DefaultTopK, log),
		annotator,
		config.AI.Reasons.Max,
		log,
	)

	return c, nil
}

// buildIndex never fails: a backend that cannot be configured is replaced by
// index.Unavailable and the error is reported on first use.
func buildIndex(ctx context.Context, cfg IndexConfig, log *zap.Logger) (index.Index, func() error) {
	idx, closer, err := openIndex(ctx, cfg, log)
	if err != nil {
		log.Warn("vector index is unavailable", zap.String("backend", cfg.Backend), zap.Error(err))
		return index.Unavailable{Err: err}, nil
	}

	log.Info("vector index configured", zap.String("backend", cfg.Backend))
	return idx, closer
}

func openIndex(ctx context.Context, cfg IndexConfig, log *zap.Logger) (index.Index, func() error, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))

	embedder, err := buildEmbedder(ctx, cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}

	switch backend {
	case backendQdrant, "":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "qdrant api key",
			Value: cfg.Qdrant.APIKey,
			File:  cfg.Qdrant.APIKeyFile,
			Env:   "QDRANT_API_KEY",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", index.ErrNotConfigured, err)
		}
		store, err := qdrant.New(qdrant.Config{
			Host:             cfg.Qdrant.Host,
			Port:             cfg.Qdrant.Port,
			APIKey:           apiKey,
			TLS:              cfg.Qdrant.TLS,
			CollectionPrefix: cfg.Qdrant.CollectionPrefix,
		}, embedder, log)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case backendBolt:
		store, err := bolt.Open(cfg.Bolt.Path, embedder)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case backendMemory:
		return memory.New(embedder), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: unknown index backend %q", index.ErrNotConfigured, cfg.Backend)
	}
}

func buildEmbedder(ctx context.Context, cfg EmbeddingConfig) (embedding.Embedder, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case embeddingHashing:
		return embedding.NewHashing(cfg.Dimension), nil
	case embeddingGemini, "":
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "embedding api key",
			Value: cfg.APIKey,
			File:  cfg.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", index.ErrNotConfigured, err)
		}
		return embedding.NewGemini(ctx, apiKey, cfg.Model)
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q", index.ErrNotConfigured, cfg.Provider)
	}
}

// buildGenerator returns a nil Generator when no credential is configured,
// which turns reason generation off.
func buildGenerator(ctx context.Context, cfg AIConfig, log *zap.Logger) (matching.Generator, error) {
	if p := strings.ToLower(strings.TrimSpace(cfg.Provider)); p != "" && p != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}

	apiKey, err := secrets.LoadOptional(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, err
	}
	if apiKey == "" {
		log.Info("reason generation disabled", zap.String("reason", "no gemini api key configured"))
		return nil, nil
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	logger.WithAIFields(log, "gemini", generator.Model()).Info("reason generation enabled")
	return generator, nil
}

func generatorModel(model string) string {
	if model = strings.TrimSpace(model); model == "" {
		return gemini.DefaultModel
	}
	return model
}
