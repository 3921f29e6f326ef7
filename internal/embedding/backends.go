package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"synopsis-scorer/internal/config"
)

// NewProviderFromConfig returns a Provider for the configured backend. No
// connection is made until the first embedding is requested.
func NewProviderFromConfig(cfg *config.EmbeddingConfig) (*Provider, error) {
	factory, err := newFactory(cfg)
	if err != nil {
		return nil, err
	}
	return NewProvider(modelName(cfg), factory), nil
}

func modelName(cfg *config.EmbeddingConfig) string {
	if cfg.Backend == config.BackendLexical {
		return fmt.Sprintf("%s/%d", cfg.Backend, cfg.Dimensions)
	}
	return fmt.Sprintf("%s/%s/%s", cfg.Backend, cfg.Provider, cfg.Model)
}

func newFactory(cfg *config.EmbeddingConfig) (Factory, error) {
	c := *cfg
	switch c.Backend {
	case config.BackendLangchain:
		switch c.Provider {
		case config.ProviderOllama:
			return func(context.Context) (Embedder, error) { return newOllamaEmbedder(&c) }, nil
		case config.ProviderOpenAI:
			return func(context.Context) (Embedder, error) { return newOpenAIEmbedder(&c) }, nil
		}
	case config.BackendChromem:
		switch c.Provider {
		case config.ProviderOllama, config.ProviderOpenAI:
			return func(context.Context) (Embedder, error) { return newChromemEmbedder(&c), nil }, nil
		}
	case config.BackendLexical:
		return func(context.Context) (Embedder, error) { return NewLexicalEmbedder(c.Dimensions), nil }, nil
	default:
		return nil, fmt.Errorf("unsupported embedding backend: %q", c.Backend)
	}
	return nil, fmt.Errorf("unsupported embedding provider %q for backend %q", c.Provider, c.Backend)
}

func newOllamaEmbedder(cfg *config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().Interface("config", map[string]string{
		"base_url":        cfg.BaseURL,
		"embedding_model": cfg.Model,
	}).Msg("Creating ollama embedder")

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ollama client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

func newOpenAIEmbedder(cfg *config.EmbeddingConfig) (*embeddings.EmbedderImpl, error) {
	log.Debug().Interface("config", map[string]string{
		"base_url":        cfg.BaseURL,
		"embedding_model": cfg.Model,
	}).Msg("Creating openai embedder")

	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize openai client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return embedder, nil
}

// chromemEmbedder adapts a chromem-go embedding function, which embeds one
// text per call.
type chromemEmbedder struct {
	fn chromem.EmbeddingFunc
}

func newChromemEmbedder(cfg *config.EmbeddingConfig) *chromemEmbedder {
	if cfg.Provider == config.ProviderOllama {
		return &chromemEmbedder{fn: chromem.NewEmbeddingFuncOllama(cfg.Model, strings.TrimSuffix(cfg.BaseURL, "/")+"/api")}
	}
	key := strings.TrimPrefix(cfg.Key, "Bearer ")
	if cfg.BaseURL == "" {
		return &chromemEmbedder{fn: chromem.NewEmbeddingFuncOpenAI(key, chromem.EmbeddingModelOpenAI(cfg.Model))}
	}
	return &chromemEmbedder{fn: chromem.NewEmbeddingFuncOpenAICompat(cfg.BaseURL, key, cfg.Model, nil)}
}

func (c *chromemEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for i, text := range texts {
		v, err := c.fn(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
