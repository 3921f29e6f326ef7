package embedding

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Factory builds the underlying model. It is called until it succeeds once.
type Factory func(ctx context.Context) (Embedder, error)

// warmupText is embedded once at load time to make sure the model answers
// and to learn its dimension.
const warmupText = "warmup"

type loadedModel struct {
	embedder Embedder
	dim      int
}

// Provider hands out normalised embeddings from a single lazily loaded
// model. It is safe for concurrent use; the model is built at most once and
// then kept for the life of the process.
type Provider struct {
	name    string
	factory Factory

	mu     sync.Mutex
	loaded atomic.Pointer[loadedModel]
}

func NewProvider(name string, factory Factory) *Provider {
	return &Provider{name: name, factory: factory}
}

// Name identifies the model; vectors carry it so that embeddings of
// different models are never compared.
func (p *Provider) Name() string {
	return p.name
}

// Loaded reports whether the model has been materialised.
func (p *Provider) Loaded() bool {
	return p.loaded.Load() != nil
}

// Load materialises the model if needed. Embed calls it implicitly; calling
// it at startup moves the first-use latency out of the first request.
func (p *Provider) Load(ctx context.Context) error {
	_, err := p.model(ctx)
	return err
}

func (p *Provider) model(ctx context.Context) (*loadedModel, error) {
	if m := p.loaded.Load(); m != nil {
		return m, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if m := p.loaded.Load(); m != nil {
		return m, nil
	}

	start := time.Now()
	log.Info().Str("model", p.name).Msg("Loading embedding model")

	embedder, err := p.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelUnavailable, p.name, err)
	}
	probe, err := embedder.EmbedDocuments(ctx, []string{warmupText})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelUnavailable, p.name, err)
	}
	if len(probe) != 1 || len(probe[0]) == 0 {
		return nil, fmt.Errorf("%w: %s: empty warmup embedding", ErrModelUnavailable, p.name)
	}

	m := &loadedModel{embedder: embedder, dim: len(probe[0])}
	p.loaded.Store(m)
	log.Info().Str("model", p.name).Int("dimensions", m.dim).Dur("took", time.Since(start)).Msg("Embedding model loaded")
	return m, nil
}

// Embed returns one normalised vector per text, in input order.
func (p *Provider) Embed(ctx context.Context, texts ...string) ([]Vector, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	m, err := p.model(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := m.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d texts with %s: %w", len(texts), p.name, err)
	}
	if len(raw) != len(texts) {
		return nil, fmt.Errorf("embedder %s returned %d vectors for %d texts", p.name, len(raw), len(texts))
	}

	vectors := make([]Vector, len(raw))
	for i, values := range raw {
		if len(values) != m.dim {
			return nil, fmt.Errorf("embedder %s returned %d dimensions, expected %d", p.name, len(values), m.dim)
		}
		vectors[i] = Vector{Model: p.name, Values: Normalize(values)}
	}
	return vectors, nil
}
