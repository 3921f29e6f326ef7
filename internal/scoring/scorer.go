package scoring

import (
	"context"

	"synopsis-scorer/internal/config"
	"synopsis-scorer/internal/embedding"
)

// VectorEmbedder returns one normalised vector per text.
// *embedding.Provider satisfies it.
type VectorEmbedder interface {
	Embed(ctx context.Context, texts ...string) ([]embedding.Vector, error)
}

// Scorer turns an article and a synopsis into a ScoreBundle. It holds no
// per-request state.
type Scorer struct {
	embedder VectorEmbedder
	cfg      config.ScoringConfig
	rules    Rules
}

func NewScorer(embedder VectorEmbedder, cfg config.ScoringConfig) *Scorer {
	if cfg.MaxFeedback <= 0 {
		cfg.MaxFeedback = defaultMaxFeedback
	}
	return &Scorer{
		embedder: embedder,
		cfg:      cfg,
		rules:    DefaultRules(cfg.Thresholds),
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
