package scoring

import (
	"context"

	"github.com/rs/zerolog/log"

	"synopsis-scorer/internal/models"
)

// AggregateScores scores synopsis against article on all three axes and
// combines them with the configured weights. Any embedding failure fails the
// whole call; no partial bundle is returned.
func (s *Scorer) AggregateScores(ctx context.Context, article, synopsis string) (models.ScoreBundle, error) {
	coverage, err := s.Coverage(ctx, article, synopsis)
	if err != nil {
		return models.ScoreBundle{}, err
	}
	coherence, err := s.Coherence(ctx, synopsis)
	if err != nil {
		return models.ScoreBundle{}, err
	}
	clarity := s.Clarity(synopsis)

	b := models.ScoreBundle{
		ContentCoverage: clamp01(coverage),
		Coherence:       clamp01(coherence),
		Clarity:         clamp01(clarity),
	}
	w := s.cfg.Weights
	b.Overall = w.Coverage*b.ContentCoverage + w.Coherence*b.Coherence + w.Clarity*b.Clarity

	log.Debug().
		Float64("coverage", b.ContentCoverage).
		Float64("coherence", b.Coherence).
		Float64("clarity", b.Clarity).
		Float64("overall", b.Overall).
		Msg("Aggregated scores")
	return b, nil
}
