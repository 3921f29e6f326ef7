package scoring

import (
	"context"
	"fmt"

	"synopsis-scorer/internal/embedding"
	"synopsis-scorer/internal/segmenter"
)

// Coherence is the mean cosine similarity of consecutive synopsis sentences.
// A synopsis with fewer than two sentences scores 0.
func (s *Scorer) Coherence(ctx context.Context, synopsis string) (float64, error) {
	sentences := segmenter.Split(synopsis)
	if len(sentences) < 2 {
		return 0, nil
	}

	vecs, err := s.embedder.Embed(ctx, sentences...)
	if err != nil {
		return 0, fmt.Errorf("coherence: %w", err)
	}
	if len(vecs) != len(sentences) {
		return 0, fmt.Errorf("coherence: expected %d embeddings, got %d", len(sentences), len(vecs))
	}

	var sum float64
	for i := 0; i < len(vecs)-1; i++ {
		sim, err := embedding.Cosine(vecs[i], vecs[i+1])
		if err != nil {
			return 0, fmt.Errorf("coherence: sentences %d and %d: %w", i, i+1, err)
		}
		sum += sim
	}
	return sum / float64(len(vecs)-1), nil
}
