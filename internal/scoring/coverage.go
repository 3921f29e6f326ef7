package scoring

import (
	"context"
	"fmt"

	"synopsis-scorer/internal/embedding"
)

// Coverage is the cosine similarity between the embeddings of the whole
// article and the whole synopsis. It is symmetric in its arguments.
func (s *Scorer) Coverage(ctx context.Context, article, synopsis string) (float64, error) {
	vecs, err := s.embedder.Embed(ctx, article, synopsis)
	if err != nil {
		return 0, fmt.Errorf("coverage: %w", err)
	}
	if len(vecs) != 2 {
		return 0, fmt.Errorf("coverage: expected 2 embeddings, got %d", len(vecs))
	}
	sim, err := embedding.Cosine(vecs[0], vecs[1])
	if err != nil {
		return 0, fmt.Errorf("coverage: %w", err)
	}
	return sim, nil
}
