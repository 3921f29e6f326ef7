package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// ErrModelUnavailable is returned when the embedding model cannot be loaded.
// Scores are meaningless without it, so callers should fail the request.
var ErrModelUnavailable = errors.New("embedding model unavailable")

// Embedder maps texts to raw embedding vectors, one per input.
// *embeddings.EmbedderImpl from langchaingo satisfies it.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Vector is an L2-normalised embedding tagged with the model that produced it.
type Vector struct {
	Model  string
	Values []float32
}

func (v Vector) Dim() int {
	return len(v.Values)
}

// Normalize returns a unit-length copy of values. The zero vector is
// returned unchanged.
func Normalize(values []float32) []float32 {
	var sum float64
	for _, x := range values {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(values))
	if sum == 0 {
		copy(out, values)
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range values {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

// Cosine returns the cosine similarity of two normalised vectors, which is
// their dot product. Vectors from different models are not comparable.
func Cosine(a, b Vector) (float64, error) {
	if a.Model != b.Model {
		return 0, fmt.Errorf("embedding: cannot compare vectors of %q and %q", a.Model, b.Model)
	}
	if len(a.Values) != len(b.Values) {
		return 0, fmt.Errorf("embedding: cosine similarity dimension mismatch: %d vs %d", len(a.Values), len(b.Values))
	}
	var dot float64
	for i := range a.Values {
		dot += float64(a.Values[i]) * float64(b.Values[i])
	}
	return dot, nil
}
