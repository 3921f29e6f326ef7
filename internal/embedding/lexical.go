package embedding

import (
	"context"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// LexicalEmbedder is an offline bag-of-words model: each lowercased word is
// hashed into one of dim buckets. Similarity is driven by shared vocabulary
// only, so it is a stand-in for semantic models in tests and air-gapped runs.
type LexicalEmbedder struct {
	dim int
}

func NewLexicalEmbedder(dim int) *LexicalEmbedder {
	return &LexicalEmbedder{dim: dim}
}

func (l *LexicalEmbedder) EmbedDocuments(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = l.embed(text)
	}
	return out, nil
}

func (l *LexicalEmbedder) embed(text string) []float32 {
	v := make([]float32, l.dim)
	for _, word := range tokenize(text) {
		v[xxhash.Sum64String(word)%uint64(l.dim)]++
	}
	return v
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
