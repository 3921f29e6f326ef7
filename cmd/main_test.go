package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"synopsis-scorer/internal/config"
	"synopsis-scorer/internal/embedding"
	"synopsis-scorer/internal/models"
	"synopsis-scorer/internal/scoring"
)

func TestPrintEvaluation(t *testing.T) {
	b := models.ScoreBundle{ContentCoverage: 0.9, Coherence: 0.8, Clarity: 0.6, Overall: 0.8}
	eval := &models.Evaluation{Scores: b, Percent: b.Percent(), Feedback: models.FeedbackCoverageHigh}

	var buf bytes.Buffer
	printEvaluation(&buf, eval)
	out := buf.String()
	for _, want := range []string{
		"Overall Score: 80 / 100",
		"- Content Coverage: 90 / 100",
		"- Coherence: 80 / 100",
		"- Clarity: 60 / 100",
		models.FeedbackCoverageHigh,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestScoreFiles(t *testing.T) {
	dir := t.TempDir()
	article := filepath.Join(dir, "article.txt")
	synopsis := filepath.Join(dir, "synopsis.txt")
	if err := os.WriteFile(article, []byte("The cat sat on the mat. The dog barked."), 0o644); err != nil {
		t.Fatalf("write article: %v", err)
	}
	if err := os.WriteFile(synopsis, []byte("A cat sat on a mat."), 0o644); err != nil {
		t.Fatalf("write synopsis: %v", err)
	}

	p := embedding.NewProvider("lexical/128", func(context.Context) (embedding.Embedder, error) {
		return embedding.NewLexicalEmbedder(128), nil
	})
	svc := scoring.NewService(scoring.NewScorer(p, config.Default().Scoring), nil)

	if err := scoreFiles(context.Background(), svc, article, synopsis, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := scoreFiles(context.Background(), svc, filepath.Join(dir, "missing.txt"), synopsis, false); err == nil {
		t.Errorf("expected an error for a missing article")
	}
}

func TestNewAnonymizer(t *testing.T) {
	cfg := config.Default()
	cfg.Anonymizer.Enabled = false
	if a, err := newAnonymizer(cfg); err != nil || a != nil {
		t.Errorf("expected no anonymizer when disabled, got %v, %v", a, err)
	}
	cfg.Anonymizer.Enabled = true
	cfg.Anonymizer.KnownNames = []string{"Zoë"}
	if a, err := newAnonymizer(cfg); err != nil || a == nil {
		t.Errorf("expected an anonymizer when enabled, got %v, %v", a, err)
	}
}
