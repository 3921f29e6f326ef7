package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := cfg.Scoring.Weights
	if w.Coverage != 0.5 || w.Coherence != 0.25 || w.Clarity != 0.25 {
		t.Errorf("unexpected default weights: %+v", w)
	}
	th := cfg.Scoring.Thresholds
	if th.CoverageLow != 0.4 || th.CoverageHigh != 0.7 || th.Coherence != 0.5 || th.Clarity != 0.5 {
		t.Errorf("unexpected default thresholds: %+v", th)
	}
	if cfg.Scoring.ClarityFallback != 0.5 {
		t.Errorf("expected clarity fallback 0.5, got %v", cfg.Scoring.ClarityFallback)
	}
}

func TestLoadConfig_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
embedding:
  backend: lexical
  dimensions: 128
server:
  addr: ":9000"
log:
  level: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SYNOPSIS_SERVER_ADDR", ":9100")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Embedding.Backend != BackendLexical || cfg.Embedding.Dimensions != 128 {
		t.Errorf("embedding section not applied: %+v", cfg.Embedding)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("expected env override :9100, got %s", cfg.Server.Addr)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Log.Level)
	}
	// untouched sections keep their defaults
	if cfg.Scoring.MaxFeedback != 3 {
		t.Errorf("expected max feedback 3, got %d", cfg.Scoring.MaxFeedback)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"unknown backend", func(c *Config) { c.Embedding.Backend = "onnx" }, false},
		{"unknown provider", func(c *Config) { c.Embedding.Provider = "vertex" }, false},
		{"weights do not sum to one", func(c *Config) { c.Scoring.Weights.Clarity = 0.5 }, false},
		{"negative weight", func(c *Config) {
			c.Scoring.Weights = Weights{Coverage: 1.25, Coherence: -0.25, Clarity: 0}
		}, false},
		{"thresholds out of order", func(c *Config) { c.Scoring.Thresholds.CoverageLow = 0.8 }, false},
		{"fallback out of range", func(c *Config) { c.Scoring.ClarityFallback = 2 }, false},
		{"lexical without dimensions", func(c *Config) {
			c.Embedding.Backend = BackendLexical
			c.Embedding.Dimensions = 0
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestEmbeddingConfig_Remote(t *testing.T) {
	if (EmbeddingConfig{Backend: BackendLexical}).Remote() {
		t.Errorf("lexical backend should be local")
	}
	if !(EmbeddingConfig{Backend: BackendChromem}).Remote() {
		t.Errorf("chromem backend should be remote")
	}
}
