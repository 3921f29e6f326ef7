package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Anonymizer AnonymizerConfig `yaml:"anonymizer"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// EmbeddingConfig selects the sentence embedding model.
// Backend is one of langchaingo, chromem or lexical; Provider is ollama or openai
// for the two network backends.
type EmbeddingConfig struct {
	Backend    string `yaml:"backend"`
	Provider   string `yaml:"provider"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Key        string `yaml:"key"`
	Dimensions int    `yaml:"dimensions"`
}

// Remote reports whether text is sent outside the process to be embedded.
func (e EmbeddingConfig) Remote() bool {
	return e.Backend != BackendLexical
}

type Weights struct {
	Coverage  float64 `yaml:"coverage"`
	Coherence float64 `yaml:"coherence"`
	Clarity   float64 `yaml:"clarity"`
}

type Thresholds struct {
	CoverageLow  float64 `yaml:"coverage_low"`
	CoverageHigh float64 `yaml:"coverage_high"`
	Coherence    float64 `yaml:"coherence"`
	Clarity      float64 `yaml:"clarity"`
}

type ScoringConfig struct {
	Weights         Weights    `yaml:"weights"`
	Thresholds      Thresholds `yaml:"thresholds"`
	ClarityFallback float64    `yaml:"clarity_fallback"`
	MaxFeedback     int        `yaml:"max_feedback"`
}

type AnonymizerConfig struct {
	Enabled         bool   `yaml:"enabled"`
	DatePlaceholder string `yaml:"date_placeholder"`
	// NameFormat is a fmt verb string taking the name's ordinal, e.g. <NAME_%d>.
	NameFormat string `yaml:"name_format"`
	// KnownNames are always treated as person names, on top of the ones the
	// entity recogniser finds.
	KnownNames []string `yaml:"known_names"`
}

type ServerConfig struct {
	Addr           string `yaml:"addr"`
	MaxUploadBytes int    `yaml:"max_upload_bytes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

const (
	BackendLangchain = "langchaingo"
	BackendChromem   = "chromem"
	BackendLexical   = "lexical"

	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

const (
	defaultOllamaURL      = "http://localhost:11434"
	defaultEmbeddingModel = "all-minilm"
	defaultDimensions     = 512
	defaultAddr           = ":8080"
	defaultMaxUpload      = 10 << 20
)

// Default returns the configuration used when no file is present. The
// weights and thresholds are the calibrated values of the scorer and should
// only be changed together.
func Default() *Config {
	return &Config{
		Embedding: EmbeddingConfig{
			Backend:    BackendLangchain,
			Provider:   ProviderOllama,
			BaseURL:    defaultOllamaURL,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultDimensions,
		},
		Scoring: ScoringConfig{
			Weights: Weights{Coverage: 0.5, Coherence: 0.25, Clarity: 0.25},
			Thresholds: Thresholds{
				CoverageLow:  0.4,
				CoverageHigh: 0.7,
				Coherence:    0.5,
				Clarity:      0.5,
			},
			ClarityFallback: 0.5,
			MaxFeedback:     3,
		},
		Anonymizer: AnonymizerConfig{
			Enabled:         true,
			DatePlaceholder: "<DATE>",
			NameFormat:      "<NAME_%d>",
		},
		Server: ServerConfig{
			Addr:           defaultAddr,
			MaxUploadBytes: defaultMaxUpload,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads the yaml file at path over the defaults. A missing file is
// not an error. Environment variables (optionally from a .env file) win over
// both.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}

	// .env is optional
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	overrides := map[string]*string{
		"SYNOPSIS_EMBED_BACKEND":  &cfg.Embedding.Backend,
		"SYNOPSIS_EMBED_PROVIDER": &cfg.Embedding.Provider,
		"SYNOPSIS_EMBED_BASE_URL": &cfg.Embedding.BaseURL,
		"SYNOPSIS_EMBED_MODEL":    &cfg.Embedding.Model,
		"SYNOPSIS_EMBED_KEY":      &cfg.Embedding.Key,
		"SYNOPSIS_SERVER_ADDR":    &cfg.Server.Addr,
		"SYNOPSIS_LOG_LEVEL":      &cfg.Log.Level,
	}
	for name, field := range overrides {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*field = v
		}
	}
}

func (c *Config) Validate() error {
	switch c.Embedding.Backend {
	case BackendLangchain, BackendChromem:
		if c.Embedding.Provider != ProviderOllama && c.Embedding.Provider != ProviderOpenAI {
			return fmt.Errorf("unsupported embedding provider: %q", c.Embedding.Provider)
		}
	case BackendLexical:
		if c.Embedding.Dimensions <= 0 {
			return fmt.Errorf("lexical embedding needs positive dimensions, got %d", c.Embedding.Dimensions)
		}
	default:
		return fmt.Errorf("unsupported embedding backend: %q", c.Embedding.Backend)
	}

	w := c.Scoring.Weights
	if w.Coverage < 0 || w.Coherence < 0 || w.Clarity < 0 {
		return fmt.Errorf("scoring weights must be non-negative: %+v", w)
	}
	if sum := w.Coverage + w.Coherence + w.Clarity; math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("scoring weights must sum to 1, got %v", sum)
	}

	t := c.Scoring.Thresholds
	if t.CoverageLow > t.CoverageHigh {
		return fmt.Errorf("coverage_low (%v) is above coverage_high (%v)", t.CoverageLow, t.CoverageHigh)
	}
	if c.Scoring.ClarityFallback < 0 || c.Scoring.ClarityFallback > 1 {
		return fmt.Errorf("clarity_fallback must be within [0,1], got %v", c.Scoring.ClarityFallback)
	}
	if c.Scoring.MaxFeedback <= 0 {
		return fmt.Errorf("max_feedback must be positive, got %d", c.Scoring.MaxFeedback)
	}
	return nil
}
