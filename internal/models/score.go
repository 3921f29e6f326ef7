package models

import (
	"math"
	"time"
)

// ScoreBundle holds the three axis scores and their weighted combination,
// all within [0,1].
type ScoreBundle struct {
	ContentCoverage float64 `json:"content_coverage"`
	Coherence       float64 `json:"coherence"`
	Clarity         float64 `json:"clarity"`
	Overall         float64 `json:"overall"`
}

// ScorePercent is the 0-100 display view of a ScoreBundle.
type ScorePercent struct {
	ContentCoverage int `json:"content_coverage"`
	Coherence       int `json:"coherence"`
	Clarity         int `json:"clarity"`
	Overall         int `json:"overall"`
}

func (b ScoreBundle) Percent() ScorePercent {
	return ScorePercent{
		ContentCoverage: toPercent(b.ContentCoverage),
		Coherence:       toPercent(b.Coherence),
		Clarity:         toPercent(b.Clarity),
		Overall:         toPercent(b.Overall),
	}
}

func toPercent(v float64) int {
	return int(math.Round(v * 100))
}

// Evaluation is the full result of scoring one synopsis.
type Evaluation struct {
	RequestID string        `json:"request_id"`
	Scores    ScoreBundle   `json:"scores"`
	Percent   ScorePercent  `json:"percent"`
	Feedback  string        `json:"feedback"`
	Duration  time.Duration `json:"duration_ns"`
}
