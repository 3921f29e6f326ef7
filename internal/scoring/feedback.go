package scoring

import (
	"strings"

	"synopsis-scorer/internal/config"
	"synopsis-scorer/internal/models"
)

// Rule emits Message when Applies holds for a ScoreBundle.
type Rule struct {
	Name    string
	Applies func(models.ScoreBundle) bool
	Message string
}

// Rules are evaluated in order; each rule is independent of the others.
type Rules []Rule

// DefaultRules is the feedback ladder: one of three coverage messages, then
// a coherence and a clarity complaint when those scores are low.
func DefaultRules(t config.Thresholds) Rules {
	return Rules{
		{
			Name:    "coverage_low",
			Applies: func(b models.ScoreBundle) bool { return b.ContentCoverage < t.CoverageLow },
			Message: models.FeedbackCoverageLow,
		},
		{
			Name: "coverage_mid",
			Applies: func(b models.ScoreBundle) bool {
				return b.ContentCoverage >= t.CoverageLow && b.ContentCoverage < t.CoverageHigh
			},
			Message: models.FeedbackCoverageMid,
		},
		{
			Name:    "coverage_high",
			Applies: func(b models.ScoreBundle) bool { return b.ContentCoverage >= t.CoverageHigh },
			Message: models.FeedbackCoverageHigh,
		},
		{
			Name:    "coherence_low",
			Applies: func(b models.ScoreBundle) bool { return b.Coherence < t.Coherence },
			Message: models.FeedbackCoherence,
		},
		{
			Name:    "clarity_low",
			Applies: func(b models.ScoreBundle) bool { return b.Clarity < t.Clarity },
			Message: models.FeedbackClarity,
		},
	}
}

// Evaluate returns the messages of the rules that apply, at most limit of them.
func (r Rules) Evaluate(b models.ScoreBundle, limit int) []string {
	var out []string
	for _, rule := range r {
		if len(out) == limit {
			break
		}
		if rule.Applies(b) {
			out = append(out, rule.Message)
		}
	}
	return out
}

var defaultRules = DefaultRules(config.Default().Scoring.Thresholds)

const defaultMaxFeedback = 3

// GenerateFeedback renders the feedback for b with the default thresholds.
func GenerateFeedback(b models.ScoreBundle) string {
	return strings.Join(defaultRules.Evaluate(b, defaultMaxFeedback), " ")
}

// Feedback renders the feedback for b with the scorer's thresholds.
func (s *Scorer) Feedback(b models.ScoreBundle) string {
	return strings.Join(s.rules.Evaluate(b, s.cfg.MaxFeedback), " ")
}
