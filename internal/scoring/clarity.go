package scoring

import (
	"github.com/rs/zerolog/log"

	"synopsis-scorer/internal/readability"
)

// Clarity maps the Flesch reading ease of the synopsis onto [0,1]. Text the
// formula cannot measure gets the configured neutral fallback.
func (s *Scorer) Clarity(synopsis string) float64 {
	score, err := readability.FleschReadingEase(synopsis)
	if err != nil {
		log.Debug().Err(err).Float64("fallback", s.cfg.ClarityFallback).Msg("Clarity fallback")
		return s.cfg.ClarityFallback
	}
	return clamp01(score / 100)
}
