package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"synopsis-scorer/internal/helper"
	"synopsis-scorer/internal/models"
)

// ErrMissingInput is returned when the article or the synopsis is absent.
// An empty synopsis is present, just unfavourable.
var ErrMissingInput = errors.New("both the article and the synopsis are required")

// Anonymizer redacts personal data before text leaves the process.
type Anonymizer interface {
	Anonymize(text string) string
}

// Service runs one evaluation end to end. When an anonymizer is set, both
// documents are redacted before anything is embedded.
type Service struct {
	scorer     *Scorer
	anonymizer Anonymizer
}

func NewService(scorer *Scorer, anonymizer Anonymizer) *Service {
	return &Service{scorer: scorer, anonymizer: anonymizer}
}

func (s *Service) Evaluate(ctx context.Context, article, synopsis *models.Document) (*models.Evaluation, error) {
	if article == nil || synopsis == nil {
		return nil, ErrMissingInput
	}

	start := time.Now()
	requestID, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	logger := log.With().Str("request_id", requestID).Logger()

	articleText, synopsisText := article.Text, synopsis.Text
	if s.anonymizer != nil {
		articleText = s.anonymizer.Anonymize(articleText)
		synopsisText = s.anonymizer.Anonymize(synopsisText)
		logger.Debug().Msg("Anonymized documents")
	}

	scores, err := s.scorer.AggregateScores(ctx, articleText, synopsisText)
	if err != nil {
		logger.Error().Err(err).Msg("Scoring failed")
		return nil, fmt.Errorf("failed to score synopsis: %w", err)
	}

	eval := &models.Evaluation{
		RequestID: requestID,
		Scores:    scores,
		Percent:   scores.Percent(),
		Feedback:  s.scorer.Feedback(scores),
		Duration:  time.Since(start),
	}
	logger.Info().
		Int("overall", eval.Percent.Overall).
		Int("article_chars", len(article.Text)).
		Int("synopsis_chars", len(synopsis.Text)).
		Dur("took", eval.Duration).
		Msg("Evaluated synopsis")
	return eval, nil
}
