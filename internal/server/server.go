// Package server exposes synopsis scoring over HTTP for upload forms.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"synopsis-scorer/internal/config"
	"synopsis-scorer/internal/embedding"
	"synopsis-scorer/internal/models"
	"synopsis-scorer/internal/parser"
	"synopsis-scorer/internal/scoring"
)

// Evaluator scores one synopsis against its article.
type Evaluator interface {
	Evaluate(ctx context.Context, article, synopsis *models.Document) (*models.Evaluation, error)
}

type Server struct {
	app  *fiber.App
	eval Evaluator
	cfg  config.ServerConfig
}

func New(eval Evaluator, cfg config.ServerConfig) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			BodyLimit:             cfg.MaxUploadBytes,
			DisableStartupMessage: true,
		}),
		eval: eval,
		cfg:  cfg,
	}
	s.app.Get("/healthz", s.health)
	s.app.Post("/api/v1/score", s.score)
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen() error {
	log.Info().Str("addr", s.cfg.Addr).Msg("Listening")
	return s.app.Listen(s.cfg.Addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// score accepts a multipart form with article and synopsis files, or
// article_text and synopsis_text fields.
func (s *Server) score(c *fiber.Ctx) error {
	article, err := readDocument(c, models.RoleArticle)
	if err != nil {
		return writeError(c, err)
	}
	synopsis, err := readDocument(c, models.RoleSynopsis)
	if err != nil {
		return writeError(c, err)
	}

	eval, err := s.eval.Evaluate(c.UserContext(), article, synopsis)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(eval)
}

// readDocument returns nil without error when the form has neither a file
// nor a text field for role.
func readDocument(c *fiber.Ctx, role models.Role) (*models.Document, error) {
	field := string(role)
	if fh, err := c.FormFile(field); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s upload: %w", field, err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s upload: %w", field, err)
		}
		text, err := parser.Decode(fh.Filename, data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", field, err)
		}
		return models.NewDocument(role, fh.Filename, text), nil
	}
	if text := c.FormValue(field + "_text"); text != "" {
		return models.NewDocument(role, "", text), nil
	}
	return nil, nil
}

func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, scoring.ErrMissingInput), errors.Is(err, parser.ErrUnsupportedFormat):
		status = fiber.StatusBadRequest
	case errors.Is(err, embedding.ErrModelUnavailable):
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Msg("Request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
