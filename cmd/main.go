package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"synopsis-scorer/internal/anonymizer"
	"synopsis-scorer/internal/config"
	"synopsis-scorer/internal/embedding"
	"synopsis-scorer/internal/helper"
	"synopsis-scorer/internal/models"
	"synopsis-scorer/internal/parser"
	"synopsis-scorer/internal/scoring"
	"synopsis-scorer/internal/server"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	articlePath := flag.String("article", "", "Path to the article (.txt, .pdf, .docx, .xlsx, .md)")
	synopsisPath := flag.String("synopsis", "", "Path to the synopsis")
	asJSON := flag.Bool("json", false, "Print the evaluation as JSON")
	serve := flag.Bool("serve", false, "Serve the scoring API over HTTP")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	setupLogger(cfg.Log)
	log.Debug().Interface("embedding", map[string]string{
		"backend":  cfg.Embedding.Backend,
		"provider": cfg.Embedding.Provider,
		"base_url": cfg.Embedding.BaseURL,
		"model":    cfg.Embedding.Model,
	}).Msg("Loaded config")

	provider, err := embedding.NewProviderFromConfig(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	anon, err := newAnonymizer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing anonymizer")
	}
	service := scoring.NewService(scoring.NewScorer(provider, cfg.Scoring), anon)

	if *serve {
		runServer(cfg, provider, service)
		return
	}

	if *articlePath == "" || *synopsisPath == "" {
		log.Fatal().Msg("Please provide both the article with -article and the synopsis with -synopsis, or use -serve")
	}
	if err := scoreFiles(context.Background(), service, *articlePath, *synopsisPath, *asJSON); err != nil {
		log.Fatal().Err(err).Msg("Error scoring synopsis")
	}
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Level).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.JSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Caller().Logger()
	}
}

func newAnonymizer(cfg *config.Config) (scoring.Anonymizer, error) {
	if !cfg.Anonymizer.Enabled {
		if cfg.Embedding.Remote() {
			log.Warn().Str("backend", cfg.Embedding.Backend).Msg("Anonymizer disabled; raw text will be sent to the embedding service")
		}
		return nil, nil
	}
	a, err := anonymizer.NewFromConfig(cfg.Anonymizer)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func scoreFiles(ctx context.Context, service *scoring.Service, articlePath, synopsisPath string, asJSON bool) error {
	articleText, err := parser.DecodeFile(articlePath)
	if err != nil {
		return fmt.Errorf("failed to read article: %w", err)
	}
	synopsisText, err := parser.DecodeFile(synopsisPath)
	if err != nil {
		return fmt.Errorf("failed to read synopsis: %w", err)
	}

	eval, err := service.Evaluate(ctx,
		models.NewDocument(models.RoleArticle, articlePath, articleText),
		models.NewDocument(models.RoleSynopsis, synopsisPath, synopsisText),
	)
	if err != nil {
		return err
	}

	if asJSON {
		return helper.PrettyPrint(os.Stdout, eval)
	}
	printEvaluation(os.Stdout, eval)
	return nil
}

func printEvaluation(w io.Writer, eval *models.Evaluation) {
	p := eval.Percent
	fmt.Fprintf(w, "Overall Score: %d / 100\n\n", p.Overall)
	fmt.Fprintln(w, "Breakdown:")
	fmt.Fprintf(w, "- Content Coverage: %d / 100\n", p.ContentCoverage)
	fmt.Fprintf(w, "- Coherence: %d / 100\n", p.Coherence)
	fmt.Fprintf(w, "- Clarity: %d / 100\n\n", p.Clarity)
	fmt.Fprintln(w, "Feedback:")
	fmt.Fprintln(w, eval.Feedback)
}

func runServer(cfg *config.Config, provider *embedding.Provider, service *scoring.Service) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// load the model up front so the first request does not pay for it
	if err := provider.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("Embedding model not ready; will retry on first request")
	}

	srv := server.New(service, cfg.Server)
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Error shutting down server")
		}
	}()

	if err := srv.Listen(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
}
