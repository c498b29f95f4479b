package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Kimsunjeung/cert-exam-gen/internal/config"
	"github.com/Kimsunjeung/cert-exam-gen/internal/contextprep"
	"github.com/Kimsunjeung/cert-exam-gen/internal/db/repository"
	"github.com/Kimsunjeung/cert-exam-gen/internal/document"
	"github.com/Kimsunjeung/cert-exam-gen/internal/exam"
	"github.com/Kimsunjeung/cert-exam-gen/internal/llm"
	"github.com/Kimsunjeung/cert-exam-gen/internal/logging"
	"github.com/Kimsunjeung/cert-exam-gen/internal/quality"
	"github.com/Kimsunjeung/cert-exam-gen/internal/question"
	"github.com/Kimsunjeung/cert-exam-gen/internal/server"
	"github.com/Kimsunjeung/cert-exam-gen/internal/session"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, Postgres, Redis, the model provider, and
// the pipeline services.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	// Document ingestion boundary
	blobStore, err := document.NewFSStore(cfg.Storage.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload store: %w", err)
	}
	docRepo := repository.NewDocumentRepository(pool)
	textCache := document.NewTextCache(redisClient, cfg.Redis.TextTTL)
	docSvc := document.NewService(blobStore, document.NewExtractor(), textCache, docRepo, logger)

	// Model provider with bounded retry
	provider, err := llm.NewOpenAIProvider(llm.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("init model provider: %w", err)
	}
	retried := llm.WithRetry(provider, llm.DefaultRetryConfig())
	logger.Info().Str("model", provider.ModelID()).Msg("model provider initialized")

	// Pipeline
	preparer := contextprep.NewPreparer(cfg.Generation.ChunkBudget)
	synth := question.NewSynthesizer(retried, question.Config{
		BatchSize:   cfg.Generation.BatchSize,
		MaxRetries:  cfg.OpenAI.MaxAttempts - 1,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	}, logger)
	scorer := quality.NewScorer(retried, quality.Config{
		SampleSize: cfg.Generation.ScoringSample,
	}, logger)
	sessions := session.NewManager()

	examSvc := exam.NewService(docSvc, preparer, synth, scorer, sessions, exam.Config{
		GenerationTimeout: cfg.OpenAI.Timeout,
		ScoringEnabled:    cfg.Generation.ScoringEnable,
	}, logger)

	docHandlers := document.NewHTTPHandlers(docSvc, logger)
	examHandlers := exam.NewHTTPHandlers(examSvc, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, docHandlers, examHandlers)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis close error")
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
