package server

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/Kimsunjeung/cert-exam-gen/internal/config"
	"github.com/Kimsunjeung/cert-exam-gen/internal/document"
	"github.com/Kimsunjeung/cert-exam-gen/internal/exam"
)

// NewHTTPServer wires all routes (health, metrics, documents, exams) for
// the API service.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, pool *pgxpool.Pool, redisClient *redis.Client, docHandlers *document.HTTPHandlers, examHandlers *exam.HTTPHandlers) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	// Readiness: verifies the metadata DB and the text cache.
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), pool, redisClient); err != nil {
			logger.Error().Err(err).Msg("dependency ping failed")
			http.Error(w, "upstream error", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ready":true}`))
	})

	mux.HandleFunc("POST /api/documents", docHandlers.Upload)
	mux.HandleFunc("GET /api/documents", docHandlers.List)

	mux.HandleFunc("POST /api/exams", examHandlers.Generate)
	mux.HandleFunc("GET /api/exams", examHandlers.List)
	mux.HandleFunc("GET /api/exams/{id}", examHandlers.GetSet)
	mux.HandleFunc("POST /api/exams/{id}/select", examHandlers.Select)
	mux.HandleFunc("DELETE /api/exams/{id}", examHandlers.Delete)
	mux.HandleFunc("GET /api/exams/{id}/export", examHandlers.Export)

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	})

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: corsMiddleware.Handler(mux),
	}
}

func pingDependencies(ctx context.Context, pool *pgxpool.Pool, redisClient *redis.Client) error {
	if err := pool.Ping(ctx); err != nil {
		return err
	}
	return redisClient.Ping(ctx).Err()
}
