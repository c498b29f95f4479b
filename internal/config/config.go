package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"cert-exam-gen"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres   Postgres
	Redis      Redis
	Storage    Storage
	OpenAI     OpenAI
	Generation Generation
	CORS       CORS
}

// Postgres captures connection info for the document metadata database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds the extracted-text cache configuration.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR,notEmpty"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	TextTTL  time.Duration `env:"REDIS_TEXT_TTL" envDefault:"30m"`
}

// Storage configures the on-disk upload store.
type Storage struct {
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./downloads"`
}

// OpenAI configures the generation model endpoint.
type OpenAI struct {
	APIKey      string        `env:"OPENAI_API_KEY,notEmpty"`
	Model       string        `env:"GEN_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL     string        `env:"OPENAI_BASE_URL"`
	MaxTokens   int           `env:"GEN_MAX_TOKENS" envDefault:"4096"`
	Temperature float64       `env:"GEN_TEMPERATURE" envDefault:"0.2"`
	MaxAttempts int           `env:"GEN_MAX_ATTEMPTS" envDefault:"3"`
	Timeout     time.Duration `env:"GEN_TIMEOUT" envDefault:"120s"`
}

// Generation groups pipeline defaults.
type Generation struct {
	ChunkBudget   int  `env:"GEN_CHUNK_BUDGET" envDefault:"8000"`
	BatchSize     int  `env:"GEN_BATCH_SIZE" envDefault:"10"`
	ScoringEnable bool `env:"SCORING_ENABLE" envDefault:"true"`
	ScoringSample int  `env:"SCORING_SAMPLE" envDefault:"8"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,X-Session-ID"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
