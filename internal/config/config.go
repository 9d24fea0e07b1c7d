package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"finsync"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"finsync"`
	}

	F360 struct {
		BaseURL      string        `envconfig:"F360_BASE_URL" default:"https://financas.f360.com.br"`
		Token        string        `envconfig:"F360_TOKEN"`
		TokenTTL     time.Duration `envconfig:"F360_TOKEN_TTL" default:"1h"`
		TokenMargin  time.Duration `envconfig:"F360_TOKEN_MARGIN" default:"5m"`
		PollAttempts int           `envconfig:"F360_POLL_ATTEMPTS" default:"30"`
		PollInterval time.Duration `envconfig:"F360_POLL_INTERVAL" default:"5s"`
	}

	Import struct {
		BatchSize     int           `envconfig:"IMPORT_BATCH_SIZE" default:"100"`
		UpsertRetries int           `envconfig:"IMPORT_UPSERT_RETRIES" default:"3"`
		CompanyDelay  time.Duration `envconfig:"IMPORT_COMPANY_DELAY" default:"3s"`

		// Date range for cmd/import, YYYY-MM-DD. Empty means the
		// current month up to today.
		StartDate string `envconfig:"IMPORT_START_DATE"`
		EndDate   string `envconfig:"IMPORT_END_DATE"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
		Email     string `envconfig:"AUTH_EMAIL"`
		Password  string `envconfig:"AUTH_PASSWORD"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
