package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	Postgres struct {
		Port     int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host     string `env:"POSTGRES_HOST" env-default:"localhost"`
		User     string `env:"POSTGRES_USER"`
		Pass     string `env:"POSTGRES_PASS"`
		Name     string `env:"POSTGRES_NAME"`
		SslMode  string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
		MaxConns int32  `env:"POSTGRES_MAX_CONNS" env-default:"10"`
	}
	HTTP struct {
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
		MaxBodyBytes    int64         `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576"`
		// Scrape triggers allowed per client per RateWindow, with a burst of RateBurst.
		RateRequests int           `env:"HTTP_RATE_REQUESTS" env-default:"6"`
		RateWindow   time.Duration `env:"HTTP_RATE_WINDOW" env-default:"1m"`
		RateBurst    int           `env:"HTTP_RATE_BURST" env-default:"3"`
		// TrustProxy keys clients on X-Forwarded-For / X-Real-IP. Enable only behind a proxy that sets them.
		TrustProxy bool `env:"HTTP_TRUST_PROXY" env-default:"false"`
	}
	Scraper struct {
		Schedule        string        `env:"SCRAPER_SCHEDULE"`
		ScrapeAtStartup bool          `env:"SCRAPER_AT_STARTUP" env-default:"false"`
		RunTimeout      time.Duration `env:"SCRAPER_RUN_TIMEOUT" env-default:"10m"`
		UpstreamTimeout time.Duration `env:"SCRAPER_UPSTREAM_TIMEOUT" env-default:"15s"`
		MaxRetries      uint64        `env:"SCRAPER_MAX_RETRIES" env-default:"3"`
		PostLimit       int           `env:"SCRAPER_POST_LIMIT" env-default:"20"`
		Timezone        string        `env:"SCRAPER_TIMEZONE" env-default:"UTC"`
	}
	Twitter struct {
		BaseURL     string `env:"TWITTER_BASE_URL" env-default:"https://api.twitter.com"`
		BearerToken string `env:"TWITTER_BEARER_TOKEN"`
	}
	LinkedIn struct {
		BaseURL     string `env:"LINKEDIN_BASE_URL" env-default:"https://api.linkedin.com"`
		AccessToken string `env:"LINKEDIN_ACCESS_TOKEN"`
		Version     string `env:"LINKEDIN_VERSION" env-default:"202405"`
	}
	Ghost struct {
		BaseURL    string `env:"GHOST_BASE_URL"`
		ContentKey string `env:"GHOST_CONTENT_KEY"`
	}
	Discord struct {
		BotToken string `env:"DISCORD_BOT_TOKEN"`
	}
	Instagram struct {
		User        string `env:"INSTAGRAM_USER"`
		Pass        string `env:"INSTAGRAM_PASS"`
		SessionPath string `env:"INSTAGRAM_SESSION_PATH" env-default:"./goinsta-session"`
	}
	Telegram struct {
		BotToken    string `env:"TELEGRAM_BOT_TOKEN"`
		APIEndpoint string `env:"TELEGRAM_API_ENDPOINT" env-default:"https://api.telegram.org/bot%s/%s"`
	}
}

// GetDSN returns a keyword/value DSN usable by both lib/pq and pgx.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

func New() (*Config, error) {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Failed to load .env file: %v", err)
		}

		c := &Config{}
		if err := cleanenv.ReadEnv(c); err != nil {
			help, _ := cleanenv.GetDescription(c, nil)
			cfgErr = fmt.Errorf("failed to read configuration: %w\n%s", err, help)
			return
		}
		cfg = c
	})
	return cfg, cfgErr
}
