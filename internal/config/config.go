package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" default:"Paisa"`
		Port     int    `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"paisa"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
		// CORSOrigins may call the mini-app routes from a browser.
		CORSOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"https://web.telegram.org"`
	}

	Auth struct {
		// APIKeyHash is the bcrypt hash of the key the SMS forwarder sends in X-API-Key.
		APIKeyHash  string        `envconfig:"API_KEY_HASH"`
		TokenSecret string        `envconfig:"TOKEN_SECRET"`
		TokenTTL    time.Duration `envconfig:"TOKEN_TTL" default:"128h"`
	}

	Telegram struct {
		BotToken       string `envconfig:"TELEGRAM_BOT_TOKEN"`
		ChatID         string `envconfig:"TELEGRAM_CHAT_ID"`
		APIBaseURL     string `envconfig:"TELEGRAM_API_BASE_URL" default:"https://api.telegram.org"`
		MiniAppBaseURL string `envconfig:"MINI_APP_BASE_URL"`
	}

	Notify struct {
		Workers        int           `envconfig:"NOTIFY_WORKERS" default:"2"`
		QueueSize      int           `envconfig:"NOTIFY_QUEUE_SIZE" default:"64"`
		MaxRetries     int           `envconfig:"NOTIFY_MAX_RETRIES" default:"3"`
		InitialBackoff time.Duration `envconfig:"NOTIFY_INITIAL_BACKOFF" default:"500ms"`
		Timeout        time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"10s"`
	}

	Unparsed struct {
		Dir             string `envconfig:"UNPARSED_LOG_DIR" default:"logs/unparsed_sms"`
		MaxFileSizeMB   int    `envconfig:"UNPARSED_MAX_FILE_SIZE_MB" default:"5"`
		RetentionDays   int    `envconfig:"UNPARSED_RETENTION_DAYS" default:"30"`
		CleanupSchedule string `envconfig:"UNPARSED_CLEANUP_SCHEDULE" default:"0 3 * * *"`
	}

	Rules struct {
		File string `envconfig:"RULES_FILE"`
	}

	Tracing struct {
		Enabled      bool   `envconfig:"TRACING_ENABLED" default:"false"`
		OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// TelegramEnabled reports whether enough is configured to deliver chat notifications.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Notify.Workers < 1 {
		return nil, fmt.Errorf("NOTIFY_WORKERS must be at least 1, got %d", cfg.Notify.Workers)
	}

	return &cfg, nil
}
