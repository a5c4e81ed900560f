package config

import (
	"context"
	"time"

	"refund-relay/internal/common/enum"
	database "refund-relay/internal/pkg/db"
	"refund-relay/internal/pkg/notifier"
	"refund-relay/internal/pkg/rabbitmq"
	"refund-relay/internal/pkg/redis"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv                   enum.EnvEnum           `env:"APP_ENV" envDefault:"development" validate:"enum"`
	AppPort                  int                    `env:"APP_PORT" envDefault:"8080" validate:"gt=0,lte=65535"`
	DispatchTimeoutSeconds   int                    `env:"DISPATCH_TIMEOUT_SECONDS" envDefault:"30" validate:"gt=0"`
	WorkerPoolSize           int                    `env:"WORKER_POOL_SIZE" envDefault:"64" validate:"gt=0"`
	SessionTTLMinutes        int                    `env:"SESSION_TTL_MINUTES" envDefault:"30" validate:"gt=0"`
	WizardRequireInstitution bool                   `env:"WIZARD_REQUIRE_INSTITUTION" envDefault:"true"`
	TelegramAPIBaseURL       string                 `env:"TELEGRAM_API_BASE_URL" envDefault:"https://api.telegram.org" validate:"url"`
	TelegramParseMode        string                 `env:"TELEGRAM_PARSE_MODE" envDefault:"Markdown" validate:"omitempty,oneof=Markdown MarkdownV2 HTML"`
	TelegramProxyURL         string                 `env:"TELEGRAM_PROXY_URL" envDefault:"" validate:"omitempty,url"`
	TelegramMaxTargets       int                    `env:"TELEGRAM_MAX_TARGETS" envDefault:"10" validate:"gt=0"`
	SettingsStore            enum.SettingsStoreEnum `env:"SETTINGS_STORE" envDefault:"memory" validate:"enum"`
	RedisHost                string                 `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort                int                    `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser                string                 `env:"REDIS_USER" envDefault:"default"`
	RedisPass                string                 `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize            int                    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RabbitEnabled            bool                   `env:"RABBIT_ENABLED" envDefault:"false"`
	RabbitHost               string                 `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort               int                    `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser               string                 `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass               string                 `env:"RABBIT_PASS" envDefault:"guest"`
	RabbitAuditQueue         string                 `env:"RABBIT_AUDIT_QUEUE" envDefault:"refund.dispatched"`
	DBHost                   string                 `env:"DB_HOST" envDefault:"localhost"`
	DBPort                   int                    `env:"DB_PORT" envDefault:"5432"`
	DBUser                   string                 `env:"DB_USER" envDefault:"postgres"`
	DBPass                   string                 `env:"DB_PASS" envDefault:""`
	DBName                   string                 `env:"DB_NAME" envDefault:"postgres"`
	DBSSLMode                string                 `env:"DB_SSL_MODE" envDefault:"disable"`
	AdminPassword            string                 `env:"ADMIN_PASSWORD" envDefault:""`
	JWTSecret                string                 `env:"JWT_SECRET" envDefault:""`
	MetricsEnabled           bool                   `env:"METRICS_ENABLED" envDefault:"true"`

	// Targets is read from TELEGRAM_BOT_TOKEN[_n] / TELEGRAM_CHAT_ID[_n].
	Targets []notifier.Target `validate:"-"`
}

func (c *Config) DispatchTimeout() time.Duration {
	return time.Duration(c.DispatchTimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// SetupServerDto contains dependencies for server setup. Db, Rds, Rb and
// Publisher are nil when the matching backend is not configured.
type SetupServerDto struct {
	Ctx       context.Context
	Env       *Config
	Db        *database.Database
	Rds       redis.IRedis
	Rb        *rabbitmq.ConnectionManager
	Publisher *rabbitmq.Publisher
	Pool      *ants.Pool
	Registry  *prometheus.Registry
}
