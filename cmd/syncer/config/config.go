package config

import (
	"fmt"
	"time"

	"github.com/MichalMitros/pod-sync/internal/platform/models"
	"github.com/MichalMitros/pod-sync/internal/provider/registry"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPAddr          string        `env:"HTTP_ADDR" envDefault:":8080"`
	HTTPTimeout       time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	APIRateLimit      float64       `env:"API_RATE_LIMIT" envDefault:"50"`
	APIRateLimitBurst int           `env:"API_RATE_LIMIT_BURST" envDefault:"100"`

	Workers       int           `env:"WORKERS" envDefault:"4"`
	PageSize      int           `env:"PAGE_SIZE" envDefault:"50"`
	BatchSize     int           `env:"BATCH_SIZE" envDefault:"500"`
	CheckpointTTL time.Duration `env:"CHECKPOINT_TTL" envDefault:"1h"`
	RunTimeout    time.Duration `env:"RUN_TIMEOUT" envDefault:"2h"`
	SyncSchedule  string        `env:"SYNC_SCHEDULE" envDefault:"@every 6h"`

	RabbitMQ RabbitMQ
	Limits   Limits
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL        string `env:"RABBITMQ_URL,required"`
	Exchange   string `env:"RABBITMQ_EXCHANGE" envDefault:"pod-sync-ex"`
	Queue      string `env:"RABBITMQ_QUEUE" envDefault:"pod-sync.commands"`
	RoutingKey string `env:"RABBITMQ_ROUTING_KEY" envDefault:"pod-sync.commands"`
	Prefetch   int    `env:"RABBITMQ_PREFETCH" envDefault:"10"`
}

// Limits holds requests rate limits of providers' APIs.
type Limits struct {
	Printify Limit `envPrefix:"PRINTIFY_"`
	Printful Limit `envPrefix:"PRINTFUL_"`
	Gooten   Limit `envPrefix:"GOOTEN_"`
	Gelato   Limit `envPrefix:"GELATO_"`
}

// Limit is requests rate limit of single provider. Zero RPS disables limiting.
type Limit struct {
	RPS   float64 `env:"RPS" envDefault:"5"`
	Burst int     `env:"BURST" envDefault:"5"`
}

// Load reads optional .env file and parses environment variables.
func Load() (Config, error) {
	// .env is optional, variables set in environment take precedence
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("can't parse env variables: %w", err)
	}

	return cfg, nil
}

// ProviderLimits returns limits keyed by provider.
func (l Limits) ProviderLimits() map[models.ProviderType]registry.Limit {
	return map[models.ProviderType]registry.Limit{
		models.ProviderPrintify: registry.Limit(l.Printify),
		models.ProviderPrintful: registry.Limit(l.Printful),
		models.ProviderGooten:   registry.Limit(l.Gooten),
		models.ProviderGelato:   registry.Limit(l.Gelato),
	}
}
