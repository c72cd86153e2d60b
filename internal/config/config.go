package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "FULFILLMENT_"

type Config struct {
	Primary   Primary         `koanf:"primary"`
	Connect   ConnectConfig   `koanf:"connect"`
	Retry     RetryConfig     `koanf:"retry"`
	Logger    LoggerConfig    `koanf:"logger"`
	Worker    WorkerConfig    `koanf:"worker"`
	Processor ProcessorConfig `koanf:"processor"`
	Metrics   MetricsConfig   `koanf:"metrics"`

	// Database is nil unless FULFILLMENT_DATABASE__* variables are set; the
	// dispatch journal is disabled without it.
	Database *DatabaseConfig `koanf:"database"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ConnectConfig describes the remote platform. Products is the optional
// allow-list; an empty list means every product is processed.
type ConnectConfig struct {
	APIEndpoint string        `koanf:"api_endpoint" validate:"required,url"`
	APIKey      string        `koanf:"api_key" validate:"required"`
	Products    []string      `koanf:"products" validate:"omitempty,dive,required"`
	Timeout     time.Duration `koanf:"timeout" validate:"required"`
}

type RetryConfig struct {
	BaseDelay  time.Duration `koanf:"base_delay"`
	MaxRetries int           `koanf:"max_retries" validate:"gte=0"`
}

type WorkerConfig struct {
	Interval    time.Duration `koanf:"interval" validate:"required"`
	StopOnError bool          `koanf:"stop_on_error"`
}

type ProcessorConfig struct {
	RequestTemplateID  string   `koanf:"request_template_id"`
	TierTemplateID     string   `koanf:"tier_template_id"`
	ActivationTile     string   `koanf:"activation_tile"`
	RenderTiles        bool     `koanf:"render_tiles"`
	RequiredParams     []string `koanf:"required_params"`
	RequiredTierParams []string `koanf:"required_tier_params"`
}

type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

type LoggerConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=text json"`
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	mainConfig.normalize()

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// normalize trims the entries of lists split from comma-separated variables.
func (c *Config) normalize() {
	c.Connect.Products = trimAll(c.Connect.Products)
	c.Processor.RequiredParams = trimAll(c.Processor.RequiredParams)
	c.Processor.RequiredTierParams = trimAll(c.Processor.RequiredTierParams)
}

func trimAll(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
