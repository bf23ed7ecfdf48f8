package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	AI        AIConfig        `mapstructure:"ai"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Env          string   `mapstructure:"env"`
	APIKeys      []string `mapstructure:"api_keys"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	CheckUpdates bool     `mapstructure:"check_updates"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// TracingConfig selects the span exporter: "stdout" or "otlp" (gRPC).
type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	ServiceName string  `mapstructure:"service_name"`
	Exporter    string  `mapstructure:"exporter"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AIConfig selects and configures the generation backend. It is read once
// at startup and never mutated.
type AIConfig struct {
	Provider       string        `mapstructure:"provider"`
	MockMode       bool          `mapstructure:"-"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	OpenRouter  OpenRouterConfig  `mapstructure:"openrouter"`
	HuggingFace HuggingFaceConfig `mapstructure:"huggingface"`
	Local       LocalConfig       `mapstructure:"local"`
}

type OpenRouterConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	APIURL   string `mapstructure:"api_url"`
	SiteURL  string `mapstructure:"site_url"`
	AppTitle string `mapstructure:"app_title"`
}

type HuggingFaceConfig struct {
	APIKey string `mapstructure:"api_key"`
	APIURL string `mapstructure:"api_url"`
}

type LocalConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

const (
	DefaultOpenRouterModel = "anthropic/claude-3-haiku"
	DefaultOpenRouterURL   = "https://openrouter.ai/api/v1/chat/completions"
	DefaultHuggingFaceURL  = "https://api-inference.huggingface.co/models/microsoft/DialoGPT-medium"
	DefaultLocalURL        = "http://localhost:11434"
	DefaultLocalModel      = "llama2"
)

// envBindings maps config keys to the variable names the web client uses.
var envBindings = map[string]string{
	"ai.provider":            "VITE_AI_PROVIDER",
	"ai.mock_mode":           "VITE_ENABLE_MOCK_AI",
	"ai.openrouter.api_key":  "VITE_OPENROUTER_API_KEY",
	"ai.openrouter.model":    "VITE_OPENROUTER_MODEL",
	"ai.openrouter.api_url":  "VITE_OPENROUTER_API_URL",
	"ai.huggingface.api_key": "VITE_HUGGINGFACE_API_KEY",
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// only the literal "true" enables mock mode, matching the web client
	cfg.AI.MockMode = v.GetString("ai.mock_mode") == "true"

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.api_keys", []string{})
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.check_updates", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("database.enabled", true)
	v.SetDefault("database.path", "scribe.db")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "scribe")
	v.SetDefault("tracing.exporter", "stdout")
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.sample_rate", 1.0)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("ai.provider", "mock")
	v.SetDefault("ai.mock_mode", "false")
	v.SetDefault("ai.request_timeout", "0s")
	v.SetDefault("ai.openrouter.api_key", "")
	v.SetDefault("ai.openrouter.model", DefaultOpenRouterModel)
	v.SetDefault("ai.openrouter.api_url", DefaultOpenRouterURL)
	v.SetDefault("ai.openrouter.site_url", "http://localhost:5173")
	v.SetDefault("ai.openrouter.app_title", "AI Assignment Writer")
	v.SetDefault("ai.huggingface.api_key", "")
	v.SetDefault("ai.huggingface.api_url", DefaultHuggingFaceURL)
	v.SetDefault("ai.local.base_url", DefaultLocalURL)
	v.SetDefault("ai.local.model", DefaultLocalModel)
}
