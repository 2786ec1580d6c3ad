// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"

	SinkFile = "file"
	SinkS3   = "s3"
)

type Config struct {
	Port      int    `env:"MEALWISE_PORT,default=8080"`
	DBPath    string `env:"MEALWISE_DB_PATH,default=mealwise.db"`
	LogLevel  string `env:"MEALWISE_LOG_LEVEL,default=info"`
	LogFormat string `env:"MEALWISE_LOG_FORMAT,default=text"`
	BaseURL   string `env:"MEALWISE_BASE_URL,default=http://localhost:8080"`

	JWTSecret string        `env:"MEALWISE_JWT_SECRET"`
	TokenTTL  time.Duration `env:"MEALWISE_TOKEN_TTL,default=24h"`

	LLM    LLMConfig
	Export ExportConfig
}

type LLMConfig struct {
	Provider      string        `env:"MEALWISE_LLM_PROVIDER,default=openai"`
	Timeout       time.Duration `env:"MEALWISE_LLM_TIMEOUT,default=60s"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"MEALWISE_OPENAI_BASE_URL,default=https://api.openai.com/v1"`
	OpenAIModel   string        `env:"MEALWISE_OPENAI_MODEL,default=gpt-4"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"MEALWISE_GEMINI_MODEL,default=gemini-1.5-flash"`
	RateLimit     int           `env:"MEALWISE_MEALGEN_RATE_LIMIT,default=10"`
	RateWindow    time.Duration `env:"MEALWISE_MEALGEN_RATE_WINDOW,default=1m"`
}

type ExportConfig struct {
	Sink        string `env:"MEALWISE_EXPORT_SINK,default=file"`
	Dir         string `env:"MEALWISE_EXPORT_DIR,default=exports"`
	S3Bucket    string `env:"MEALWISE_S3_BUCKET"`
	S3Prefix    string `env:"MEALWISE_S3_PREFIX,default=shopping-lists"`
	S3Region    string `env:"MEALWISE_S3_REGION,default=us-east-1"`
	S3Endpoint  string `env:"MEALWISE_S3_ENDPOINT"`
	S3AccessKey string `env:"MEALWISE_S3_ACCESS_KEY"`
	S3SecretKey string `env:"MEALWISE_S3_SECRET_KEY"`
}

// Load decodes the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg, err := Decode()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode reads the environment without validating, for callers that apply
// overrides first or need only part of the settings.
func Decode() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}
	return &cfg, nil
}

// LLMEnabled reports whether meal generation can be served.
func (c *Config) LLMEnabled() bool {
	switch c.LLM.Provider {
	case ProviderOpenAI:
		return c.LLM.OpenAIAPIKey != ""
	case ProviderGemini:
		return c.LLM.GeminiAPIKey != ""
	}
	return false
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	if len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("MEALWISE_JWT_SECRET must be at least 32 characters"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini, ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, errors.New("llm timeout must be positive"))
	}
	if c.LLM.RateLimit <= 0 || c.LLM.RateWindow <= 0 {
		errs = append(errs, errors.New("meal generation rate limit and window must be positive"))
	}

	switch c.Export.Sink {
	case SinkFile:
		if c.Export.Dir == "" {
			errs = append(errs, errors.New("export dir is required for the file sink"))
		}
	case SinkS3:
		if c.Export.S3Bucket == "" {
			errs = append(errs, errors.New("MEALWISE_S3_BUCKET is required for the s3 sink"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown export sink %q", c.Export.Sink))
	}

	return errors.Join(errs...)
}
