// Package config loads service configuration from the environment, with an
// optional .env file exported into the process first. Every knob has either a
// default or is validated where it is consumed.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// Config is the full runtime configuration of the service.
type Config struct {
	// HTTP server.
	Addr string `envconfig:"ADDR" default:":8000"`

	// Logging.
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Model provider: "openai", "anthropic" or "mock".
	ModelProvider   string `envconfig:"MODEL_PROVIDER" default:"openai"`
	ModelName       string `envconfig:"MODEL_NAME"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`

	// Product data.
	RapidAPIKey string `envconfig:"RAPIDAPI_KEY"`

	// Storage. An empty RedisAddr selects the in-process memory store; an
	// empty PostgresDSN disables accounts and stored chat history.
	RedisAddr   string `envconfig:"REDIS_ADDR"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	// Auth.
	JWTSecret       string `envconfig:"SECRET_KEY"`
	TokenTTLMinutes int    `envconfig:"ACCESS_TOKEN_EXPIRE_MINUTES" default:"30"`

	// Conversation tuning.
	MaxRounds             int  `envconfig:"MAX_ROUNDS" default:"12"`
	StrictAnalyzerRouting bool `envconfig:"STRICT_ANALYZER_ROUTING" default:"false"`
	ContextDepth          int  `envconfig:"CONTEXT_DEPTH" default:"3"`
	ToolTimeoutSeconds    int  `envconfig:"TOOL_TIMEOUT_SECONDS" default:"30"`
}

// Load reads configuration from the environment. When envFile is non-empty
// it must exist; otherwise a ./.env file is picked up when present.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := exportEnvironment(envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else if err := exportEnvironmentIfExists(".env"); err != nil {
		return nil, fmt.Errorf("load default env file: %w", err)
	}

	var conf Config
	if err := envconfig.Process("shopchat", &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

// MustLoad is Load panicking on failure, for main wiring.
func MustLoad(envFile string) *Config {
	conf, err := Load(envFile)
	if err != nil {
		panic(err)
	}
	return conf
}

func exportEnvironmentIfExists(filepath string) error {
	info, err := os.Stat(filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(filepath)
}

func exportEnvironment(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	for k, val := range v.AllSettings() {
		if err := os.Setenv(strings.ToUpper(k), fmt.Sprint(val)); err != nil {
			return err
		}
	}
	return nil
}
