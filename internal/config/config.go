// Package config loads application settings from cvstudio.yaml, a local
// .env file, and environment variables.
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

// LLMConfig points at the chat-completion endpoint.
type LLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// ChatConfig tunes the sidebar chat path.
type ChatConfig struct {
	BatchSize     int           `mapstructure:"batch_size"`
	MaxWait       time.Duration `mapstructure:"max_wait"`
	HistoryWindow int           `mapstructure:"history_window"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

type Config struct {
	LLM    LLMConfig    `mapstructure:"llm"`
	Chat   ChatConfig   `mapstructure:"chat"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// Load reads cvstudio.yaml (optional) plus OPENAI_* environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("cvstudio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.cvstudio")

	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("chat.batch_size", 3)
	v.SetDefault("chat.max_wait", "1500ms")
	v.SetDefault("chat.history_window", 10)
	v.SetDefault("server.port", 8080)

	v.BindEnv("llm.base_url", "OPENAI_BASE_URL")
	v.BindEnv("llm.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.model", "OPENAI_MODEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Expand ${VAR} references in the API key
	if strings.HasPrefix(cfg.LLM.APIKey, "${") && strings.HasSuffix(cfg.LLM.APIKey, "}") {
		cfg.LLM.APIKey = os.Getenv(cfg.LLM.APIKey[2 : len(cfg.LLM.APIKey)-1])
	}

	return &cfg, nil
}
