package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "FLASHGEN"

// Default model identifiers per provider.
const (
	DefaultGeminiModel = "gemini-1.5-flash"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// Load configuration from .env, environment variables and optionally a
// config.yaml in the working directory. Environment variables take precedence
// over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.timeout_seconds", 120)
	v.SetDefault("session.cookie_name", "flashgen-session")
	v.SetDefault("session.idle_timeout_minutes", 120)
	v.SetDefault("upload.max_bytes", 10<<20)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys with no default must be bound explicitly for Unmarshal to see them.
	bindings := map[string][]string{
		"llm.gemini_api_key":       {EnvPrefix + "_LLM_GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"llm.openai_api_key":       {EnvPrefix + "_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"llm.openai_base_url":      {EnvPrefix + "_LLM_OPENAI_BASE_URL"},
		"llm.model_name":           {EnvPrefix + "_LLM_MODEL_NAME"},
		"llm.prompt_template_path": {EnvPrefix + "_LLM_PROMPT_TEMPLATE_PATH"},
		"session.secret":           {EnvPrefix + "_SESSION_SECRET"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.LLM.ModelName == "" {
		cfg.LLM.ModelName = DefaultGeminiModel
		if cfg.LLM.Provider == "openai" {
			cfg.LLM.ModelName = DefaultOpenAIModel
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
