package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  validate:"required"`
	LLM     LLMConfig     `mapstructure:"llm"     validate:"required"`
	Session SessionConfig `mapstructure:"session" validate:"required"`
	Upload  UploadConfig  `mapstructure:"upload"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// LLMConfig contains all LLM integration related settings.
//
// API keys are optional: without the key for the selected provider the server
// still starts, but generation is disabled.
type LLMConfig struct {
	Provider           string `mapstructure:"provider"             validate:"required,oneof=gemini openai"`
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey       string `mapstructure:"openai_api_key"`
	OpenAIBaseURL      string `mapstructure:"openai_base_url"      validate:"omitempty,url"`
	ModelName          string `mapstructure:"model_name"           validate:"required"`
	PromptTemplatePath string `mapstructure:"prompt_template_path" validate:"omitempty,file"`
	TimeoutSeconds     int    `mapstructure:"timeout_seconds"      validate:"gt=0"`
}

// APIKey returns the key for the configured provider.
func (c LLMConfig) APIKey() string {
	if c.Provider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// SessionConfig controls the session cookie and in-memory session lifetime.
type SessionConfig struct {
	// Secret signs the session cookie. When empty a random key is generated at
	// startup, which invalidates sessions on restart.
	Secret             string `mapstructure:"secret"               validate:"omitempty,min=32"`
	CookieName         string `mapstructure:"cookie_name"          validate:"required"`
	IdleTimeoutMinutes int    `mapstructure:"idle_timeout_minutes" validate:"gt=0"`
}

// UploadConfig limits uploaded files.
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gt=0"`
}
