package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/longkey1/aistrobot/internal/aistrobot"
	"github.com/longkey1/aistrobot/internal/aistrobot/settings"
)

// Config holds the configuration for the chat client
type Config struct {
	Model           string `toml:"model" mapstructure:"model"` // Format: "provider:model" (e.g., "openai:gpt-3.5-turbo-instruct")
	OpenAIBaseURL   string `toml:"openai_base_url" mapstructure:"openai_base_url"`
	GeminiBaseURL   string `toml:"gemini_base_url" mapstructure:"gemini_base_url"`
	SettingsBackend string `toml:"settings_backend" mapstructure:"settings_backend"` // "file" or "sqlite"
	SettingsPath    string `toml:"settings_path" mapstructure:"settings_path"`       // empty = next to the config file
	LogLevel        string `toml:"log_level" mapstructure:"log_level"`
}

// GetProvider extracts provider name from the model string
func (c *Config) GetProvider() (string, error) {
	provider, _, err := aistrobot.ParseModelString(c.Model)
	return provider, err
}

// GetModelName extracts model name from the model string
func (c *Config) GetModelName() (string, error) {
	_, model, err := aistrobot.ParseModelString(c.Model)
	return model, err
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig() *Config {
	return &Config{
		Model:           "openai:gpt-3.5-turbo-instruct",
		OpenAIBaseURL:   "https://api.openai.com/v1",
		GeminiBaseURL:   "https://generativelanguage.googleapis.com/",
		SettingsBackend: settings.BackendFile,
		SettingsPath:    "",
		LogLevel:        "warn",
	}
}

// SetDefaults registers the default values with viper
func SetDefaults(v *viper.Viper) {
	d := NewDefaultConfig()
	v.SetDefault("model", d.Model)
	v.SetDefault("openai_base_url", d.OpenAIBaseURL)
	v.SetDefault("gemini_base_url", d.GeminiBaseURL)
	v.SetDefault("settings_backend", d.SettingsBackend)
	v.SetDefault("settings_path", d.SettingsPath)
	v.SetDefault("log_level", d.LogLevel)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load loads configuration from v
func Load(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	// Expand $VAR references
	for _, field := range []*string{&config.Model, &config.OpenAIBaseURL, &config.GeminiBaseURL, &config.SettingsPath} {
		*field = expandEnvVar(*field)
	}

	provider, model, err := aistrobot.ParseModelString(config.Model)
	if err != nil {
		return nil, err
	}
	config.Model = aistrobot.FormatModelString(provider, model)

	if config.SettingsPath != "" {
		absPath, err := ResolvePath(v, config.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("error resolving settings path '%s': %v", config.SettingsPath, err)
		}
		config.SettingsPath = absPath
	}

	return config, nil
}
