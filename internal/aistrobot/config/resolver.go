package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/longkey1/aistrobot/internal/aistrobot/settings"
)

// expandEnvVar expands environment variable references in the given value
// Supports both $VAR and ${VAR} syntax
// If the environment variable is not set, returns empty string.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// GetBaseURL returns the base URL for the specified provider
func (c *Config) GetBaseURL(provider string) (string, error) {
	var baseURLValue string
	switch provider {
	case "openai":
		baseURLValue = c.OpenAIBaseURL
	case "gemini":
		baseURLValue = c.GeminiBaseURL
	default:
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	if baseURLValue == "" {
		return "", fmt.Errorf("%s base URL is not configured. Set it in config file (%s_base_url) or environment variable (AISTROBOT_%s_BASE_URL)", provider, provider, strings.ToUpper(provider))
	}

	return baseURLValue, nil
}

// GetSettingsPath returns the location of the settings store.
// Without an explicit settings_path, the store lives next to the config file
// in use, or in $HOME/.config/aistrobot when no config file was loaded.
func (c *Config) GetSettingsPath(v *viper.Viper) (string, error) {
	if c.SettingsPath != "" {
		return c.SettingsPath, nil
	}

	dir, err := ConfigDir(v)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settings.DefaultFileName(c.SettingsBackend)), nil
}

// ConfigDir returns the directory of the config file in use, falling back to
// $HOME/.config/aistrobot.
func ConfigDir(v *viper.Viper) (string, error) {
	if configFile := v.ConfigFileUsed(); configFile != "" {
		return absolute(filepath.Dir(configFile))
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "aistrobot"), nil
}

// ResolvePath converts a relative path to absolute path if needed.
// Relative paths are resolved against the config file directory, or the
// working directory when no config file was loaded.
func ResolvePath(v *viper.Viper, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	base := "."
	if configFile := v.ConfigFileUsed(); configFile != "" {
		base = filepath.Dir(configFile)
	}
	return absolute(filepath.Join(base, path))
}

// absolute anchors a relative path at the current working directory.
func absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return filepath.Join(cwd, path), nil
}
