package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const configFields = "configfile, model, openai_base_url, gemini_base_url, settings_backend, settings_path, log_level, api_key"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  aistrobot config                  # Show all configuration
  aistrobot config model            # Show only model
  aistrobot config settings_path    # Show where the API key is stored
  aistrobot config api_key          # Show the stored API key (masked)`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a, err := newApp()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		defer a.Close()

		apiKey := "(not set)"
		if key, ok, err := a.creds.Get(); err != nil {
			apiKey = fmt.Sprintf("(error: %v)", err)
		} else if ok {
			apiKey = maskToken(key)
		}

		config := a.cfg
		if len(args) > 0 {
			field := strings.ToLower(args[0])
			switch field {
			case "configfile":
				fmt.Println(viper.ConfigFileUsed())
			case "model":
				fmt.Println(config.Model)
			case "openai_base_url", "openaibaseurl":
				fmt.Println(config.OpenAIBaseURL)
			case "gemini_base_url", "geminibaseurl":
				fmt.Println(config.GeminiBaseURL)
			case "settings_backend", "settingsbackend":
				fmt.Println(config.SettingsBackend)
			case "settings_path", "settingspath":
				fmt.Println(a.settingsPath)
			case "log_level", "loglevel":
				fmt.Println(config.LogLevel)
			case "api_key", "apikey":
				fmt.Println(apiKey)
			default:
				fmt.Fprintf(os.Stderr, "Unknown field: %s\n", args[0])
				fmt.Fprintf(os.Stderr, "Available fields: %s\n", configFields)
				a.Close()
				os.Exit(1)
			}
			return
		}

		fmt.Printf("ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Printf("Model: %s\n", config.Model)
		fmt.Printf("OpenAIBaseURL: %s\n", config.OpenAIBaseURL)
		fmt.Printf("GeminiBaseURL: %s\n", config.GeminiBaseURL)
		fmt.Printf("SettingsBackend: %s\n", config.SettingsBackend)
		fmt.Printf("SettingsPath: %s\n", a.settingsPath)
		fmt.Printf("LogLevel: %s\n", config.LogLevel)
		fmt.Printf("APIKey: %s\n", apiKey)
	},
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
