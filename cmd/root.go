/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/longkey1/aistrobot/internal/aistrobot/config"
	"github.com/longkey1/aistrobot/internal/logger"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aistrobot",
	Short: "A single-screen terminal chat client for text completion APIs",
	Long: `aistrobot opens a chat screen in your terminal: type a message, press enter,
and the reply from the completion API appears below it.

Set your API key once with '/key' inside the screen or with 'aistrobot key set';
it is stored locally and reused on every launch.
You can configure the tool using a TOML configuration file.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/aistrobot/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// A .env file in the working directory is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	viper.SetEnvPrefix("AISTROBOT")
	viper.AutomaticEnv()

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "aistrobot")

	config.SetDefaults(viper.GetViper())

	viper.BindEnv("openai_base_url", "AISTROBOT_OPENAI_BASE_URL")
	viper.BindEnv("gemini_base_url", "AISTROBOT_GEMINI_BASE_URL")
	viper.BindEnv("settings_backend", "AISTROBOT_SETTINGS_BACKEND")
	viper.BindEnv("settings_path", "AISTROBOT_SETTINGS_PATH")
	viper.BindEnv("log_level", "AISTROBOT_LOG_LEVEL")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		}
	} else {
		// Load system-wide config first (lower priority)
		for _, path := range []string{"/etc/aistrobot", "/usr/local/etc/aistrobot"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
		}

		// Load user config (higher priority) - merge with system config
		viper.AddConfigPath(userConfigDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error merging user config file: %v\n", err)
				}
			}
		} else {
			if err := viper.ReadInConfig(); err != nil {
				if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
					fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
				}
			}
		}
	}

	level := viper.GetString("log_level")
	if verbose {
		level = "debug"
	}
	log := logger.Setup(os.Stderr, level)
	log.Debug().
		Str("config", viper.ConfigFileUsed()).
		Str("model", viper.GetString("model")).
		Str("settings_backend", viper.GetString("settings_backend")).
		Msg("configuration loaded")
}
