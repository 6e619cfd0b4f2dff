// Package config manages application configuration from various sources.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/marcozac/go-jsonc"
	"github.com/spf13/viper"
)

// Data defines storage configuration.
type Data struct {
	Directory string `json:"directory,omitempty"`
}

// TUIConfig defines the configuration for the Terminal User Interface.
type TUIConfig struct {
	Theme       string            `json:"theme,omitempty"`
	CustomTheme map[string]string `json:"customTheme,omitempty"`
}

// ServerConfig defines the configuration for the HTTP preview server.
type ServerConfig struct {
	Port int `json:"port,omitempty"`
}

// AssistConfig defines the configuration for the continue-writing assist.
type AssistConfig struct {
	Provider string `json:"provider,omitempty"` // openai, azure, anthropic, gemini
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"baseURL,omitempty"` // Azure endpoint when provider is azure
	APIKey   string `json:"apiKey,omitempty"`  // falls back to the provider's env var
}

// BackupConfig defines the configuration for blob-store backups.
type BackupConfig struct {
	Destination string `json:"destination,omitempty"` // gocloud blob URL, e.g. file:///path
}

// Config is the main configuration structure for the application.
type Config struct {
	Data       Data         `json:"data"`
	WorkingDir string       `json:"wd,omitempty"`
	Debug      bool         `json:"debug,omitempty"`
	TUI        TUIConfig    `json:"tui"`
	Server     ServerConfig `json:"server"`
	Assist     AssistConfig `json:"assist"`
	Backup     BackupConfig `json:"backup"`
}

const (
	defaultDataDirectory = ".notedown"
	defaultLogLevel      = "info"
	appName              = "notedown"
)

// Global configuration instance
var cfg *Config

// Load initializes the configuration from environment variables and config
// files. If debug is true, debug mode is enabled and log level is set to
// debug. It returns an error if configuration loading fails.
func Load(workingDir string, debug bool, lvl *slog.LevelVar) (*Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	cfg = &Config{
		WorkingDir: workingDir,
	}

	configureViper()
	setDefaults(debug)

	// Read global config
	if err := readConfig(viper.ReadInConfig()); err != nil {
		return cfg, err
	}

	// Load and merge the per-directory notedown.jsonc override
	mergeLocalConfig(workingDir)

	if err := viper.Unmarshal(cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	defaultLevel := slog.LevelInfo
	if cfg.Debug {
		defaultLevel = slog.LevelDebug
	}
	if lvl != nil {
		lvl.Set(defaultLevel)
	}
	slog.SetLogLoggerLevel(defaultLevel)

	return cfg, nil
}

// configureViper sets up viper's configuration paths and environment variables.
func configureViper() {
	viper.SetConfigName(fmt.Sprintf(".%s", appName))
	viper.SetConfigType("json")
	viper.AddConfigPath("$HOME")
	viper.AddConfigPath(fmt.Sprintf("$XDG_CONFIG_HOME/%s", appName))
	viper.AddConfigPath(fmt.Sprintf("$HOME/.config/%s", appName))
	viper.SetEnvPrefix(strings.ToUpper(appName))
	viper.AutomaticEnv()
}

// setDefaults configures default values for configuration options.
func setDefaults(debug bool) {
	viper.SetDefault("data.directory", defaultDataDirectory)
	viper.SetDefault("tui.theme", "notedown")
	viper.SetDefault("server.port", 0)
	viper.SetDefault("assist.provider", "openai")

	if debug {
		viper.SetDefault("debug", true)
		viper.Set("log.level", "debug")
	} else {
		viper.SetDefault("debug", false)
		viper.SetDefault("log.level", defaultLogLevel)
	}
}

// readConfig handles the result of reading a configuration file.
func readConfig(err error) error {
	if err == nil {
		return nil
	}

	// It's okay if the config file doesn't exist
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}

	return fmt.Errorf("failed to read config: %w", err)
}

// mergeLocalConfig loads and merges a notedown.jsonc override from the
// working directory. JSONC is accepted so the file can carry comments.
func mergeLocalConfig(workingDir string) {
	localPath := filepath.Join(workingDir, fmt.Sprintf("%s.jsonc", appName))
	data, err := os.ReadFile(localPath)
	if err != nil {
		return
	}

	var overrides map[string]any
	if err := jsonc.Unmarshal(data, &overrides); err != nil {
		slog.Warn("ignoring invalid local config", "path", localPath, "error", err)
		return
	}
	viper.MergeConfigMap(overrides)
}

// Get returns the current configuration.
// It's safe to call this function multiple times.
func Get() *Config {
	return cfg
}

// WorkingDirectory returns the current working directory from the configuration.
func WorkingDirectory() string {
	if cfg == nil {
		panic("config not loaded")
	}
	return cfg.WorkingDir
}

func updateCfgFile(updateCfg func(config *Config)) error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}

	configFile := viper.ConfigFileUsed()
	var configData []byte
	if configFile == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		configFile = filepath.Join(homeDir, fmt.Sprintf(".%s.json", appName))
		slog.Info("config file not found, creating new one", "path", configFile)
		configData = []byte(`{}`)
	} else {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		configData = data
	}

	var userCfg *Config
	if err := json.Unmarshal(configData, &userCfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	updateCfg(userCfg)

	updatedData, err := json.MarshalIndent(userCfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, updatedData, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// UpdateTheme updates the theme in the configuration and writes it to the
// config file.
func UpdateTheme(themeName string) error {
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}

	cfg.TUI.Theme = themeName

	return updateCfgFile(func(config *Config) {
		config.TUI.Theme = themeName
	})
}
