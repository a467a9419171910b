package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StoreConfig holds persistence settings.
type StoreConfig struct {
	// Path is the SQLite database file.
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// File is where log lines go. The terminal belongs to the UI, so
	// logging never targets stdout.
	File string `mapstructure:"file" yaml:"file"`
}

// CardConfig holds todo card behaviour settings.
type CardConfig struct {
	// ConfirmDelete asks before deleting a todo. When false, deletes are
	// issued immediately.
	ConfirmDelete bool `mapstructure:"confirm_delete" yaml:"confirm_delete"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Width caps the card width in columns. Zero means use the terminal width.
	Width int `mapstructure:"width" yaml:"width"`

	// RefreshSeconds is how often the list polls the store for changes
	// and date rollover.
	RefreshSeconds int `mapstructure:"refresh_seconds" yaml:"refresh_seconds"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Card    CardConfig    `mapstructure:"card" yaml:"card"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todocard/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todocard", "config.yaml")
}

// defaultStateDir is where the database and log file live by default.
func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", "todocard")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := defaultStateDir()
	return &AppConfig{
		Store: StoreConfig{
			Path: filepath.Join(dir, "todos.db"),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "todocard.log"),
		},
		Card: CardConfig{
			ConfirmDelete: true,
		},
		Display: DisplayConfig{
			Width:          72,
			RefreshSeconds: 60,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("card.confirm_delete", def.Card.ConfirmDelete)
	v.SetDefault("display.width", def.Display.Width)
	v.SetDefault("display.refresh_seconds", def.Display.RefreshSeconds)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return def, nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("store.path", cfg.Store.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("card.confirm_delete", cfg.Card.ConfirmDelete)
	v.Set("display.width", cfg.Display.Width)
	v.Set("display.refresh_seconds", cfg.Display.RefreshSeconds)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
