package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// EnvPrefix prefixes environment overrides, e.g. ARENA_SERVER_PORT
const EnvPrefix = "ARENA"

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server" json:"server"`

	// Game configuration
	Game GameConfig `mapstructure:"game" json:"game"`

	// Log configuration
	Log LogConfig `mapstructure:"log" json:"log"`
}

// ServerConfig holds server specific configuration
type ServerConfig struct {
	// Server port
	Port string `mapstructure:"port" json:"port"`

	// Base URL used to build share links
	PublicURL string `mapstructure:"public_url" json:"public_url"`
}

// GameConfig holds game specific configuration
type GameConfig struct {
	// HP and max HP given to participants that do not set one
	DefaultHP int `mapstructure:"default_hp" json:"default_hp"`

	// Random seed; 0 seeds from the clock
	Seed int64 `mapstructure:"seed" json:"seed"`

	// Time between autoplay steps
	AutoplayInterval time.Duration `mapstructure:"autoplay_interval" json:"autoplay_interval"`

	// Steps after which autoplay and run-to-completion give up
	MaxSteps int `mapstructure:"max_steps" json:"max_steps"`

	// Directory relative data files are resolved against
	DataDir string `mapstructure:"data_dir" json:"data_dir"`

	// Optional item catalog replacing the built-in one
	CatalogPath string `mapstructure:"catalog_path" json:"catalog_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// debug, info, warn, error
	Level string `mapstructure:"level" json:"level"`

	// json or console
	Format string `mapstructure:"format" json:"format"`

	// stdout, file or both
	Output string `mapstructure:"output" json:"output"`

	File LogFileConfig `mapstructure:"file" json:"file"`
}

// LogFileConfig holds rotating log file settings
type LogFileConfig struct {
	Path       string `mapstructure:"path" json:"path"`
	Filename   string `mapstructure:"filename" json:"filename"`
	MaxSize    int    `mapstructure:"max_size" json:"max_size"`
	MaxAge     int    `mapstructure:"max_age" json:"max_age"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	Compress   bool   `mapstructure:"compress" json:"compress"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:      "8080",
			PublicURL: "http://localhost:8080",
		},
		Game: GameConfig{
			DefaultHP:        100,
			Seed:             0,
			AutoplayInterval: 2 * time.Second,
			MaxSteps:         500,
			DataDir:          "./assets/data",
			CatalogPath:      "",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
			File: LogFileConfig{
				Path:       "./logs",
				Filename:   "arena.log",
				MaxSize:    100,
				MaxAge:     30,
				MaxBackups: 7,
				Compress:   true,
			},
		},
	}
}

// LoadConfig loads configuration from a file. A missing file is created with the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return config, err
		}
		return config, nil
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return config, fmt.Errorf("failed to read config: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a file; the format follows the file extension
func SaveConfig(config Config, path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType(configType(path))
	setDefaults(v, config)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Watch reloads the file on change and hands the new configuration to callback.
// A reload that fails to decode is logged and the callback is skipped.
func Watch(path string, logger *zap.Logger, callback func(Config)) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		config := DefaultConfig()
		if err := v.Unmarshal(&config); err != nil {
			logger.Error("Failed to reload config",
				zap.String("path", e.Name),
				zap.Error(err))
			return
		}
		if callback != nil {
			callback(config)
		}
	})
	v.WatchConfig()
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(configType(path))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultConfig())
	return v
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("server.port", c.Server.Port)
	v.SetDefault("server.public_url", c.Server.PublicURL)

	v.SetDefault("game.default_hp", c.Game.DefaultHP)
	v.SetDefault("game.seed", c.Game.Seed)
	v.SetDefault("game.autoplay_interval", c.Game.AutoplayInterval.String())
	v.SetDefault("game.max_steps", c.Game.MaxSteps)
	v.SetDefault("game.data_dir", c.Game.DataDir)
	v.SetDefault("game.catalog_path", c.Game.CatalogPath)

	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.format", c.Log.Format)
	v.SetDefault("log.output", c.Log.Output)
	v.SetDefault("log.file.path", c.Log.File.Path)
	v.SetDefault("log.file.filename", c.Log.File.Filename)
	v.SetDefault("log.file.max_size", c.Log.File.MaxSize)
	v.SetDefault("log.file.max_age", c.Log.File.MaxAge)
	v.SetDefault("log.file.max_backups", c.Log.File.MaxBackups)
	v.SetDefault("log.file.compress", c.Log.File.Compress)
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
