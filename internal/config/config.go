package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig         `mapstructure:"server"`
	Viewport ViewportConfig       `mapstructure:"viewport"`
	Labels   domain.LabelSettings `mapstructure:"labels"`
	Cache    CacheConfig          `mapstructure:"cache"`
	Player   PlayerConfig         `mapstructure:"player"`
	Logging  LoggingConfig        `mapstructure:"logging"`
}

// ServerConfig holds workflow server configuration
type ServerConfig struct {
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"` // basic auth, optional
	Password string `mapstructure:"password"`
}

// ViewportConfig is the pixel area media is scaled to fit.
// Zero width or height means "derive from the terminal".
type ViewportConfig struct {
	Width  int     `mapstructure:"width"`
	Height int     `mapstructure:"height"`
	Scale  float64 `mapstructure:"scale"`
}

// CacheConfig holds the listing/tag store location; empty keeps it in memory
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// PlayerConfig holds the external player used for full-size viewing
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultLabels returns the stock pick and color labels
func DefaultLabels() domain.LabelSettings {
	return domain.LabelSettings{
		Pick: []domain.LabelOption{
			{Value: "pick", Label: "Pick", Shortcut: "p", Icon: "⚑"},
			{Value: "reject", Label: "Reject", Shortcut: "x", Icon: "✕"},
		},
		Color: []domain.LabelOption{
			{Value: "red", Label: "Red", Shortcut: "1", Icon: "●"},
			{Value: "yellow", Label: "Yellow", Shortcut: "2", Icon: "●"},
			{Value: "green", Label: "Green", Shortcut: "3", Icon: "●"},
			{Value: "blue", Label: "Blue", Shortcut: "4", Icon: "●"},
			{Value: "purple", Label: "Purple", Shortcut: "5", Icon: "●"},
		},
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Viewport: ViewportConfig{
			Scale: 0.95,
		},
		Labels: DefaultLabels(),
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel", "reel.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel", "reel.log")
	}
}

// DefaultConfigPath returns the default config directory for the current OS
func DefaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reel")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "reel", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel", "cache")
	}
}

// newViper creates a viper instance reading config.yaml from dir (or the
// default locations when dir is empty) with REEL_ environment overrides
func newViper(dir string) *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	} else {
		v.AddConfigPath(DefaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides (REEL_SERVER_URL, REEL_LOGGING_LEVEL, ...)
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Scalar keys must be known to viper for env overrides to apply
	def := DefaultConfig()
	v.SetDefault("server.url", def.Server.URL)
	v.SetDefault("server.username", def.Server.Username)
	v.SetDefault("server.password", def.Server.Password)
	v.SetDefault("viewport.width", def.Viewport.Width)
	v.SetDefault("viewport.height", def.Viewport.Height)
	v.SetDefault("viewport.scale", def.Viewport.Scale)
	v.SetDefault("cache.dir", def.Cache.Dir)
	v.SetDefault("player.command", def.Player.Command)
	v.SetDefault("player.args", def.Player.Args)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)
	return v
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return LoadConfigFrom("")
}

// LoadConfigFrom loads config.yaml from dir, falling back to the default
// locations when dir is empty
func LoadConfigFrom(dir string) (*Config, error) {
	v := newViper(dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Label lists are replaced as a whole, never merged with the defaults
	def := DefaultLabels()
	if len(cfg.Labels.Pick) == 0 {
		cfg.Labels.Pick = def.Pick
	}
	if len(cfg.Labels.Color) == 0 {
		cfg.Labels.Color = def.Color
	}
	if cfg.Viewport.Scale <= 0 || cfg.Viewport.Scale > 1 {
		cfg.Viewport.Scale = DefaultConfig().Viewport.Scale
	}

	return cfg, nil
}

// SaveConfig writes cfg to config.yaml in dir (the default location when empty)
func SaveConfig(cfg *Config, dir string) error {
	if dir == "" {
		dir = DefaultConfigPath()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("server.url", cfg.Server.URL)
	v.Set("server.username", cfg.Server.Username)
	v.Set("server.password", cfg.Server.Password)

	v.Set("viewport.width", cfg.Viewport.Width)
	v.Set("viewport.height", cfg.Viewport.Height)
	v.Set("viewport.scale", cfg.Viewport.Scale)

	v.Set("labels.pick", cfg.Labels.Pick)
	v.Set("labels.color", cfg.Labels.Color)

	v.Set("cache.dir", cfg.Cache.Dir)

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if the server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}
