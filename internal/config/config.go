package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration.
type Config struct {
	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Mirror surface. StartupCaption shows until the first toggle,
	// IdleCaption whenever capturing is stopped after that.
	StartupCaption string `mapstructure:"startup_caption"`
	IdleCaption    string `mapstructure:"idle_caption"`

	// Icons
	BadgeText string `mapstructure:"badge_text"`
	IconFile  string `mapstructure:"icon_file"`

	// Tray
	TrayTooltip string `mapstructure:"tray_tooltip"`

	// Hotkey
	HotkeyEnabled bool `mapstructure:"hotkey_enabled"`

	// Consecutive capture failures before the cycle stops itself (0 = never).
	CaptureFailureLimit int `mapstructure:"capture_failure_limit"`

	// How often the display topology is re-enumerated.
	TopologyPollInterval time.Duration `mapstructure:"topology_poll_interval"`
}

// DefaultConfig returns configuration with the stock defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "console",
		StartupCaption:       "Sylnode - Presser Ctrl-/ pour activer la recopie d'écran",
		IdleCaption:          "Sylnode - écran gelé",
		TrayTooltip:          "Sylnode",
		HotkeyEnabled:        true,
		CaptureFailureLimit:  200,
		TopologyPollInterval: 2 * time.Second,
	}
}

// Loader reads configuration from file, environment and bound flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader. configFile may be empty, in which case
// sylnode.yaml is looked up in the user config dir and the working dir.
func NewLoader(configFile string) *Loader {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)
	v.SetDefault("startup_caption", def.StartupCaption)
	v.SetDefault("idle_caption", def.IdleCaption)
	v.SetDefault("badge_text", def.BadgeText)
	v.SetDefault("icon_file", def.IconFile)
	v.SetDefault("tray_tooltip", def.TrayTooltip)
	v.SetDefault("hotkey_enabled", def.HotkeyEnabled)
	v.SetDefault("capture_failure_limit", def.CaptureFailureLimit)
	v.SetDefault("topology_poll_interval", def.TopologyPollInterval)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("sylnode")
		v.SetConfigType("yaml")
		if dir := configDir(); dir != "" {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SYLNODE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// BindFlag binds a command-line flag to a config key.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("bind %s: nil flag", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the config file (a missing file is fine) and returns the
// resulting configuration.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}
	return l.decode()
}

// Watch re-reads the config file whenever it changes on disk and passes the
// new configuration to fn. fn is called on the watcher goroutine.
func (l *Loader) Watch(fn func(*Config, error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		fn(l.decode())
	})
	l.v.WatchConfig()
}

// ConfigFileUsed returns the path of the config file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) decode() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.CaptureFailureLimit < 0 {
		return fmt.Errorf("capture_failure_limit must be >= 0, got %d", c.CaptureFailureLimit)
	}
	if c.TopologyPollInterval <= 0 {
		return fmt.Errorf("topology_poll_interval must be positive, got %s", c.TopologyPollInterval)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", c.LogFormat)
	}
	return nil
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "Sylnode")
}
