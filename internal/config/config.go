package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "hush"

type Config struct {
	Icons string `koanf:"icons"` // "nerd", "unicode", or "none"

	// Remote sound storage and local cache
	Storage StorageConfig `koanf:"storage"`

	// Speaker settings
	Audio AudioConfig `koanf:"audio"`

	// Sleep timer settings
	Timer TimerConfig `koanf:"timer"`

	// Desktop notifications for timer notices
	Notifications NotificationsConfig `koanf:"notifications"`

	Log LogConfig `koanf:"log"`
}

// StorageConfig locates the sound files.
type StorageConfig struct {
	Bucket   string `koanf:"bucket"`    // Firebase Storage bucket
	BaseURL  string `koanf:"base_url"`  // overrides the media URL prefix, e.g. a mirror
	CacheDir string `koanf:"cache_dir"` // default: $XDG_CACHE_HOME/hush/sounds
}

// AudioConfig configures the speaker.
type AudioConfig struct {
	SampleRate int `koanf:"sample_rate"` // default: 44100
	BufferMS   int `koanf:"buffer_ms"`   // default: 100
}

// TimerConfig configures the sleep timer.
type TimerConfig struct {
	DefaultMinutes int `koanf:"default_minutes"` // 0-120, default: 30
}

// NotificationsConfig toggles desktop notifications.
type NotificationsConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
}

// LogConfig configures the log file.
type LogConfig struct {
	Level string `koanf:"level"` // default: info
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/hush/hush.log
}

const (
	DefaultBucket         = "hush-sounds.appspot.com"
	DefaultSampleRate     = 44100
	DefaultBufferMS       = 100
	DefaultTimerMinutes   = 30
	MaxTimerMinutes       = 120
	DefaultLogLevel       = "info"
	defaultLogFileName    = "hush.log"
	defaultSoundsCacheDir = "sounds"
)

func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom merges the existing files among paths, later files winning.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Storage.BaseURL = strings.TrimSuffix(cfg.Storage.BaseURL, "/")
	cfg.Storage.CacheDir = expandPath(cfg.Storage.CacheDir)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/hush/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetStorageConfig returns the storage configuration with defaults applied.
func (c *Config) GetStorageConfig() StorageConfig {
	cfg := c.Storage
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(xdg.CacheHome, appName, defaultSoundsCacheDir)
	}
	return cfg
}

// GetAudioConfig returns the audio configuration with defaults applied.
func (c *Config) GetAudioConfig() AudioConfig {
	cfg := c.Audio
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BufferMS <= 0 {
		cfg.BufferMS = DefaultBufferMS
	}
	return cfg
}

// Buffer returns the speaker buffer as a duration.
func (a AudioConfig) Buffer() time.Duration {
	return time.Duration(a.BufferMS) * time.Millisecond
}

// GetTimerConfig returns the timer configuration with defaults applied.
// The default duration is snapped to 5-minute steps.
func (c *Config) GetTimerConfig() TimerConfig {
	cfg := c.Timer
	if cfg.DefaultMinutes <= 0 || cfg.DefaultMinutes > MaxTimerMinutes {
		cfg.DefaultMinutes = DefaultTimerMinutes
	}
	cfg.DefaultMinutes = (cfg.DefaultMinutes + 2) / 5 * 5
	if cfg.DefaultMinutes == 0 {
		cfg.DefaultMinutes = 5
	}
	return cfg
}

// NotificationsEnabled reports whether desktop notifications are on (default: true).
func (c *Config) NotificationsEnabled() bool {
	if c.Notifications.Enabled == nil {
		return true
	}
	return *c.Notifications.Enabled
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = DefaultLogLevel
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, defaultLogFileName)
	}
	return cfg
}
