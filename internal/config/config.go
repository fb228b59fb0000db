package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName   = "wavecast"
	envPrefix = "WAVECAST_"

	defaultAPITimeout   = 10 * time.Second
	defaultRemoteListen = "127.0.0.1:8765"
	defaultLogLevel     = "info"
	defaultLogFile      = "wavecast.log"
)

type Config struct {
	// Catalog API the tracks are fetched from.
	API APIConfig `koanf:"api"`

	// Remote control HTTP server (the TUI starts it only when listen is set)
	Remote RemoteConfig `koanf:"remote"`

	Log LogConfig `koanf:"log"`

	// Error reporting (enabled when a DSN is configured)
	Sentry SentryConfig `koanf:"sentry"`

	// Last.fm scrobbling (enables scrobbling when configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	// Desktop notifications on track change (default: true)
	Notifications *bool `koanf:"notifications"`
}

// APIConfig holds the catalog API settings.
type APIConfig struct {
	BaseURL        string `koanf:"base_url"`        // e.g., "https://music.example.com/api"
	AssetsPath     string `koanf:"assets_path"`     // path segment for bare file names (default: "assets")
	TimeoutSeconds int    `koanf:"timeout_seconds"` // request timeout (default: 10)
}

// RemoteConfig holds the remote control server settings.
type RemoteConfig struct {
	Listen string `koanf:"listen"` // e.g., "127.0.0.1:8765"
	Token  string `koanf:"token"`  // optional bearer token required by the server
}

// LogConfig holds the log settings.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // log file path (default: XDG state dir)
}

// SentryConfig holds error reporting settings.
type SentryConfig struct {
	DSN         string `koanf:"dsn"`
	Environment string `koanf:"environment"`
}

// LastfmConfig holds Last.fm scrobbling configuration.
type LastfmConfig struct {
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`

	// CallbackAddr is where the browser authorization callback listens.
	CallbackAddr string `koanf:"callback_addr"`
}

// Load reads the config files, then WAVECAST_* environment variables.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional
	return load(getConfigPaths())
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	// WAVECAST_API__BASE_URL -> api.base_url
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.API.BaseURL = strings.TrimSuffix(cfg.API.BaseURL, "/")
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/wavecast/config.toml
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

// HasAPIConfig returns true if the catalog API is configured.
func (c *Config) HasAPIConfig() bool {
	return c.API.BaseURL != ""
}

// HasRemoteConfig returns true if the remote control server is configured.
func (c *Config) HasRemoteConfig() bool {
	return c.Remote.Listen != ""
}

// HasLastfmConfig returns true if Last.fm scrobbling is configured.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != ""
}

// HasSentryConfig returns true if error reporting is configured.
func (c *Config) HasSentryConfig() bool {
	return c.Sentry.DSN != ""
}

// APITimeout returns the catalog request timeout with the default applied.
func (c *Config) APITimeout() time.Duration {
	if c.API.TimeoutSeconds <= 0 {
		return defaultAPITimeout
	}
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// RemoteListen returns the remote control listen address with the default applied.
func (c *Config) RemoteListen() string {
	if c.Remote.Listen == "" {
		return defaultRemoteListen
	}
	return c.Remote.Listen
}

// LogLevel returns the configured log level, or "info".
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return defaultLogLevel
	}
	return strings.ToLower(c.Log.Level)
}

// LogFile returns the log file path, defaulting to the XDG state directory.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	if p, err := xdg.StateFile(filepath.Join(appName, defaultLogFile)); err == nil {
		return p
	}
	return defaultLogFile
}

// NotificationsEnabled reports whether desktop notifications are on.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications == nil || *c.Notifications
}
