package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds everything railscope reads from disk and the environment.
type Config struct {
	Origin         string `toml:"origin" env:"RAILSCOPE_ORIGIN"`
	APIBaseURL     string `toml:"api_base_url" env:"RAILSCOPE_API_BASE_URL"`
	StateDir       string `toml:"state_dir" env:"RAILSCOPE_STATE_DIR"`
	TimeoutSeconds int    `toml:"timeout_seconds" env:"RAILSCOPE_TIMEOUT_SECONDS"`
	LogLevel       string `toml:"log_level" env:"RAILSCOPE_LOG_LEVEL"`
	LogFormat      string `toml:"log_format" env:"RAILSCOPE_LOG_FORMAT"`
	LogFile        string `toml:"log_file" env:"RAILSCOPE_LOG_FILE"`
	Theme          string `toml:"theme" env:"RAILSCOPE_THEME"`
	RefreshSeconds int    `toml:"refresh_seconds" env:"RAILSCOPE_REFRESH_SECONDS"`
}

const (
	defaultConfigPath     = "~/.config/railscope/config.toml"
	defaultOrigin         = "http://127.0.0.1:8000"
	defaultAPIBaseURL     = "/api"
	defaultStateDir       = "~/.local/state/railscope"
	defaultLogFile        = "~/.local/state/railscope/railscope.log"
	defaultTimeoutSeconds = 30
	defaultRefreshSeconds = 30
	minRefreshSeconds     = 5
)

// Default returns the built-in configuration with paths expanded.
func Default() Config {
	return Config{
		Origin:         defaultOrigin,
		APIBaseURL:     defaultAPIBaseURL,
		StateDir:       mustExpand(defaultStateDir),
		TimeoutSeconds: defaultTimeoutSeconds,
		LogLevel:       "info",
		LogFormat:      "text",
		LogFile:        mustExpand(defaultLogFile),
		RefreshSeconds: defaultRefreshSeconds,
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

// Load applies the TOML file at path over the defaults, then RAILSCOPE_*
// environment variables over that. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer func() { _ = file.Close() }()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile exports the variables in a dotenv file without overriding
// ones already set. A missing file is ignored.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate reports values that cannot be used.
func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.RefreshSeconds < minRefreshSeconds {
		return fmt.Errorf("refresh_seconds must be at least %d, got %d", minRefreshSeconds, c.RefreshSeconds)
	}
	return nil
}

// Timeout is the per-request HTTP timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RefreshInterval is the dashboard refresh cadence.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// PrefsPath is where UI preferences are kept, inside the state directory.
func (c Config) PrefsPath() string {
	return filepath.Join(c.StateDir, "prefs.toml")
}

func (c *Config) normalize() {
	c.Origin = strings.TrimSpace(c.Origin)
	if c.Origin == "" {
		c.Origin = defaultOrigin
	}
	c.APIBaseURL = strings.TrimSpace(c.APIBaseURL)
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	c.StateDir = strings.TrimSpace(c.StateDir)
	if c.StateDir == "" {
		c.StateDir = defaultStateDir
	}
	c.StateDir = mustExpand(c.StateDir)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if file := strings.TrimSpace(c.LogFile); file != "" && file != "-" {
		c.LogFile = mustExpand(file)
	} else {
		c.LogFile = file
	}
	c.Theme = strings.TrimSpace(c.Theme)
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if c.RefreshSeconds == 0 {
		c.RefreshSeconds = defaultRefreshSeconds
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath trims path, replaces a leading ~ with the home directory and
// makes the result absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
