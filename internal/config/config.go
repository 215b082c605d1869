// Package config loads client configuration from defaults, an optional
// YAML file, and environment overrides, in that order.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "350ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts back to time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full client configuration.
type Config struct {
	API struct {
		BaseURL string   `yaml:"baseUrl"`
		Timeout Duration `yaml:"timeout"`
	} `yaml:"api"`

	Deck struct {
		LowWaterMark int `yaml:"lowWaterMark"`
		FetchSize    int `yaml:"fetchSize"`
	} `yaml:"deck"`

	Search struct {
		TypingDebounce Duration `yaml:"typingDebounce"`
		FilterDebounce Duration `yaml:"filterDebounce"`
		PageSize       int      `yaml:"pageSize"`
	} `yaml:"search"`

	Session struct {
		DBPath string `yaml:"dbPath"`
	} `yaml:"session"`

	Serve struct {
		Addr        string `yaml:"addr"`
		FixturesDir string `yaml:"fixturesDir"`
	} `yaml:"serve"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file or environment
// override says otherwise. The API default points at the local dev server.
func Default() Config {
	var cfg Config
	cfg.API.BaseURL = "http://localhost:8090"
	cfg.API.Timeout = Duration(10 * time.Second)
	cfg.Deck.LowWaterMark = 2
	cfg.Deck.FetchSize = 10
	cfg.Search.TypingDebounce = Duration(350 * time.Millisecond)
	cfg.Search.FilterDebounce = Duration(120 * time.Millisecond)
	cfg.Search.PageSize = 20
	cfg.Session.DBPath = "vitrina.db"
	cfg.Serve.Addr = ":8090"
	cfg.Log.Level = "info"
	return cfg
}

// Load builds the configuration. When path is non-empty the file must
// exist and parse; when empty, ./vitrina.yaml is used if present.
// Environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = "vitrina.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; defaults apply.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := getenv("VITRINA_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := getenv("VITRINA_DB"); v != "" {
		cfg.Session.DBPath = v
	}
	if v := getenv("VITRINA_ADDR"); v != "" {
		cfg.Serve.Addr = v
	}
	if v := getenv("VITRINA_FIXTURES"); v != "" {
		cfg.Serve.FixturesDir = v
	}
	if v := getenv("VITRINA_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func getenv(k string) string {
	return strings.TrimSpace(os.Getenv(k))
}

// LogLevel maps the configured level name onto slog. Unknown names fall
// back to info.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
