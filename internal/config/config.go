// Package config loads the launcher's YAML config and applies env overrides.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDirName = "multitool"
	fileName   = "config.yaml"

	DefaultBackendURL    = "http://127.0.0.1:8000"
	DefaultMaxUploadMB   = 50
	DefaultReadyAttempts = 10
	DefaultReadyDelay    = 500 * time.Millisecond
)

type Backend struct {
	// Commands are alternative argv lists, tried in order until one starts.
	Commands      [][]string    `yaml:"commands,omitempty"`
	Dir           string        `yaml:"dir,omitempty"`
	ReadyAttempts uint          `yaml:"ready_attempts,omitempty"`
	ReadyDelay    time.Duration `yaml:"ready_delay,omitempty"`
}

type Config struct {
	BackendURL  string  `yaml:"backend_url"`
	MaxUploadMB int64   `yaml:"max_upload_mb"`
	Backend     Backend `yaml:"backend"`
	Debug       bool    `yaml:"debug"`
	Demo        bool    `yaml:"demo"`

	// Dir is where config, logs and the preferences DB live. Not read from YAML.
	Dir string `yaml:"-"`
}

func Default() Config {
	return Config{
		BackendURL:  DefaultBackendURL,
		MaxUploadMB: DefaultMaxUploadMB,
		Backend: Backend{
			ReadyAttempts: DefaultReadyAttempts,
			ReadyDelay:    DefaultReadyDelay,
		},
	}
}

// MaxUploadBytes is the upload ceiling in bytes.
func (c Config) MaxUploadBytes() int64 { return c.MaxUploadMB << 20 }

// Dir returns the app directory, honouring MULTITOOL_CONFIG_DIR.
func Dir() (string, error) {
	if override := strings.TrimSpace(os.Getenv("MULTITOOL_CONFIG_DIR")); override != "" {
		return override, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDirName), nil
}

// Load reads <Dir>/config.yaml. A missing file yields the defaults.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	return LoadFile(dir, filepath.Join(dir, fileName))
}

func LoadFile(dir, path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, err
	}
	cfg.Dir = dir

	applyEnv(&cfg)
	backfill(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("MULTITOOL_BACKEND_URL")); v != "" {
		cfg.BackendURL = v
	}
	if v, ok := os.LookupEnv("MULTITOOL_DEBUG"); ok {
		cfg.Debug = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv("MULTITOOL_BACKEND_CMD")); v != "" {
		cfg.Backend.Commands = [][]string{strings.Fields(v)}
	}
}

func backfill(cfg *Config) {
	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	if cfg.BackendURL == "" {
		cfg.BackendURL = DefaultBackendURL
	}
	if cfg.Backend.ReadyAttempts == 0 {
		cfg.Backend.ReadyAttempts = DefaultReadyAttempts
	}
	if cfg.Backend.ReadyDelay <= 0 {
		cfg.Backend.ReadyDelay = DefaultReadyDelay
	}
	cmds := cfg.Backend.Commands[:0]
	for _, c := range cfg.Backend.Commands {
		if len(c) > 0 && strings.TrimSpace(c[0]) != "" {
			cmds = append(cmds, c)
		}
	}
	cfg.Backend.Commands = cmds
}

func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil {
		return fmt.Errorf("backend_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url %q: scheme must be http or https", c.BackendURL)
	}
	if u.Host == "" {
		return fmt.Errorf("backend_url %q: missing host", c.BackendURL)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

// Save writes cfg to <cfg.Dir>/config.yaml.
func Save(cfg Config) error {
	if cfg.Dir == "" {
		return errors.New("config dir not set")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.Dir, fileName), data, 0o600)
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
