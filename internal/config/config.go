package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kamusis/vibe-cli/internal/vibe"
	"github.com/kamusis/vibe-cli/internal/vibe/layout"
)

// HomeEnv relocates the whole vibe directory, mostly for tests and CI.
const HomeEnv = "VIBE_HOME"

// Environment keys that override vibe.yaml. Process env wins over ~/.vibe/.env.
const (
	EnvLayoutSeed       = "VIBE_LAYOUT_SEED"
	EnvLayoutIterations = "VIBE_LAYOUT_ITERATIONS"
	EnvLayoutWorkers    = "VIBE_LAYOUT_WORKERS"
)

// Config is the in-memory representation of ~/.vibe/vibe.yaml.
type Config struct {
	CatalogPath string        `yaml:"catalog_path"`
	IndexPath   string        `yaml:"index_path"`
	LogLevel    string        `yaml:"log_level,omitempty"`
	LogFormat   string        `yaml:"log_format,omitempty"`
	Layout      layout.Config `yaml:"layout"`
}

// VibeDir returns the absolute path to ~/.vibe/, or $VIBE_HOME when set.
func VibeDir() (string, error) {
	if d := os.Getenv(HomeEnv); d != "" {
		return ExpandPath(d)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".vibe"), nil
}

// ConfigPath returns the absolute path to vibe.yaml.
func ConfigPath() (string, error) {
	dir, err := VibeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "vibe.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// DefaultConfig returns the Config written on first vibe init.
func DefaultConfig() (*Config, error) {
	dir, err := VibeDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		CatalogPath: filepath.Join(dir, "catalog"),
		IndexPath:   filepath.Join(dir, "index"),
		LogLevel:    "info",
		LogFormat:   "text",
		Layout:      layout.DefaultConfig(),
	}, nil
}

// Load reads vibe.yaml over the defaults, applies environment overrides and
// validates the layout section.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if cfg.CatalogPath, err = ExpandPath(cfg.CatalogPath); err != nil {
		return nil, err
	}
	if cfg.IndexPath, err = ExpandPath(cfg.IndexPath); err != nil {
		return nil, err
	}
	if err := cfg.applyOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Layout.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyOverrides() error {
	if v, err := GetConfigValue(EnvLayoutSeed); err != nil {
		return err
	} else if v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an unsigned integer", vibe.ErrConfiguration, EnvLayoutSeed, v)
		}
		c.Layout.Seed = n
	}
	for key, dst := range map[string]*int{
		EnvLayoutIterations: &c.Layout.Iterations,
		EnvLayoutWorkers:    &c.Layout.Workers,
	} {
		v, err := GetConfigValue(key)
		if err != nil {
			return err
		}
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", vibe.ErrConfiguration, key, v)
		}
		*dst = n
	}
	return nil
}

// Save marshals cfg and writes it to vibe.yaml.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}
