// Package config provides configuration loading for tasktrack.
// Configuration is TOML; a repo-local tasktrack.toml overrides the global
// config under $XDG_CONFIG_HOME/tasktrack/config.toml, which overrides the
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// File names.
const (
	LocalFileName  = "tasktrack.toml"
	GlobalFileName = "config.toml"
)

// Config is the application configuration.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	Defaults DefaultsConfig `toml:"defaults"`
	Log      LogConfig      `toml:"log"`
}

// StoreConfig selects and locates the task store backend.
type StoreConfig struct {
	Type string `toml:"type"` // "json" or "memory"
	Path string `toml:"path"` // store file path for the json backend
}

// DefaultsConfig holds defaults applied when the caller specifies nothing.
type DefaultsConfig struct {
	Factory string `toml:"factory"` // task factory name
	User    string `toml:"user"`    // acting user ID
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
	Path  string `toml:"path"`  // log file path; empty logs to stderr
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store:    StoreConfig{Type: "json", Path: "tasktrack.json"},
		Defaults: DefaultsConfig{Factory: "simple", User: "local"},
		Log:      LogConfig{Level: "info"},
	}
}

// Loader loads configuration from TOML files.
type Loader struct {
	dir       string // directory holding the local config file
	globalDir string // global config directory
}

// NewLoader creates a new Loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:       dir,
		globalDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a Loader with a custom global config
// directory. This is useful for testing.
func NewLoaderWithGlobalDir(dir, globalDir string) *Loader {
	return &Loader{dir: dir, globalDir: globalDir}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "tasktrack")
}

// Load returns the merged configuration: defaults, overridden by the global
// file, overridden by the local file. Missing files are not an error.
func (l *Loader) Load() (*Config, error) {
	base := Default()

	if l.globalDir != "" {
		global, err := l.loadFile(filepath.Join(l.globalDir, GlobalFileName))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if global != nil {
			base = merge(base, global)
		}
	}

	local, err := l.loadFile(filepath.Join(l.dir, LocalFileName))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if local != nil {
		base = merge(base, local)
	}

	return base, nil
}

func (l *Loader) loadFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// merge overlays non-empty fields of override onto base.
func merge(base, override *Config) *Config {
	out := *base
	if override.Store.Type != "" {
		out.Store.Type = override.Store.Type
	}
	if override.Store.Path != "" {
		out.Store.Path = override.Store.Path
	}
	if override.Defaults.Factory != "" {
		out.Defaults.Factory = override.Defaults.Factory
	}
	if override.Defaults.User != "" {
		out.Defaults.User = override.Defaults.User
	}
	if override.Log.Level != "" {
		out.Log.Level = override.Log.Level
	}
	if override.Log.Path != "" {
		out.Log.Path = override.Log.Path
	}
	return &out
}
