// Package config provides configuration loading functionality.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/focusday/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Environment variables that override file configuration.
const (
	EnvMongoURI    = "MONGODB_URI"
	EnvDatabaseURL = "DATABASE_URL"
	EnvGeminiKey   = "GEMINI_API_KEY"
	EnvJWTSecret   = "JWT_SECRET"
	EnvPort        = "PORT"
	EnvVercel      = "VERCEL"
	EnvVolatile    = "FOCUSDAY_VOLATILE"
	EnvLogLevel    = "FOCUSDAY_LOG_LEVEL"
)

// Loader loads configuration from TOML files and the environment.
type Loader struct {
	getenv        func(string) string
	workDir       string // Directory holding the local .focusday.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/focusday)
}

// NewLoader creates a new Loader.
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir:       workDir,
		globalConfDir: DefaultGlobalConfigDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(workDir, globalConfDir string) *Loader {
	return &Loader{
		workDir:       workDir,
		globalConfDir: globalConfDir,
		getenv:        os.Getenv,
	}
}

// WithEnv replaces the environment lookup.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	l.getenv = getenv
	return l
}

// DefaultGlobalConfigDir returns $XDG_CONFIG_HOME/focusday or ~/.config/focusday.
func DefaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// DefaultDataDir returns $XDG_DATA_HOME/focusday or ~/.local/share/focusday.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return domain.DataDir(dataHome)
}

// Load returns the merged configuration: default <- global <- local <- environment.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	for _, path := range l.paths() {
		warnings, err := decodeFile(path, cfg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, err
		}
		cfg.Warnings = append(cfg.Warnings, warnings...)
	}

	l.applyEnv(cfg)
	return cfg, nil
}

func (l *Loader) paths() []string {
	var paths []string
	if l.globalConfDir != "" {
		paths = append(paths, filepath.Join(l.globalConfDir, domain.ConfigFileName))
	}
	if l.workDir != "" {
		paths = append(paths, filepath.Join(l.workDir, domain.LocalConfigFileName))
	}
	return paths
}

// decodeFile decodes path over cfg. Keys only present in the file replace
// the current values. Unknown keys become warnings instead of errors.
func decodeFile(path string, cfg *domain.Config) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var warnings []string
	var scratch domain.Config
	strict := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := strict.Decode(&scratch); err != nil {
		var missing *toml.StrictMissingError
		if !errors.As(err, &missing) {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for _, e := range missing.Errors {
			warnings = append(warnings, fmt.Sprintf("unknown key in %s: %s", filepath.Base(path), strings.Join(e.Key(), ".")))
		}
		sort.Strings(warnings)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return warnings, nil
}

func (l *Loader) applyEnv(cfg *domain.Config) {
	get := func(key string) string { return strings.TrimSpace(l.getenv(key)) }

	if v := get(EnvDatabaseURL); v != "" {
		cfg.Store.RemoteURI = v
	}
	if v := get(EnvMongoURI); v != "" {
		cfg.Store.RemoteURI = v
	}
	if get(EnvVercel) != "" || isTruthy(get(EnvVolatile)) {
		cfg.Store.Volatile = true
	}
	if v := get(EnvGeminiKey); v != "" {
		cfg.AI.APIKey = v
	}
	if v := get(EnvJWTSecret); v != "" {
		cfg.Server.JWTSecret = v
	}
	if v := get(EnvPort); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if v := get(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
