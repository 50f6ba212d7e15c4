package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/runoshun/focusday/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	workDir       string // Directory holding the local .focusday.toml
	globalConfDir string // Path to global config directory (e.g., ~/.config/focusday)
}

// NewManager creates a new Manager.
func NewManager(workDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: DefaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(workDir, globalConfDir string) *Manager {
	return &Manager{
		workDir:       workDir,
		globalConfDir: globalConfDir,
	}
}

// GetLocalConfigInfo returns information about ./.focusday.toml.
func (m *Manager) GetLocalConfigInfo() domain.ConfigInfo {
	if m.workDir == "" {
		return domain.ConfigInfo{}
	}
	return getConfigInfo(filepath.Join(m.workDir, domain.LocalConfigFileName))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{}
	}
	return getConfigInfo(filepath.Join(m.globalConfDir, domain.ConfigFileName))
}

func getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{Path: path}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitLocalConfig writes a commented ./.focusday.toml rendered from cfg.
func (m *Manager) InitLocalConfig(cfg *domain.Config) (string, error) {
	if m.workDir == "" {
		return "", errors.New("working directory not available")
	}
	path := filepath.Join(m.workDir, domain.LocalConfigFileName)
	return path, initConfig(path, cfg)
}

// InitGlobalConfig writes a commented global config rendered from cfg.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	if m.globalConfDir == "" {
		return "", errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", err
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	return path, initConfig(path, cfg)
}

func initConfig(path string, cfg *domain.Config) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	return os.WriteFile(path, []byte(domain.RenderConfigTemplate(cfg)), 0o600)
}
