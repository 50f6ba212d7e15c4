package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
)

func TestManager_GetConfigInfo(t *testing.T) {
	workDir := t.TempDir()
	globalDir := t.TempDir()
	writeFile(t, filepath.Join(workDir, domain.LocalConfigFileName), "[log]\nlevel = \"debug\"")

	m := NewManagerWithGlobalDir(workDir, globalDir)

	local := m.GetLocalConfigInfo()
	assert.True(t, local.Exists)
	assert.Equal(t, "[log]\nlevel = \"debug\"", local.Content)

	global := m.GetGlobalConfigInfo()
	assert.False(t, global.Exists)
	assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), global.Path)

	assert.Empty(t, NewManagerWithGlobalDir("", "").GetGlobalConfigInfo().Path)
}

func TestManager_InitGlobalConfig(t *testing.T) {
	globalDir := filepath.Join(t.TempDir(), "nested")
	m := NewManagerWithGlobalDir("", globalDir)

	path, err := m.InitGlobalConfig(domain.NewDefaultConfig())
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var parsed domain.Config
	require.NoError(t, toml.Unmarshal(content, &parsed), "rendered template is valid TOML")
	assert.Equal(t, domain.DefaultTimerConfig(), parsed.Timer)
	assert.Equal(t, domain.DefaultModelPreference(), parsed.AI.Models)

	_, err = m.InitGlobalConfig(domain.NewDefaultConfig())
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestManager_InitLocalConfig_LoadsBack(t *testing.T) {
	workDir := t.TempDir()
	_, err := NewManagerWithGlobalDir(workDir, "").InitLocalConfig(domain.NewDefaultConfig())
	require.NoError(t, err)

	cfg, err := NewLoaderWithGlobalDir(workDir, "").WithEnv(noEnv).Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.DefaultServerAddr, cfg.Server.Addr)
}
