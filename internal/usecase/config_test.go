package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/testutil"
)

func TestShowConfig_Execute(t *testing.T) {
	manager := &testutil.MockConfigManager{
		GlobalConfigInfo: domain.ConfigInfo{Path: "/home/u/.config/focusday/config.toml", Exists: true, Content: "x"},
		LocalConfigInfo:  domain.ConfigInfo{Path: "/work/.focusday.toml"},
	}
	cfg := domain.NewDefaultConfig()
	cfg.Server.Addr = ":9000"
	uc := NewShowConfig(manager, &testutil.MockConfigLoader{Config: cfg})

	out, err := uc.Execute(context.Background(), ShowConfigInput{})
	require.NoError(t, err)
	assert.True(t, out.GlobalConfig.Exists)
	assert.False(t, out.LocalConfig.Exists)
	assert.Equal(t, ":9000", out.Effective.Server.Addr)
}

func TestShowConfig_Execute_LoadError(t *testing.T) {
	uc := NewShowConfig(&testutil.MockConfigManager{}, &testutil.MockConfigLoader{LoadErr: assert.AnError})
	_, err := uc.Execute(context.Background(), ShowConfigInput{})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestInitConfig_Execute(t *testing.T) {
	tests := []struct {
		name       string
		global     bool
		wantPath   string
		wantGlobal bool
	}{
		{"local", false, "/work/.focusday.toml", false},
		{"global", true, "/cfg/config.toml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := &testutil.MockConfigManager{
				GlobalConfigInfo: domain.ConfigInfo{Path: "/cfg/config.toml"},
				LocalConfigInfo:  domain.ConfigInfo{Path: "/work/.focusday.toml"},
			}
			out, err := NewInitConfig(manager).Execute(context.Background(), InitConfigInput{Global: tt.global})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, out.Path)
			assert.Equal(t, tt.wantGlobal, manager.InitGlobalCalled)
			assert.Equal(t, !tt.wantGlobal, manager.InitLocalCalled)
		})
	}
}

func TestInitConfig_Execute_Exists(t *testing.T) {
	manager := &testutil.MockConfigManager{InitErr: domain.ErrConfigExists}
	_, err := NewInitConfig(manager).Execute(context.Background(), InitConfigInput{})
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

type stubBackend struct{ b domain.StoreBackend }

func (s stubBackend) Backend() domain.StoreBackend { return s.b }

type stubAdvisorStatus bool

func (s stubAdvisorStatus) Configured() bool { return bool(s) }

func TestCheckHealth_Execute(t *testing.T) {
	clock := &testutil.MockClock{NowTime: testNow}

	out, err := NewCheckHealth(stubBackend{domain.StoreBackend{Mode: domain.StoreModeRemote, Kind: "mongo", Reachable: true}}, stubAdvisorStatus(true), clock).
		Execute(context.Background(), CheckHealthInput{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Status)
	assert.True(t, out.AIConfigured)
	assert.Equal(t, testNow, out.Time)

	out, err = NewCheckHealth(stubBackend{domain.StoreBackend{Mode: domain.StoreModeFile, Kind: "json"}}, stubAdvisorStatus(false), clock).
		Execute(context.Background(), CheckHealthInput{})
	require.NoError(t, err)
	assert.Equal(t, "degraded", out.Status)
	assert.False(t, out.AIConfigured)
}
