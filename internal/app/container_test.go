package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/config"
	"github.com/runoshun/focusday/internal/usecase"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		config.EnvMongoURI, config.EnvDatabaseURL, config.EnvGeminiKey, config.EnvJWTSecret,
		config.EnvPort, config.EnvVercel, config.EnvVolatile, config.EnvLogLevel,
	} {
		t.Setenv(k, "")
	}
}

func testPaths(t *testing.T) Paths {
	t.Helper()
	root := t.TempDir()
	return Paths{
		WorkDir:         filepath.Join(root, "work"),
		DataDir:         filepath.Join(root, "data"),
		GlobalConfigDir: filepath.Join(root, "config"),
	}
}

func TestNew_LocalStore(t *testing.T) {
	clearEnv(t)
	paths := testPaths(t)

	c, err := New(context.Background(), paths)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	assert.Nil(t, c.Tokens)
	assert.False(t, c.AdvisorStatus.Configured())

	out, err := c.CheckHealthUseCase().Execute(context.Background(), usecase.CheckHealthInput{})
	require.NoError(t, err)
	assert.Equal(t, "degraded", out.Status)
	assert.Equal(t, domain.StoreModeFile, out.Store.Mode)
	assert.Equal(t, filepath.Join(paths.DataDir, domain.DefaultLocalStoreFile), out.Store.Path)
}

func TestNew_RegisterAndAddTask(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvJWTSecret, "test-secret")
	ctx := context.Background()

	c, err := New(ctx, testPaths(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	require.NotNil(t, c.Tokens)

	reg, err := c.RegisterUserUseCase().Execute(ctx, usecase.RegisterUserInput{
		Username: "sara",
		Email:    "sara@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)

	_, err = c.LoginUseCase().Execute(ctx, usecase.LoginInput{
		Email:    "sara@example.com",
		Password: "secret1",
		Remember: true,
	})
	require.NoError(t, err)

	me, err := c.CurrentUserUseCase().Execute(ctx, usecase.CurrentUserInput{})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, me.User.ID)

	added, err := c.AddTaskUseCase().Execute(ctx, usecase.AddTaskInput{
		UserID:          me.User.ID,
		Text:            "Write report",
		System:          domain.SystemCustom,
		DurationMinutes: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 600, added.Task.Duration)

	list, err := c.ListTasksUseCase().Execute(ctx, usecase.ListTasksInput{UserID: me.User.ID})
	require.NoError(t, err)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, added.Task.ID, list.Tasks[0].ID)
}

func TestNewWithDeps_Defaults(t *testing.T) {
	c := NewWithDeps(Paths{}, Deps{})

	require.NotNil(t, c.AppConfig)
	assert.Equal(t, domain.DefaultTimerConfig(), c.AppConfig.Timer)
	assert.NotNil(t, c.Clock)
	assert.NotNil(t, c.Logger)
	assert.NotEqual(t, c.NewID(), c.NewID())
	assert.NotNil(t, c.Engine())
	assert.NoError(t, c.Close())
}
