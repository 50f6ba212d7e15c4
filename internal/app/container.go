// Package app provides the dependency injection container for the application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/auth"
	"github.com/runoshun/focusday/internal/infra/config"
	"github.com/runoshun/focusday/internal/infra/dualstore"
	"github.com/runoshun/focusday/internal/infra/gemini"
	"github.com/runoshun/focusday/internal/infra/logging"
	"github.com/runoshun/focusday/internal/usecase"
)

// Paths holds the directories the process reads and writes.
type Paths struct {
	WorkDir         string // Directory holding the local .focusday.toml
	DataDir         string // Local store, session and logs
	GlobalConfigDir string // Directory holding the global config.toml
}

// DefaultPaths resolves the XDG directories for workDir.
func DefaultPaths(workDir string) Paths {
	return Paths{
		WorkDir:         workDir,
		DataDir:         config.DefaultDataDir(),
		GlobalConfigDir: config.DefaultGlobalConfigDir(),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
// One container is built per process.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store         domain.Store
	Backend       usecase.StoreReporter
	Verifier      domain.CredentialVerifier
	Hasher        domain.PasswordHasher
	Tokens        domain.TokenIssuer // nil when no JWT secret is configured
	Sessions      domain.SessionStore
	Advisor       domain.Advisor
	AdvisorStatus usecase.AdvisorStatus
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger

	// Pointer fields
	Slog      *slog.Logger
	AppConfig *domain.Config
	NewID     func() string
	closers   []func() error

	// Configuration
	Paths Paths
}

// New loads configuration for paths and builds every port.
// The store never fails to open: an unreachable remote falls back to the local store.
func New(ctx context.Context, paths Paths) (*Container, error) {
	configLoader := config.NewLoaderWithGlobalDir(paths.WorkDir, paths.GlobalConfigDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := logging.ParseLevel(appConfig.Log.Level)
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	for _, w := range appConfig.Warnings {
		slogger.Warn(w)
	}

	logger := logging.New(paths.DataDir, level)
	logger.SetConsole(os.Stderr)

	clock := domain.RealClock{}
	hasher := auth.NewHasher(0)
	store := dualstore.Open(ctx, dualstore.Options{
		Hasher:  hasher,
		Logger:  logger,
		DataDir: paths.DataDir,
		Config:  appConfig.Store,
	})

	var tokens domain.TokenIssuer
	if appConfig.Server.JWTSecret != "" {
		issuer, err := auth.NewIssuer(appConfig.Server.JWTSecret, appConfig.Server.TokenTTL(), clock)
		if err != nil {
			return nil, err
		}
		tokens = issuer
	}

	client := gemini.NewClient(gemini.Config{
		APIKey:  appConfig.AI.APIKey,
		BaseURL: appConfig.AI.BaseURL,
		Models:  appConfig.AI.Models,
		Timeout: appConfig.AI.Timeout(),
	})
	if !client.Configured() {
		slogger.Debug("GEMINI_API_KEY not set; advisory commands will fail")
	}

	return &Container{
		Store:         store,
		Backend:       store,
		Verifier:      store,
		Hasher:        hasher,
		Tokens:        tokens,
		Sessions:      config.NewSessionFile(paths.DataDir),
		Advisor:       gemini.NewAdvisor(client, logger),
		AdvisorStatus: client,
		Clock:         clock,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManagerWithGlobalDir(paths.WorkDir, paths.GlobalConfigDir),
		Logger:        logger,
		Slog:          slogger,
		AppConfig:     appConfig,
		NewID:         uuid.NewString,
		closers:       []func() error{store.Close, logger.Close},
		Paths:         paths,
	}, nil
}

// Deps lists the ports NewWithDeps binds. Unset optional ports stay nil.
type Deps struct {
	Store         domain.Store
	Backend       usecase.StoreReporter
	Verifier      domain.CredentialVerifier
	Hasher        domain.PasswordHasher
	Tokens        domain.TokenIssuer
	Sessions      domain.SessionStore
	Advisor       domain.Advisor
	AdvisorStatus usecase.AdvisorStatus
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger
	AppConfig     *domain.Config
	NewID         func() string
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(paths Paths, deps Deps) *Container {
	cfg := deps.AppConfig
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	clock := deps.Clock
	if clock == nil {
		clock = domain.RealClock{}
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Container{
		Store:         deps.Store,
		Backend:       deps.Backend,
		Verifier:      deps.Verifier,
		Hasher:        deps.Hasher,
		Tokens:        deps.Tokens,
		Sessions:      deps.Sessions,
		Advisor:       deps.Advisor,
		AdvisorStatus: deps.AdvisorStatus,
		Clock:         clock,
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		Logger:        logger,
		Slog:          slog.New(slog.NewTextHandler(os.Stderr, nil)),
		AppConfig:     cfg,
		NewID:         newID,
		Paths:         paths,
	}
}

// Close releases the store and log files.
func (c *Container) Close() error {
	var firstErr error
	for _, fn := range c.closers {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Engine returns a lifecycle engine using the configured timer scheme.
func (c *Container) Engine() *domain.Engine {
	return domain.NewEngine(c.Clock, c.NewID, c.AppConfig.Timer)
}

// UseCase factory methods

// RegisterUserUseCase returns a new RegisterUser use case.
func (c *Container) RegisterUserUseCase() *usecase.RegisterUser {
	return usecase.NewRegisterUser(c.Store, c.Hasher, c.Tokens, c.Clock, c.NewID, c.Logger)
}

// LoginUseCase returns a new Login use case.
func (c *Container) LoginUseCase() *usecase.Login {
	return usecase.NewLogin(c.Verifier, c.Tokens, c.Sessions, c.Clock, c.Logger)
}

// LogoutUseCase returns a new Logout use case.
func (c *Container) LogoutUseCase() *usecase.Logout {
	return usecase.NewLogout(c.Sessions)
}

// CurrentUserUseCase returns a new CurrentUser use case.
func (c *Container) CurrentUserUseCase() *usecase.CurrentUser {
	return usecase.NewCurrentUser(c.Store, c.Sessions)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store)
}

// AddTaskUseCase returns a new AddTask use case.
func (c *Container) AddTaskUseCase() *usecase.AddTask {
	return usecase.NewAddTask(c.Store, c.Engine(), c.Logger)
}

// AddPlanUseCase returns a new AddPlan use case.
func (c *Container) AddPlanUseCase() *usecase.AddPlan {
	return usecase.NewAddPlan(c.Store, c.Engine(), c.Logger)
}

// SplitTaskUseCase returns a new SplitTask use case.
func (c *Container) SplitTaskUseCase() *usecase.SplitTask {
	return usecase.NewSplitTask(c.Store, c.Advisor, c.Engine(), c.Logger)
}

// ReorderTasksUseCase returns a new ReorderTasks use case.
func (c *Container) ReorderTasksUseCase() *usecase.ReorderTasks {
	return usecase.NewReorderTasks(c.Store, c.Advisor, c.Engine(), c.Logger)
}

// ToggleTimerUseCase returns a new ToggleTimer use case.
func (c *Container) ToggleTimerUseCase() *usecase.ToggleTimer {
	return usecase.NewToggleTimer(c.Store, c.Engine(), c.Logger)
}

// CompleteTaskUseCase returns a new CompleteTask use case.
func (c *Container) CompleteTaskUseCase() *usecase.CompleteTask {
	return usecase.NewCompleteTask(c.Store, c.Store, c.Engine(), c.Logger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store, c.Engine(), c.Logger)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store, c.Engine(), c.Logger)
}

// DeleteGroupUseCase returns a new DeleteGroup use case.
func (c *Container) DeleteGroupUseCase() *usecase.DeleteGroup {
	return usecase.NewDeleteGroup(c.Store, c.Engine(), c.Logger)
}

// ClearTasksUseCase returns a new ClearTasks use case.
func (c *Container) ClearTasksUseCase() *usecase.ClearTasks {
	return usecase.NewClearTasks(c.Store, c.Engine(), c.Logger)
}

// ListHistoryUseCase returns a new ListHistory use case.
func (c *Container) ListHistoryUseCase() *usecase.ListHistory {
	return usecase.NewListHistory(c.Store)
}

// ShowStatsUseCase returns a new ShowStats use case.
func (c *Container) ShowStatsUseCase() *usecase.ShowStats {
	return usecase.NewShowStats(c.Store, c.Store, c.Clock)
}

// CoachUseCase returns a new Coach use case.
func (c *Container) CoachUseCase() *usecase.Coach {
	return usecase.NewCoach(c.Store, c.Store, c.Advisor, c.Logger)
}

// ChatUseCase returns a new Chat use case.
func (c *Container) ChatUseCase() *usecase.Chat {
	return usecase.NewChat(c.Store, c.Store, c.Advisor, c.Logger)
}

// FocusSession returns a new FocusSession. Each session owns its own board.
func (c *Container) FocusSession() *usecase.FocusSession {
	return usecase.NewFocusSession(c.Store, c.Store, c.Engine(), c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// CheckHealthUseCase returns a new CheckHealth use case.
func (c *Container) CheckHealthUseCase() *usecase.CheckHealth {
	return usecase.NewCheckHealth(c.Backend, c.AdvisorStatus, c.Clock)
}
