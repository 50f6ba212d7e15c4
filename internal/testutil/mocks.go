// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/focusday/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
	mu      sync.Mutex
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.NowTime
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NowTime = m.NowTime.Add(d)
}

// SequentialIDs returns an id generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// MockStore is an in-memory test double for domain.Store and
// domain.CredentialVerifier. Err fields make the matching call fail.
// Fields are ordered to minimize memory padding.
type MockStore struct {
	Days           map[string]domain.DayState
	ListErr        error
	CreateErr      error
	UpdateErr      error
	DeleteErr      error
	AppendErr      error
	ListHistoryErr error
	GetDayErr      error
	SaveDayErr     error
	FindUserErr    error
	CreateUserErr  error
	Tasks          []domain.Task
	Users          []*domain.User
	History        []domain.HistoryEntry
	CreateCalls    int
	UpdateCalls    int
	DeleteCalls    int
	SaveDayCalls   int
	mu             sync.Mutex
}

// Ensure MockStore implements the store ports.
var (
	_ domain.Store              = (*MockStore)(nil)
	_ domain.CredentialVerifier = (*MockStore)(nil)
)

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{Days: make(map[string]domain.DayState)}
}

// UserTasks returns the stored tasks of userID ordered by position.
func (m *MockStore) UserTasks(userID string) []domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userTasks(userID)
}

func (m *MockStore) userTasks(userID string) []domain.Task {
	var out []domain.Task
	for _, t := range m.Tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

// ListTasks returns the user's tasks.
func (m *MockStore) ListTasks(_ context.Context, userID string) ([]domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userTasks(userID), nil
}

// CreateTask stores a task.
func (m *MockStore) CreateTask(_ context.Context, task domain.Task) (domain.Task, error) {
	if m.CreateErr != nil {
		return domain.Task{}, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls++
	m.Tasks = append(m.Tasks, task)
	return task, nil
}

// UpdateTask applies patch to a stored task.
func (m *MockStore) UpdateTask(_ context.Context, userID, id string, patch domain.TaskPatch) (domain.Task, error) {
	if m.UpdateErr != nil {
		return domain.Task{}, m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateCalls++
	for i := range m.Tasks {
		if m.Tasks[i].ID == id && m.Tasks[i].UserID == userID {
			patch.Apply(&m.Tasks[i])
			return m.Tasks[i], nil
		}
	}
	return domain.Task{}, domain.ErrTaskNotFound
}

// DeleteTask removes a task.
func (m *MockStore) DeleteTask(_ context.Context, userID, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	m.Tasks = slices.DeleteFunc(m.Tasks, func(t domain.Task) bool {
		return t.ID == id && t.UserID == userID
	})
	return nil
}

// DeleteAllTasks removes every task of the user.
func (m *MockStore) DeleteAllTasks(_ context.Context, userID string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	m.Tasks = slices.DeleteFunc(m.Tasks, func(t domain.Task) bool { return t.UserID == userID })
	return nil
}

// FindUser returns the first user matching lookup.
func (m *MockStore) FindUser(_ context.Context, lookup domain.UserLookup) (*domain.User, error) {
	if m.FindUserErr != nil {
		return nil, m.FindUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.Users {
		if lookup.Matches(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// CreateUser stores a user, rejecting duplicates.
func (m *MockStore) CreateUser(_ context.Context, user *domain.User) error {
	if m.CreateUserErr != nil {
		return m.CreateUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Email = domain.NormalizeEmail(user.Email)
	for _, u := range m.Users {
		if u.Conflicts(user) {
			return domain.ErrUserExists
		}
	}
	cp := *user
	m.Users = append(m.Users, &cp)
	return nil
}

// VerifyCredential checks password against a MockHasher hash.
func (m *MockStore) VerifyCredential(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := m.FindUser(ctx, domain.UserLookup{Email: email})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if (&MockHasher{}).Compare(u.PasswordHash, password) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

// AppendHistory stores entries, skipping tasks already archived with the same kind.
func (m *MockStore) AppendHistory(_ context.Context, userID string, entries []domain.HistoryEntry) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		exists := slices.ContainsFunc(m.History, func(h domain.HistoryEntry) bool {
			return h.UserID == userID && h.TaskID == e.TaskID && h.ArchivedAs() == e.ArchivedAs()
		})
		if !exists {
			e.UserID = userID
			m.History = append(m.History, e)
		}
	}
	return nil
}

// ListHistory returns the user's entries, newest completion first.
func (m *MockStore) ListHistory(_ context.Context, userID string) ([]domain.HistoryEntry, error) {
	if m.ListHistoryErr != nil {
		return nil, m.ListHistoryErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HistoryEntry
	for _, e := range m.History {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return domain.LatestHistory(out, -1), nil
}

// GetDayState returns the stored day state or the zero state.
func (m *MockStore) GetDayState(_ context.Context, userID string) (domain.DayState, error) {
	if m.GetDayErr != nil {
		return domain.DayState{}, m.GetDayErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	day, ok := m.Days[userID]
	if !ok {
		return domain.DayState{UserID: userID}, nil
	}
	day.LockedDays = slices.Clone(day.LockedDays)
	return day, nil
}

// SaveDayState stores a day state.
func (m *MockStore) SaveDayState(_ context.Context, state domain.DayState) error {
	if m.SaveDayErr != nil {
		return m.SaveDayErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveDayCalls++
	state.LockedDays = slices.Clone(state.LockedDays)
	m.Days[state.UserID] = state
	return nil
}

// Close does nothing.
func (m *MockStore) Close() error {
	return nil
}

// MockHasher is a reversible test double for domain.PasswordHasher.
type MockHasher struct {
	HashErr error
}

const mockHashPrefix = "hashed:"

// Hash prefixes the password.
func (m *MockHasher) Hash(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return mockHashPrefix + password, nil
}

// Compare checks the prefixed password.
func (m *MockHasher) Compare(hash, password string) error {
	if hash != mockHashPrefix+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// MockTokenIssuer is a test double for domain.TokenIssuer.
type MockTokenIssuer struct {
	IssueErr error
}

const mockTokenPrefix = "token-"

// Issue returns "token-<userID>".
func (m *MockTokenIssuer) Issue(userID string) (string, error) {
	if m.IssueErr != nil {
		return "", m.IssueErr
	}
	return mockTokenPrefix + userID, nil
}

// Verify accepts tokens made by Issue.
func (m *MockTokenIssuer) Verify(token string) (string, error) {
	id, ok := strings.CutPrefix(token, mockTokenPrefix)
	if !ok || id == "" {
		return "", domain.ErrInvalidCredentials
	}
	return id, nil
}

// MockSessionStore is a test double for domain.SessionStore.
type MockSessionStore struct {
	Session *domain.Session
	LoadErr error
	SaveErr error
}

// LoadSession returns the stored session or ErrNotLoggedIn.
func (m *MockSessionStore) LoadSession() (domain.Session, error) {
	if m.LoadErr != nil {
		return domain.Session{}, m.LoadErr
	}
	if m.Session == nil {
		return domain.Session{}, domain.ErrNotLoggedIn
	}
	return *m.Session, nil
}

// SaveSession stores s.
func (m *MockSessionStore) SaveSession(s domain.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Session = &s
	return nil
}

// ClearSession forgets the session.
func (m *MockSessionStore) ClearSession() error {
	m.Session = nil
	return nil
}

// MockAdvisor is a test double for domain.Advisor.
// Fields are ordered to minimize memory padding.
type MockAdvisor struct {
	DecomposeErr  error
	ReorderErr    error
	CoachErr      error
	ChatErr       error
	Reply         string
	Subtasks      []domain.Subtask
	LastDecompose domain.DecomposeRequest
	LastReorder   domain.ReorderRequest
	LastCoach     domain.CoachRequest
	LastChat      domain.ChatRequest
	Reordering    domain.Reordering
	Report        domain.CoachReport
	Calls         int
}

// Decompose records req and returns Subtasks.
func (m *MockAdvisor) Decompose(_ context.Context, req domain.DecomposeRequest) ([]domain.Subtask, error) {
	m.Calls++
	m.LastDecompose = req
	if m.DecomposeErr != nil {
		return nil, m.DecomposeErr
	}
	return m.Subtasks, nil
}

// Reorder records req and returns Reordering.
func (m *MockAdvisor) Reorder(_ context.Context, req domain.ReorderRequest) (domain.Reordering, error) {
	m.Calls++
	m.LastReorder = req
	if m.ReorderErr != nil {
		return domain.Reordering{}, m.ReorderErr
	}
	return m.Reordering, nil
}

// Coach records req and returns Report.
func (m *MockAdvisor) Coach(_ context.Context, req domain.CoachRequest) (domain.CoachReport, error) {
	m.Calls++
	m.LastCoach = req
	if m.CoachErr != nil {
		return domain.CoachReport{}, m.CoachErr
	}
	return m.Report, nil
}

// Chat records req and returns Reply.
func (m *MockAdvisor) Chat(_ context.Context, req domain.ChatRequest) (string, error) {
	m.Calls++
	m.LastChat = req
	if m.ChatErr != nil {
		return "", m.ChatErr
	}
	return m.Reply, nil
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// Load returns the configured config or the default one.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr          error
	GlobalConfigInfo domain.ConfigInfo
	LocalConfigInfo  domain.ConfigInfo
	InitGlobalCalled bool
	InitLocalCalled  bool
}

// GetGlobalConfigInfo returns GlobalConfigInfo.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// GetLocalConfigInfo returns LocalConfigInfo.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// InitGlobalConfig records the call.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) (string, error) {
	m.InitGlobalCalled = true
	if m.InitErr != nil {
		return "", m.InitErr
	}
	return m.GlobalConfigInfo.Path, nil
}

// InitLocalConfig records the call.
func (m *MockConfigManager) InitLocalConfig(_ *domain.Config) (string, error) {
	m.InitLocalCalled = true
	if m.InitErr != nil {
		return "", m.InitErr
	}
	return m.LocalConfigInfo.Path, nil
}

// LogEntry is one line captured by MockLogger.
type LogEntry struct {
	Level    string
	UserID   string
	Category string
	Msg      string
}

// MockLogger records log lines.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) add(level, userID, category, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, UserID: userID, Category: category, Msg: msg})
}

// Info records an info line.
func (m *MockLogger) Info(userID, category, msg string) { m.add("info", userID, category, msg) }

// Debug records a debug line.
func (m *MockLogger) Debug(userID, category, msg string) { m.add("debug", userID, category, msg) }

// Warn records a warn line.
func (m *MockLogger) Warn(userID, category, msg string) { m.add("warn", userID, category, msg) }

// Error records an error line.
func (m *MockLogger) Error(userID, category, msg string) { m.add("error", userID, category, msg) }

// Count returns the number of lines recorded at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockBackend reports a fixed store selection.
type MockBackend struct {
	Info domain.StoreBackend
}

// Backend returns Info.
func (m *MockBackend) Backend() domain.StoreBackend {
	return m.Info
}

// MockAdvisorStatus reports whether an advisor is configured.
type MockAdvisorStatus struct {
	IsConfigured bool
}

// Configured returns IsConfigured.
func (m *MockAdvisorStatus) Configured() bool {
	return m.IsConfigured
}
