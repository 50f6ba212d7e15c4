package sqlstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/storetest"
)

func newMemory(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Contract_SQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) domain.Store {
		return newMemory(t)
	})
}

func TestOpen_FileReopensWithoutRemigrating(t *testing.T) {
	ctx := context.Background()
	uri := "sqlite://" + filepath.Join(t.TempDir(), "data", "focus.db")

	first, err := Open(ctx, uri)
	require.NoError(t, err)
	_, err = first.CreateTask(ctx, domain.Task{ID: "t1", UserID: "u1", Text: "keep", Date: "2026-03-10", System: domain.SystemShort, Duration: 1500, Remaining: 1500})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, uri)
	require.NoError(t, err)
	defer second.Close()

	tasks, err := second.ListTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "keep", tasks[0].Text)
	assert.Equal(t, DialectSQLite, second.Dialect())
}

func TestOpen_UpgradesHistoryToArchiveKinds(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "focus.db")

	db, err := sql.Open(string(DialectSQLite), path)
	require.NoError(t, err)
	initDDL, err := migrationFiles.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, string(initDDL))
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE TABLE schema_migrations (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL);
		INSERT INTO schema_migrations (version, applied_at) VALUES (1, '2026-03-01T00:00:00.000000000Z');
		INSERT INTO history (id, user_id, task_id, title, scheduled_on, task_system, duration, completed_at, archived_at)
		VALUES ('h1', 'u1', 't1', 'write', '2026-03-11', 'short', 1500,
			'2026-03-10T09:00:00.000000000Z', '2026-03-10T09:00:00.000000000Z');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(ctx, "sqlite://"+path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.ListHistory(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.ArchiveCompletion, got[0].Kind)

	rolled := got[0]
	rolled.ID, rolled.Kind, rolled.Date = "h2", domain.ArchiveRollover, "2026-03-10"
	require.NoError(t, s.AppendHistory(ctx, "u1", []domain.HistoryEntry{rolled}))
	got, err = s.ListHistory(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		dialect Dialect
		dsn     string
		wantErr bool
	}{
		{uri: "postgres://u:p@localhost/focus", dialect: DialectPostgres, dsn: "postgres://u:p@localhost/focus"},
		{uri: "postgresql://localhost/focus", dialect: DialectPostgres, dsn: "postgresql://localhost/focus"},
		{uri: "sqlite:///var/lib/focus.db", dialect: DialectSQLite, dsn: "/var/lib/focus.db"},
		{uri: "file:focus.db?cache=shared", dialect: DialectSQLite, dsn: "file:focus.db?cache=shared"},
		{uri: "sqlite://", wantErr: true},
		{uri: "mongodb://localhost", wantErr: true},
		{uri: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			dialect, dsn, err := parseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, IsURI(tt.uri))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, dialect)
			assert.Equal(t, tt.dsn, dsn)
			assert.True(t, IsURI(tt.uri))
		})
	}
}

func TestQ_RebindsForPostgres(t *testing.T) {
	pg := &Store{dialect: DialectPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", pg.q("SELECT a FROM t WHERE x = ? AND y = ?"))

	lite := &Store{dialect: DialectSQLite}
	assert.Equal(t, "x = ?", lite.q("x = ?"))
}

func TestCreateUser_NormalizesEmail(t *testing.T) {
	ctx := context.Background()
	s := newMemory(t)
	u := &domain.User{ID: "u1", Username: "sam", Email: "  Sam@Example.COM ", PasswordHash: "h"}
	require.NoError(t, s.CreateUser(ctx, u))
	assert.Equal(t, "sam@example.com", u.Email)

	_, err := s.FindUser(ctx, domain.UserLookup{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
