// Package dualstore picks the persistence backend once per process: the
// configured remote store when it answers a probe, otherwise the local JSON store.
package dualstore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/runoshun/focusday/internal/domain"
	"github.com/runoshun/focusday/internal/infra/jsonstore"
	"github.com/runoshun/focusday/internal/infra/logging"
	"github.com/runoshun/focusday/internal/infra/mongostore"
	"github.com/runoshun/focusday/internal/infra/sqlstore"
)

// Backend kinds.
const (
	KindMongo    = "mongo"
	KindPostgres = "postgres"
	KindSQLite   = "sqlite"
	KindJSON     = "json"
)

// Backend describes the store a process ended up on.
type Backend = domain.StoreBackend

// Ensure Store implements domain.CredentialVerifier.
var _ domain.CredentialVerifier = (*Store)(nil)

// Store is a domain.Store plus the selection outcome and credential checks.
type Store struct {
	domain.Store
	hasher  domain.PasswordHasher
	backend Backend
}

// Options configures Open.
type Options struct {
	Hasher  domain.PasswordHasher
	Logger  domain.Logger
	DataDir string // default location of the local JSON file
	Config  domain.StoreConfig
}

// Open probes the configured remote store once and falls back to the local store.
// It never fails: the JSON store is always available.
func Open(ctx context.Context, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = logging.Nop{}
	}
	cfg := opts.Config

	if cfg.RemoteURI != "" {
		remote, kind, err := openRemote(ctx, cfg)
		if err == nil {
			log.Info("", "store", fmt.Sprintf("using remote %s store", kind))
			return &Store{
				Store:   remote,
				hasher:  opts.Hasher,
				backend: Backend{Mode: domain.StoreModeRemote, Kind: kind, Reachable: true},
			}
		}
		log.Warn("", "store", fmt.Sprintf("%v: %v; using local store", domain.ErrStoreUnavailable, err))
	} else {
		log.Warn("", "store", fmt.Sprintf("%v: no remote uri configured; using local store", domain.ErrStoreUnavailable))
	}

	if cfg.Volatile {
		log.Info("", "store", "local store is in memory; data will not survive the process")
		return &Store{
			Store:   jsonstore.NewVolatile(log),
			hasher:  opts.Hasher,
			backend: Backend{Mode: domain.StoreModeVolatile, Kind: KindJSON},
		}
	}

	path := cfg.LocalPath
	if path == "" {
		path = filepath.Join(opts.DataDir, domain.DefaultLocalStoreFile)
	}
	return &Store{
		Store:   jsonstore.New(path, log),
		hasher:  opts.Hasher,
		backend: Backend{Mode: domain.StoreModeFile, Kind: KindJSON, Path: path},
	}
}

func openRemote(ctx context.Context, cfg domain.StoreConfig) (domain.Store, string, error) {
	timeout := cfg.ConnectTimeout()
	switch {
	case mongostore.IsURI(cfg.RemoteURI):
		database := cfg.Database
		if database == "" {
			database = domain.DefaultDatabaseName
		}
		s, err := mongostore.Open(ctx, cfg.RemoteURI, database, timeout)
		return s, KindMongo, err
	case sqlstore.IsURI(cfg.RemoteURI):
		probeCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		s, err := sqlstore.Open(probeCtx, cfg.RemoteURI)
		if err != nil {
			return nil, "", err
		}
		kind := KindSQLite
		if s.Dialect() == sqlstore.DialectPostgres {
			kind = KindPostgres
		}
		return s, kind, nil
	}
	return nil, "", errors.New("unsupported remote uri scheme")
}

// Backend returns the selection outcome with the current mode.
func (s *Store) Backend() Backend {
	b := s.backend
	b.Mode = s.Mode()
	return b
}

// Mode returns the active store mode. A durable JSON store that degraded to
// memory after a write failure reports StoreModeVolatile.
func (s *Store) Mode() domain.StoreMode {
	if js, ok := s.Store.(*jsonstore.Store); ok && js.Volatile() {
		return domain.StoreModeVolatile
	}
	return s.backend.Mode
}

// VerifyCredential returns the user with email when password matches.
func (s *Store) VerifyCredential(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.FindUser(ctx, domain.UserLookup{Email: email})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}
