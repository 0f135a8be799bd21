package repositories

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// Options controls how the Badger database is opened
type Options struct {
	Path       string
	InMemory   bool
	SyncWrites bool
	Logger     *zap.Logger
}

// Open opens (or creates) the Badger database described by opts
func Open(opts Options) (*badger.DB, error) {
	path := opts.Path
	if opts.InMemory {
		path = ""
	}
	bopts := badger.DefaultOptions(path).
		WithInMemory(opts.InMemory).
		WithSyncWrites(opts.SyncWrites).
		WithNumVersionsToKeep(1).
		WithLogger(nil)
	if opts.Logger != nil {
		bopts = bopts.WithLogger(badgerLogger{opts.Logger.Named("badger").Sugar()})
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return db, nil
}

// Store bundles the repositories that share one database
type Store struct {
	DB       *badger.DB
	Posts    *BadgerPostRepository
	Groups   *BadgerGroupRepository
	Users    *BadgerUserRepository
	Sessions *BadgerSessionRepository
}

// NewStore wires every repository to db
func NewStore(db *badger.DB) *Store {
	return &Store{
		DB:       db,
		Posts:    NewBadgerPostRepository(db),
		Groups:   NewBadgerGroupRepository(db),
		Users:    NewBadgerUserRepository(db),
		Sessions: NewBadgerSessionRepository(db),
	}
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.DB.Close()
}

// badgerLogger adapts zap to badger.Logger, which spells Warningf differently.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
