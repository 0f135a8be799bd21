package repositories

import (
	"errors"
	"fmt"
	"time"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// BadgerSessionRepository stores login sessions as Badger entries that expire
// on their own.
type BadgerSessionRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB) *BadgerSessionRepository {
	return &BadgerSessionRepository{db: db, now: time.Now}
}

// SetClock replaces the clock used for expiry checks
func (r *BadgerSessionRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Create opens a session for userID valid for ttl
func (r *BadgerSessionRepository) Create(userID int, ttl time.Duration) (*models.Session, error) {
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: r.now().Add(ttl),
	}

	err := update(r.db, func(txn *badger.Txn) error {
		ok, err := exists(txn, userKey(userID))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %d: %w", userID, ErrInvalidReference)
		}

		data, err := marshalEntity(session)
		if err != nil {
			return err
		}
		if err := txn.SetEntry(badger.NewEntry(sessionKey(session.Token), data).WithTTL(ttl)); err != nil {
			return err
		}
		return txn.SetEntry(badger.NewEntry(indexKey(UserSessionsIndex, userID, session.Token), nil).WithTTL(ttl))
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the live session for token
func (r *BadgerSessionRepository) Get(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var session models.Session
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, sessionKey(token), &session)
	})
	if err != nil {
		return nil, err
	}
	if session.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &session, nil
}

// Delete ends the session for token. Deleting an unknown token is not an error.
func (r *BadgerSessionRepository) Delete(token string) error {
	return update(r.db, func(txn *badger.Txn) error {
		var session models.Session
		err := getEntity(txn, sessionKey(token), &session)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := txn.Delete(indexKey(UserSessionsIndex, session.UserID, token)); err != nil {
			return err
		}
		return txn.Delete(sessionKey(token))
	})
}
