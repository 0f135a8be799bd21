package repositories

import (
	"fmt"
	"strconv"
	"time"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db, now: time.Now}
}

// Create stores a new user. Usernames are unique.
func (r *BadgerUserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = r.now()
	}

	return update(r.db, func(txn *badger.Txn) error {
		taken, err := exists(txn, usernameKey(user.Username))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("user %q: %w", user.Username, ErrDuplicate)
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		if err := setEntity(txn, userKey(user.ID), user); err != nil {
			return err
		}
		return txn.Set(usernameKey(user.Username), []byte(strconv.Itoa(user.ID)))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupID(txn, usernameKey(username))
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user together with every post they wrote and every
// session they hold.
func (r *BadgerUserRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		var user models.User
		if err := getEntity(txn, userKey(id), &user); err != nil {
			return err
		}

		posts, err := scanIndex(txn, indexPrefix(AuthorPostsIndex, id))
		if err != nil {
			return err
		}
		for _, member := range posts {
			postID, err := strconv.Atoi(member)
			if err != nil {
				return fmt.Errorf("corrupt index key %q: %w", member, err)
			}
			if err := deletePost(txn, postID); err != nil {
				return fmt.Errorf("failed to delete post %d: %w", postID, err)
			}
		}

		tokens, err := scanIndex(txn, indexPrefix(UserSessionsIndex, id))
		if err != nil {
			return err
		}
		for _, token := range tokens {
			if err := txn.Delete(sessionKey(token)); err != nil {
				return err
			}
			if err := txn.Delete(indexKey(UserSessionsIndex, id, token)); err != nil {
				return err
			}
		}

		if err := txn.Delete(usernameKey(user.Username)); err != nil {
			return err
		}
		return txn.Delete(userKey(id))
	})
}
