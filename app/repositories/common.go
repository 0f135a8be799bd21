package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicate        = errors.New("record already exists")
	ErrInvalidReference = errors.New("referenced record does not exist")
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix    = "post:"
	GroupKeyPrefix   = "group:"
	UserKeyPrefix    = "user:"
	SessionKeyPrefix = "session:"

	// Unique lookups
	SlugKeyPrefix     = "slug:"
	UsernameKeyPrefix = "username:"

	// Secondary indexes; the owning id is followed by the member id
	GroupPostsIndex   = "idx:group:"
	AuthorPostsIndex  = "idx:author:"
	UserSessionsIndex = "idx:session:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey  = "seq:post"
	GroupSeqKey = "seq:group"
	UserSeqKey  = "seq:user"

	maxConflictRetries = 5
)

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		id = 1
	} else if err != nil {
		return 0, fmt.Errorf("failed to get sequence: %w", err)
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %q", seqKey)
			}
			id = int(binary.BigEndian.Uint64(val))
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	if err := txn.Set([]byte(seqKey), buf); err != nil {
		return 0, fmt.Errorf("failed to update sequence: %w", err)
	}

	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the record stored at key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity marshals entity and writes it at key.
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// update runs fn in a read-write transaction, retrying on write conflicts so
// that the last concurrent writer wins.
func update(db *badger.DB, fn func(txn *badger.Txn) error) error {
	var err error
	for i := 0; i < maxConflictRetries; i++ {
		err = db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// indexPrefix builds "<index><owner>:".
func indexPrefix(index string, ownerID int) []byte {
	return []byte(index + strconv.Itoa(ownerID) + ":")
}

// indexKey builds "<index><owner>:<member>".
func indexKey(index string, ownerID int, member string) []byte {
	return []byte(index + strconv.Itoa(ownerID) + ":" + member)
}

// scanIndex returns the member part of every key under the given prefix.
// Values are not fetched.
func scanIndex(txn *badger.Txn, prefix []byte) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var members []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		members = append(members, strings.TrimPrefix(string(it.Item().Key()), string(prefix)))
	}
	return members, nil
}

func postKey(id int) []byte {
	return []byte(PostKeyPrefix + strconv.Itoa(id))
}

func groupKey(id int) []byte {
	return []byte(GroupKeyPrefix + strconv.Itoa(id))
}

func userKey(id int) []byte {
	return []byte(UserKeyPrefix + strconv.Itoa(id))
}

func slugKey(slug string) []byte {
	return []byte(SlugKeyPrefix + slug)
}

func usernameKey(username string) []byte {
	return []byte(UsernameKeyPrefix + username)
}

func sessionKey(token string) []byte {
	return []byte(SessionKeyPrefix + token)
}

// sortNewestFirst orders posts by publication date, newest first. Posts
// published at the same instant keep insertion order, most recent first.
func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].PubDate.After(posts[j].PubDate)
		}
		return posts[i].ID > posts[j].ID
	})
}
