package repositories

import (
	"testing"
	"time"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func createTestUser(t *testing.T, store *Store, username string) *models.User {
	user := &models.User{Username: username}
	require.NoError(t, user.SetPassword("password"))
	require.NoError(t, store.Users.Create(user))
	return user
}

func createTestGroup(t *testing.T, store *Store, slug string) *models.Group {
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug}
	require.NoError(t, store.Groups.Create(group))
	return group
}

// fixedClock returns a clock that advances by step on every call.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func TestGetNextID(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	defer db.Close()

	t.Run("first ID", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, PostSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, 1, id)
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("sequential IDs", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			for i := 2; i <= 5; i++ {
				id, err := getNextID(txn, PostSeqKey)
				assert.NoError(t, err)
				assert.Equal(t, i, id)
			}
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("different sequence keys", func(t *testing.T) {
		err := db.Update(func(txn *badger.Txn) error {
			id, err := getNextID(txn, GroupSeqKey)
			assert.NoError(t, err)
			assert.Equal(t, 1, id, "group sequence should start from 1")
			return nil
		})
		assert.NoError(t, err)
	})

	t.Run("past 255", func(t *testing.T) {
		var last int
		err := db.Update(func(txn *badger.Txn) error {
			for i := 0; i < 300; i++ {
				id, err := getNextID(txn, "seq:test")
				if err != nil {
					return err
				}
				last = id
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 300, last)
	})
}

func TestUnmarshalEntity(t *testing.T) {
	t.Run("post with group", func(t *testing.T) {
		var post models.Post
		err := unmarshalEntity([]byte(`{"id":1,"text":"hi","author_id":2,"group_id":3}`), &post)
		assert.NoError(t, err)
		assert.Equal(t, 2, post.AuthorID)
		assert.True(t, post.InGroup(3))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		var post models.Post
		assert.Error(t, unmarshalEntity([]byte(`{"id":1,invalid json}`), &post))
	})
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2021, 10, 18, 18, 23, 0, 0, time.UTC)
	posts := []*models.Post{
		{ID: 1, PubDate: base},
		{ID: 2, PubDate: base.Add(time.Minute)},
		{ID: 3, PubDate: base},
		{ID: 4, PubDate: base.Add(-time.Minute)},
	}

	sortNewestFirst(posts)

	var ids []int
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []int{2, 3, 1, 4}, ids)
}
