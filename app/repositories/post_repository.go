package repositories

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db, now: time.Now}
}

// SetClock replaces the clock used to stamp publication dates
func (r *BadgerPostRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Create assigns an ID and publication date, then stores the post along with
// its author and group index entries.
func (r *BadgerPostRepository) Create(post *models.Post) error {
	post.BeforeCreate(r.now())
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	return update(r.db, func(txn *badger.Txn) error {
		if err := checkPostReferences(txn, post.AuthorID, post.GroupID); err != nil {
			return err
		}

		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		if err := setEntity(txn, postKey(post.ID), post); err != nil {
			return err
		}
		member := strconv.Itoa(post.ID)
		if err := txn.Set(indexKey(AuthorPostsIndex, post.AuthorID, member), nil); err != nil {
			return err
		}
		if post.GroupID != nil {
			return txn.Set(indexKey(GroupPostsIndex, *post.GroupID, member), nil)
		}
		return nil
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves the posts matching filter, newest first
func (r *BadgerPostRepository) List(filter PostFilter) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		prefix, ok := filterPrefix(filter)
		if !ok {
			var err error
			posts, err = scanPosts(txn)
			return err
		}

		members, err := scanIndex(txn, prefix)
		if err != nil {
			return err
		}
		for _, member := range members {
			id, err := strconv.Atoi(member)
			if err != nil {
				return fmt.Errorf("corrupt index key %q: %w", member, err)
			}
			var post models.Post
			if err := getEntity(txn, postKey(id), &post); err != nil {
				return fmt.Errorf("failed to load post %d: %w", id, err)
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortNewestFirst(posts)
	return posts, nil
}

// Count returns the number of posts matching filter without decoding them
func (r *BadgerPostRepository) Count(filter PostFilter) (int, error) {
	prefix, ok := filterPrefix(filter)
	if !ok {
		prefix = []byte(PostKeyPrefix)
	}

	var n int
	err := r.db.View(func(txn *badger.Txn) error {
		members, err := scanIndex(txn, prefix)
		n = len(members)
		return err
	})
	return n, err
}

// Update applies the editable fields of update to an existing post. The
// author and publication date are never touched.
func (r *BadgerPostRepository) Update(id int, upd models.PostUpdate) (*models.Post, error) {
	var post models.Post
	err := update(r.db, func(txn *badger.Txn) error {
		post = models.Post{}
		if err := getEntity(txn, postKey(id), &post); err != nil {
			return err
		}
		if err := checkPostReferences(txn, post.AuthorID, upd.GroupID); err != nil {
			return err
		}

		oldGroup := post.GroupID
		post.Apply(upd)
		if err := post.Validate(); err != nil {
			return fmt.Errorf("invalid post: %w", err)
		}

		member := strconv.Itoa(post.ID)
		if oldGroup != nil && !post.InGroup(*oldGroup) {
			if err := txn.Delete(indexKey(GroupPostsIndex, *oldGroup, member)); err != nil {
				return err
			}
		}
		if post.GroupID != nil {
			if err := txn.Set(indexKey(GroupPostsIndex, *post.GroupID, member), nil); err != nil {
				return err
			}
		}
		return setEntity(txn, postKey(post.ID), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func filterPrefix(filter PostFilter) ([]byte, bool) {
	switch {
	case filter.GroupID != nil:
		return indexPrefix(GroupPostsIndex, *filter.GroupID), true
	case filter.AuthorID != nil:
		return indexPrefix(AuthorPostsIndex, *filter.AuthorID), true
	default:
		return nil, false
	}
}

func scanPosts(txn *badger.Txn) ([]*models.Post, error) {
	prefix := []byte(PostKeyPrefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var posts []*models.Post
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var post models.Post
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal post: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, nil
}

func checkPostReferences(txn *badger.Txn, authorID int, groupID *int) error {
	ok, err := exists(txn, userKey(authorID))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("author %d: %w", authorID, ErrInvalidReference)
	}
	if groupID == nil {
		return nil
	}
	ok, err = exists(txn, groupKey(*groupID))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("group %d: %w", *groupID, ErrInvalidReference)
	}
	return nil
}

// deletePost removes a post record and all of its index entries.
func deletePost(txn *badger.Txn, id int) error {
	var post models.Post
	if err := getEntity(txn, postKey(id), &post); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	member := strconv.Itoa(id)
	if err := txn.Delete(indexKey(AuthorPostsIndex, post.AuthorID, member)); err != nil {
		return err
	}
	if post.GroupID != nil {
		if err := txn.Delete(indexKey(GroupPostsIndex, *post.GroupID, member)); err != nil {
			return err
		}
	}
	return txn.Delete(postKey(id))
}
