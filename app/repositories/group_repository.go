package repositories

import (
	"fmt"
	"sort"
	"strconv"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerGroupRepository implements GroupRepository using BadgerDB
type BadgerGroupRepository struct {
	db *badger.DB
}

// NewBadgerGroupRepository creates a new BadgerGroupRepository
func NewBadgerGroupRepository(db *badger.DB) *BadgerGroupRepository {
	return &BadgerGroupRepository{db: db}
}

// Create stores a new group. Slugs are unique.
func (r *BadgerGroupRepository) Create(group *models.Group) error {
	if err := group.Validate(); err != nil {
		return fmt.Errorf("invalid group: %w", err)
	}

	return update(r.db, func(txn *badger.Txn) error {
		taken, err := exists(txn, slugKey(group.Slug))
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("group %q: %w", group.Slug, ErrDuplicate)
		}

		id, err := getNextID(txn, GroupSeqKey)
		if err != nil {
			return err
		}
		group.ID = id

		if err := setEntity(txn, groupKey(group.ID), group); err != nil {
			return err
		}
		return txn.Set(slugKey(group.Slug), []byte(strconv.Itoa(group.ID)))
	})
}

// GetByID retrieves a group by ID
func (r *BadgerGroupRepository) GetByID(id int) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, groupKey(id), &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetBySlug retrieves a group by its slug
func (r *BadgerGroupRepository) GetBySlug(slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupID(txn, slugKey(slug))
		if err != nil {
			return err
		}
		return getEntity(txn, groupKey(id), &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns every group ordered by title
func (r *BadgerGroupRepository) List() ([]*models.Group, error) {
	var groups []*models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(GroupKeyPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var group models.Group
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &group)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal group: %w", err)
			}
			groups = append(groups, &group)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Title < groups[j].Title
	})
	return groups, nil
}

// Delete removes a group. Its posts survive with their group cleared.
func (r *BadgerGroupRepository) Delete(id int) error {
	return update(r.db, func(txn *badger.Txn) error {
		var group models.Group
		if err := getEntity(txn, groupKey(id), &group); err != nil {
			return err
		}

		members, err := scanIndex(txn, indexPrefix(GroupPostsIndex, id))
		if err != nil {
			return err
		}
		for _, member := range members {
			postID, err := strconv.Atoi(member)
			if err != nil {
				return fmt.Errorf("corrupt index key %q: %w", member, err)
			}
			var post models.Post
			if err := getEntity(txn, postKey(postID), &post); err != nil {
				return fmt.Errorf("failed to load post %d: %w", postID, err)
			}
			post.GroupID = nil
			if err := setEntity(txn, postKey(postID), &post); err != nil {
				return err
			}
			if err := txn.Delete(indexKey(GroupPostsIndex, id, member)); err != nil {
				return err
			}
		}

		if err := txn.Delete(slugKey(group.Slug)); err != nil {
			return err
		}
		return txn.Delete(groupKey(id))
	})
}

// lookupID reads an integer id stored as the value of a unique lookup key.
func lookupID(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		id, err = strconv.Atoi(string(val))
		return err
	})
	return id, err
}
