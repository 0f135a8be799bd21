package repositories

import (
	"errors"
	"testing"
	"time"

	"yatube/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository(t *testing.T) {
	store := setupTestStore(t)
	base := time.Date(2021, 12, 4, 7, 45, 0, 0, time.UTC)
	store.Posts.SetClock(fixedClock(base, time.Second))

	author := createTestUser(t, store, "auth")
	other := createTestUser(t, store, "somebody")
	group := createTestGroup(t, store, "test-slug")
	group2 := createTestGroup(t, store, "test-slug2")

	var created *models.Post

	t.Run("create and get post", func(t *testing.T) {
		post := &models.Post{Text: "Текст ТЕСТОВЫЙ", AuthorID: author.ID, GroupID: &group.ID}
		require.NoError(t, store.Posts.Create(post))
		assert.Equal(t, 1, post.ID)
		assert.Equal(t, base, post.PubDate)

		got, err := store.Posts.GetByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.Text, got.Text)
		assert.Equal(t, author.ID, got.AuthorID)
		assert.True(t, got.InGroup(group.ID))
		assert.True(t, got.PubDate.Equal(base))
		created = got
	})

	t.Run("get missing post", func(t *testing.T) {
		_, err := store.Posts.GetByID(999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("create rejects unknown references", func(t *testing.T) {
		missing := 42
		err := store.Posts.Create(&models.Post{Text: "x", AuthorID: author.ID, GroupID: &missing})
		assert.ErrorIs(t, err, ErrInvalidReference)

		err = store.Posts.Create(&models.Post{Text: "x", AuthorID: 42})
		assert.ErrorIs(t, err, ErrInvalidReference)
	})

	t.Run("create rejects empty text", func(t *testing.T) {
		err := store.Posts.Create(&models.Post{Text: "   ", AuthorID: author.ID})
		assert.Error(t, err)

		n, err := store.Posts.Count(PostFilter{})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("list filters and orders newest first", func(t *testing.T) {
		require.NoError(t, store.Posts.Create(&models.Post{Text: "second", AuthorID: other.ID, GroupID: &group2.ID}))
		require.NoError(t, store.Posts.Create(&models.Post{Text: "third", AuthorID: author.ID}))

		all, err := store.Posts.List(PostFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "third", all[0].Text)
		assert.Equal(t, "second", all[1].Text)
		assert.Equal(t, created.Text, all[2].Text)

		inGroup, err := store.Posts.List(ByGroup(group.ID))
		require.NoError(t, err)
		require.Len(t, inGroup, 1)
		assert.Equal(t, created.ID, inGroup[0].ID)

		inGroup2, err := store.Posts.List(ByGroup(group2.ID))
		require.NoError(t, err)
		require.Len(t, inGroup2, 1)
		assert.Equal(t, "second", inGroup2[0].Text)

		byAuthor, err := store.Posts.List(ByAuthor(author.ID))
		require.NoError(t, err)
		require.Len(t, byAuthor, 2)
		assert.Equal(t, "third", byAuthor[0].Text)

		n, err := store.Posts.Count(ByAuthor(author.ID))
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})

	t.Run("update keeps author and pub date", func(t *testing.T) {
		updated, err := store.Posts.Update(created.ID, models.PostUpdate{Text: "ИЗМЕНЕННЫЙ ТЕКСТ", GroupID: &group2.ID})
		require.NoError(t, err)
		assert.Equal(t, "ИЗМЕНЕННЫЙ ТЕКСТ", updated.Text)
		assert.Equal(t, author.ID, updated.AuthorID)
		assert.True(t, updated.PubDate.Equal(created.PubDate))

		inGroup, err := store.Posts.List(ByGroup(group.ID))
		require.NoError(t, err)
		assert.Empty(t, inGroup, "old group index must be dropped")

		inGroup2, err := store.Posts.List(ByGroup(group2.ID))
		require.NoError(t, err)
		assert.Len(t, inGroup2, 2)
	})

	t.Run("update can clear group", func(t *testing.T) {
		updated, err := store.Posts.Update(created.ID, models.PostUpdate{Text: "no group"})
		require.NoError(t, err)
		assert.False(t, updated.HasGroup())

		got, err := store.Posts.GetByID(created.ID)
		require.NoError(t, err)
		assert.False(t, got.HasGroup())
	})

	t.Run("update missing post", func(t *testing.T) {
		_, err := store.Posts.Update(999, models.PostUpdate{Text: "x"})
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("update rejects empty text", func(t *testing.T) {
		_, err := store.Posts.Update(created.ID, models.PostUpdate{Text: ""})
		assert.Error(t, err)

		got, err := store.Posts.GetByID(created.ID)
		require.NoError(t, err)
		assert.Equal(t, "no group", got.Text)
	})
}

func TestPostRepositorySamePubDate(t *testing.T) {
	store := setupTestStore(t)
	same := time.Date(2021, 11, 16, 17, 9, 0, 0, time.UTC)
	store.Posts.SetClock(func() time.Time { return same })
	author := createTestUser(t, store, "auth")

	for _, text := range []string{"a", "b", "c"} {
		require.NoError(t, store.Posts.Create(&models.Post{Text: text, AuthorID: author.ID}))
	}

	posts, err := store.Posts.List(PostFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "c", posts[0].Text)
	assert.Equal(t, "b", posts[1].Text)
	assert.Equal(t, "a", posts[2].Text)
}
