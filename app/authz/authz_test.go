package authz

import (
	"testing"

	"yatube/app/models"

	"github.com/stretchr/testify/assert"
)

func TestCanEdit(t *testing.T) {
	author := &models.User{ID: 1, Username: "auth"}
	other := &models.User{ID: 2, Username: "somebody"}
	post := &models.Post{ID: 10, AuthorID: author.ID, Text: "Тест"}

	tests := []struct {
		name  string
		actor *models.User
		post  *models.Post
		want  bool
	}{
		{name: "author", actor: author, post: post, want: true},
		{name: "other user", actor: other, post: post, want: false},
		{name: "anonymous", actor: nil, post: post, want: false},
		{name: "unsaved user", actor: &models.User{Username: "ghost"}, post: &models.Post{}, want: false},
		{name: "missing post", actor: author, post: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanEdit(tt.actor, tt.post))
		})
	}
}

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(&models.User{ID: 3}))
	assert.False(t, CanCreate(nil))
}
