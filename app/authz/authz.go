// Package authz decides what the current actor may do with posts.
// A nil actor is anonymous.
package authz

import "yatube/app/models"

// Authenticated reports whether actor is a logged-in user.
func Authenticated(actor *models.User) bool {
	return actor != nil && actor.ID > 0
}

// CanCreate reports whether actor may publish a new post.
func CanCreate(actor *models.User) bool {
	return Authenticated(actor)
}

// CanEdit reports whether actor may edit post. Only the author may.
func CanEdit(actor *models.User, post *models.Post) bool {
	if !Authenticated(actor) || post == nil {
		return false
	}
	return actor.ID == post.AuthorID
}
