package repositories

import (
	"time"

	"yatube/app/models"
)

// PostFilter narrows a post listing. At most one field is expected to be set;
// a zero filter selects every post.
type PostFilter struct {
	GroupID  *int
	AuthorID *int
}

// ByGroup selects the posts filed under a group.
func ByGroup(groupID int) PostFilter {
	return PostFilter{GroupID: &groupID}
}

// ByAuthor selects the posts written by a user.
func ByAuthor(userID int) PostFilter {
	return PostFilter{AuthorID: &userID}
}

// PostRepository defines the interface for post data access.
// List always returns posts newest first.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	List(filter PostFilter) ([]*models.Post, error)
	Count(filter PostFilter) (int, error)
	Update(id int, update models.PostUpdate) (*models.Post, error)
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	Create(group *models.Group) error
	GetByID(id int) (*models.Group, error)
	GetBySlug(slug string) (*models.Group, error)
	List() ([]*models.Group, error)
	Delete(id int) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Delete(id int) error
}

// SessionRepository defines the interface for login session storage
type SessionRepository interface {
	Create(userID int, ttl time.Duration) (*models.Session, error)
	Get(token string) (*models.Session, error)
	Delete(token string) error
}
