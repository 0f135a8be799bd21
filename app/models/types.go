package models

import "time"

// Group is a topical collection of posts.
type Group struct {
	ID          int    `json:"id"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
}

// Post is a text entry written by a user, optionally filed under a group.
// Author and Group are populated by the service layer and never stored.
type Post struct {
	ID       int       `json:"id"`
	Text     string    `json:"text" validate:"required,notblank"`
	PubDate  time.Time `json:"pub_date"`
	AuthorID int       `json:"author_id" validate:"required,gt=0"`
	GroupID  *int      `json:"group_id,omitempty"`

	Author *User  `json:"-" validate:"-"`
	Group  *Group `json:"-" validate:"-"`
}

// PostUpdate carries the only fields an edit may change.
type PostUpdate struct {
	Text    string
	GroupID *int
}

// User is a registered author.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username" validate:"required,max=150,username"`
	PasswordHash []byte    `json:"password_hash" validate:"-"`
	FirstName    string    `json:"first_name" validate:"max=150"`
	LastName     string    `json:"last_name" validate:"max=150"`
	DateJoined   time.Time `json:"date_joined"`
}

// Session binds an opaque cookie token to a user until it expires.
type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
