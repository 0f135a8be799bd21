package services

import "errors"

var (
	// ErrUnauthenticated is returned when an anonymous actor attempts a
	// mutation that requires login.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrNotOwner is returned when an actor edits a post written by someone else.
	ErrNotOwner = errors.New("only the author can edit this post")
	// ErrInvalidCredentials is returned when a username/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
