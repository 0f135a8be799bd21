package services

import (
	"errors"
	"fmt"
	"time"

	"yatube/app/forms"
	"yatube/app/models"
	"yatube/app/repositories"
)

// AuthService registers users and manages their login sessions
type AuthService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	ttl         time.Duration
}

// NewAuthService creates a new AuthService. Sessions live for ttl.
func NewAuthService(userRepo repositories.UserRepository, sessionRepo repositories.SessionRepository, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		ttl:         ttl,
	}
}

// TTL returns how long a new session stays valid.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

// CreateUser stores a user with a hashed password.
func (s *AuthService) CreateUser(username, password string) (*models.User, error) {
	user := &models.User{Username: username}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("invalid user: %w", err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register creates a user from the signup form. A taken username is
// reported on the form and returns forms.ErrInvalid.
func (s *AuthService) Register(form *forms.SignupForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}
	if err := user.SetPassword(form.Password1); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			form.Errors["username"] = "A user with that username already exists."
			return nil, forms.ErrInvalid
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks a username/password pair.
func (s *AuthService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Login validates the login form and opens a session. Bad credentials are
// reported on the form and return ErrInvalidCredentials.
func (s *AuthService) Login(form *forms.LoginForm) (*models.Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := s.Authenticate(form.Username, form.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		form.Errors[forms.NonFieldErrors] = "Please enter a correct username and password. Note that both fields may be case-sensitive."
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	return s.StartSession(user)
}

// StartSession opens a new session for user.
func (s *AuthService) StartSession(user *models.User) (*models.Session, error) {
	session, err := s.sessionRepo.Create(user.ID, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Logout ends the session identified by token. Unknown tokens are ignored.
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(token)
}

// Actor resolves a session token to its user. Missing, expired or orphaned
// sessions yield a nil user and no error.
func (s *AuthService) Actor(token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.Get(token)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	user, err := s.userRepo.GetByID(session.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session user: %w", err)
	}
	return user, nil
}

// DeleteUser removes a user along with their posts and sessions.
func (s *AuthService) DeleteUser(username string) error {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return err
	}
	return s.userRepo.Delete(user.ID)
}
