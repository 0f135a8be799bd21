package services

import (
	"net/url"
	"testing"
	"time"

	"yatube/app/forms"
	"yatube/app/repositories"
	"yatube/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (*AuthService, *mock.UserRepository, *mock.SessionRepository) {
	users := mock.NewUserRepository()
	sessions := mock.NewSessionRepository()
	return NewAuthService(users, sessions, time.Hour), users, sessions
}

func TestAuthService_CreateUser(t *testing.T) {
	service, _, _ := newAuthService()

	user, err := service.CreateUser("leo", "war-and-peace")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.True(t, user.CheckPassword("war-and-peace"))

	_, err = service.CreateUser("leo", "another")
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = service.CreateUser("bad name", "password")
	assert.Error(t, err)

	_, err = service.CreateUser("anna", "")
	assert.Error(t, err)
}

func TestAuthService_Register(t *testing.T) {
	service, _, _ := newAuthService()
	values := url.Values{
		"username":   {"leo"},
		"first_name": {"Leo"},
		"password1":  {"war-and-peace"},
		"password2":  {"war-and-peace"},
	}

	user, err := service.Register(forms.NewSignupForm(values))
	require.NoError(t, err)
	assert.Equal(t, "Leo", user.FirstName)

	form := forms.NewSignupForm(values)
	_, err = service.Register(form)
	assert.ErrorIs(t, err, forms.ErrInvalid)
	assert.True(t, form.Errors.Has("username"))
}

func TestAuthService_Login(t *testing.T) {
	service, _, _ := newAuthService()
	user, err := service.CreateUser("leo", "war-and-peace")
	require.NoError(t, err)

	tests := []struct {
		name     string
		values   url.Values
		wantErr  error
		nonField bool
	}{
		{"empty", url.Values{}, forms.ErrInvalid, false},
		{"unknown user", url.Values{"username": {"anna"}, "password": {"x"}}, ErrInvalidCredentials, true},
		{"wrong password", url.Values{"username": {"leo"}, "password": {"x"}}, ErrInvalidCredentials, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := forms.NewLoginForm(tt.values)
			session, err := service.Login(form)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, session)
			assert.Equal(t, tt.nonField, form.Errors.Has(forms.NonFieldErrors))
		})
	}

	t.Run("valid", func(t *testing.T) {
		form := forms.NewLoginForm(url.Values{"username": {"leo"}, "password": {"war-and-peace"}})
		session, err := service.Login(form)
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.UserID)
		assert.NotEmpty(t, session.Token)

		actor, err := service.Actor(session.Token)
		require.NoError(t, err)
		require.NotNil(t, actor)
		assert.Equal(t, "leo", actor.Username)

		require.NoError(t, service.Logout(session.Token))
		actor, err = service.Actor(session.Token)
		require.NoError(t, err)
		assert.Nil(t, actor)
	})
}

func TestAuthService_Actor(t *testing.T) {
	service, _, _ := newAuthService()

	actor, err := service.Actor("")
	require.NoError(t, err)
	assert.Nil(t, actor)

	actor, err = service.Actor("not-a-session")
	require.NoError(t, err)
	assert.Nil(t, actor)

	require.NoError(t, service.Logout(""))
}

func TestAuthService_DeleteUser(t *testing.T) {
	service, _, _ := newAuthService()
	user, err := service.CreateUser("leo", "war-and-peace")
	require.NoError(t, err)
	session, err := service.StartSession(user)
	require.NoError(t, err)

	require.NoError(t, service.DeleteUser("leo"))
	assert.ErrorIs(t, service.DeleteUser("leo"), repositories.ErrNotFound)

	// The session outlives the user in the mock store but no longer resolves
	actor, err := service.Actor(session.Token)
	require.NoError(t, err)
	assert.Nil(t, actor)
}
