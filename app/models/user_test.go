package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPassword(t *testing.T) {
	user := &User{Username: "auth"}

	assert.False(t, user.CheckPassword("anything"))
	assert.Error(t, user.SetPassword(""))

	require.NoError(t, user.SetPassword("s3cret-pass"))
	assert.NotEqual(t, []byte("s3cret-pass"), user.PasswordHash)
	assert.True(t, user.CheckPassword("s3cret-pass"))
	assert.False(t, user.CheckPassword("wrong"))
}

func TestUserValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{name: "valid", username: "leo.tolstoy", password: "pw", wantErr: false},
		{name: "email style", username: "leo@example.com", password: "pw", wantErr: false},
		{name: "empty username", username: "", password: "pw", wantErr: true},
		{name: "space in username", username: "leo tolstoy", password: "pw", wantErr: true},
		{name: "no password", username: "leo", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Username: tt.username}
			if tt.password != "" {
				require.NoError(t, user.SetPassword(tt.password))
			}
			err := user.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "auth", (&User{Username: "auth"}).FullName())
	assert.Equal(t, "Lev Tolstoy", (&User{Username: "auth", FirstName: "Lev", LastName: "Tolstoy"}).FullName())
}
