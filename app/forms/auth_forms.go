package forms

import (
	"net/url"
	"strings"
)

// LoginForm is the username/password pair of the login page.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next" validate:"-"`
	Errors   Errors `form:"-" validate:"-"`
}

// NewLoginForm binds submitted values.
func NewLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(values.Get("username")),
		Password: values.Get("password"),
		Next:     values.Get("next"),
		Errors:   Errors{},
	}
}

// Validate checks that both fields are present.
func (f *LoginForm) Validate() error {
	if err := collect(validate.Struct(f), f.Errors); err != nil {
		return err
	}
	if len(f.Errors) > 0 {
		return ErrInvalid
	}
	return nil
}

// SignupForm registers a new author.
type SignupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
	Errors    Errors `form:"-" validate:"-"`
}

// NewSignupForm binds submitted values.
func NewSignupForm(values url.Values) *SignupForm {
	return &SignupForm{
		FirstName: strings.TrimSpace(values.Get("first_name")),
		LastName:  strings.TrimSpace(values.Get("last_name")),
		Username:  strings.TrimSpace(values.Get("username")),
		Password1: values.Get("password1"),
		Password2: values.Get("password2"),
		Errors:    Errors{},
	}
}

// Validate checks field formats and that both passwords match.
func (f *SignupForm) Validate() error {
	if err := collect(validate.Struct(f), f.Errors); err != nil {
		return err
	}
	if len(f.Errors) > 0 {
		return ErrInvalid
	}
	return nil
}
