package controllers

import (
	"errors"
	"net/http"
	"time"

	"yatube/app/forms"
	"yatube/app/middleware"
	"yatube/app/models"
	"yatube/app/services"
)

// CookieOptions configures the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
}

// AuthController handles login, logout and signup
type AuthController struct {
	*Renderer
	authService *services.AuthService
	cookie      CookieOptions
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookie CookieOptions, renderer *Renderer) *AuthController {
	return &AuthController{
		Renderer:    renderer,
		authService: authService,
		cookie:      cookie,
	}
}

// Login shows the login form and opens a session on valid credentials
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		form := &forms.LoginForm{Next: r.URL.Query().Get("next"), Errors: forms.Errors{}}
		ac.renderLogin(w, r, form)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := forms.NewLoginForm(r.PostForm)
	session, err := ac.authService.Login(form)
	switch {
	case errors.Is(err, forms.ErrInvalid), errors.Is(err, services.ErrInvalidCredentials):
		ac.renderLogin(w, r, form)
		return
	case err != nil:
		ac.serverError(w, r, err)
		return
	}

	ac.setSession(w, session)
	http.Redirect(w, r, middleware.SafeNext(form.Next, "/"), http.StatusFound)
}

// Logout ends the current session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(ac.cookie.Name); err == nil {
		if err := ac.authService.Logout(cookie.Value); err != nil {
			ac.serverError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   ac.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Signup registers a new author and logs them in
func (ac *AuthController) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ac.renderSignup(w, r, &forms.SignupForm{Errors: forms.Errors{}})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	form := forms.NewSignupForm(r.PostForm)
	user, err := ac.authService.Register(form)
	if errors.Is(err, forms.ErrInvalid) {
		ac.renderSignup(w, r, form)
		return
	}
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	session, err := ac.authService.StartSession(user)
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	ac.setSession(w, session)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (ac *AuthController) setSession(w http.ResponseWriter, session *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     ac.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   ac.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (ac *AuthController) renderLogin(w http.ResponseWriter, r *http.Request, form *forms.LoginForm) {
	data := struct {
		viewData
		Form *forms.LoginForm
	}{
		viewData: ac.view(r),
		Form:     form,
	}
	ac.render(w, r, "login", http.StatusOK, data)
}

func (ac *AuthController) renderSignup(w http.ResponseWriter, r *http.Request, form *forms.SignupForm) {
	data := struct {
		viewData
		Form *forms.SignupForm
	}{
		viewData: ac.view(r),
		Form:     form,
	}
	ac.render(w, r, "signup", http.StatusOK, data)
}
