package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"yatube/app/authz"
	"yatube/app/models"

	"go.uber.org/zap"
)

// LoginPath is where anonymous users are sent to sign in.
const LoginPath = "/auth/login/"

type contextKey struct{}

var actorKey = contextKey{}

// ActorResolver maps a session token to the logged-in user. A nil user
// means the token does not identify anyone.
type ActorResolver interface {
	Actor(token string) (*models.User, error)
}

// WithActor returns a copy of ctx carrying actor.
func WithActor(ctx context.Context, actor *models.User) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the user attached by Authenticate, or nil for anonymous requests.
func ActorFrom(ctx context.Context) *models.User {
	actor, _ := ctx.Value(actorKey).(*models.User)
	return actor
}

// Authenticate resolves the session cookie once per request and stores the
// actor in the request context. Lookup failures are logged and the request
// continues anonymously.
func Authenticate(resolver ActorResolver, cookieName string, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			actor, err := resolver.Actor(cookie.Value)
			if err != nil {
				log.Warn("failed to resolve session", zap.Error(err), zap.String("path", r.URL.Path))
			}
			if actor != nil {
				r = r.WithContext(WithActor(r.Context(), actor))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireLogin redirects anonymous requests to the login page with a next
// parameter pointing back at the requested URL.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authz.Authenticated(ActorFrom(r.Context())) {
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginURL builds the login redirect for next. Slashes are left readable,
// as in /auth/login/?next=/create/.
func LoginURL(next string) string {
	return LoginPath + "?next=" + strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
}

// SafeNext returns next when it is a local absolute path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
