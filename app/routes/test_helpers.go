package routes

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"yatube/app/metrics"
	"yatube/app/models"
	"yatube/app/repositories"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testCookie = "sessionid"

type testApp struct {
	router  *mux.Router
	store   *repositories.Store
	metrics *metrics.Metrics
}

func setupTestApp(t *testing.T) *testApp {
	db, err := repositories.Open(repositories.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := repositories.NewStore(db)
	m := metrics.New()
	router, err := SetupRoutes(store, Options{
		CookieName: testCookie,
		SessionTTL: time.Hour,
		Logger:     zaptest.NewLogger(t),
		Metrics:    m,
	})
	require.NoError(t, err)

	return &testApp{router: router, store: store, metrics: m}
}

func (a *testApp) createUser(t *testing.T, username string) *models.User {
	user := &models.User{Username: username}
	require.NoError(t, user.SetPassword("password"))
	require.NoError(t, a.store.Users.Create(user))
	return user
}

func (a *testApp) createGroup(t *testing.T, slug string) *models.Group {
	group := &models.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug}
	require.NoError(t, a.store.Groups.Create(group))
	return group
}

func (a *testApp) createPost(t *testing.T, author *models.User, group *models.Group, text string) *models.Post {
	post := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		post.GroupID = &group.ID
	}
	require.NoError(t, a.store.Posts.Create(post))
	return post
}

// login opens a session for user and returns its cookie.
func (a *testApp) login(t *testing.T, user *models.User) *http.Cookie {
	session, err := a.store.Sessions.Create(user.ID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: testCookie, Value: session.Token}
}

func (a *testApp) get(t *testing.T, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) post(t *testing.T, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// countPosts returns how many post cards a page rendered.
func countPosts(body string) int {
	return strings.Count(body, `<article class="post">`)
}

func countAll(t *testing.T, store *repositories.Store) int {
	n, err := store.Posts.Count(repositories.PostFilter{})
	require.NoError(t, err)
	return n
}
