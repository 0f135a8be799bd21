package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"yatube/app/models"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrument(t *testing.T) {
	m := New()

	router := mux.NewRouter()
	router.Use(m.Instrument)
	router.HandleFunc("/posts/{id:[0-9]+}/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", m.Handler())

	for _, path := range []string{"/posts/1/", "/posts/2/"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusTeapot, rr.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/posts/{id:[0-9]+}/", "418")))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "yatube_http_requests_total")
	assert.Contains(t, body, "yatube_http_request_duration_seconds")
	assert.False(t, strings.Contains(body, `route="/metrics"`))
}

func TestPostCounters(t *testing.T) {
	m := New()
	groupID := 1

	m.PostCreated(&models.Post{ID: 1})
	m.PostCreated(&models.Post{ID: 2, GroupID: &groupID})
	m.PostCreated(&models.Post{ID: 3, GroupID: &groupID})
	m.PostUpdated(&models.Post{ID: 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.postsCreated.WithLabelValues("false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.postsCreated.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.postsUpdated))
}

func TestSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
