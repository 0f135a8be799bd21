package routes

import (
	"fmt"
	"net/http"
	"time"

	"yatube/app/controllers"
	"yatube/app/metrics"
	"yatube/app/middleware"
	"yatube/app/repositories"
	"yatube/app/services"
	"yatube/app/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// DefaultSessionTTL is used when Options.SessionTTL is not set.
const DefaultSessionTTL = 14 * 24 * time.Hour

// Options configures the router.
type Options struct {
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
}

func (o *Options) setDefaults() {
	if o.CookieName == "" {
		o.CookieName = "sessionid"
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = DefaultSessionTTL
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Metrics == nil {
		o.Metrics = metrics.New()
	}
}

// SetupRoutes defines the application's routes and returns a router, using the provided store.
func SetupRoutes(store *repositories.Store, opts Options) (*mux.Router, error) {
	opts.setDefaults()
	log := opts.Logger

	templates, err := views.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	renderer := controllers.NewRenderer(templates, log)

	postService := services.NewPostService(store.Posts, store.Groups, store.Users)
	postService.SetObserver(opts.Metrics)
	authService := services.NewAuthService(store.Users, store.Sessions, opts.SessionTTL)

	postController := controllers.NewPostController(postService, renderer)
	authController := controllers.NewAuthController(authService, controllers.CookieOptions{
		Name:   opts.CookieName,
		Secure: opts.CookieSecure,
	}, renderer)

	chain := []mux.MiddlewareFunc{
		middleware.Logger(log),
		opts.Metrics.Instrument,
		middleware.Recoverer(log),
		middleware.ContentTypeHTML,
		middleware.Authenticate(authService, opts.CookieName, log),
	}

	router := mux.NewRouter().StrictSlash(true)

	// Apply global middleware
	router.Use(chain...)

	// Unmatched paths skip router.Use, so the 404 page gets the chain explicitly
	var notFound http.Handler = http.HandlerFunc(renderer.NotFound)
	for i := len(chain) - 1; i >= 0; i-- {
		notFound = chain[i](notFound)
	}
	router.NotFoundHandler = notFound

	router.Handle("/metrics", opts.Metrics.Handler()).Methods("GET")
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(views.Static()))))

	// Public pages
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/group/{slug:[-a-zA-Z0-9_]+}/", postController.GroupPosts).Methods("GET")
	router.HandleFunc(`/profile/{username:[\w.@+-]+}/`, postController.Profile).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/", postController.Detail).Methods("GET")

	// Author pages
	router.Handle("/create/", middleware.RequireLogin(http.HandlerFunc(postController.Create))).Methods("GET", "POST")
	router.Handle("/posts/{id:[0-9]+}/edit/", middleware.RequireLogin(http.HandlerFunc(postController.Edit))).Methods("GET", "POST")

	// Accounts
	auth := router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login/", authController.Login).Methods("GET", "POST")
	auth.HandleFunc("/logout/", authController.Logout).Methods("GET", "POST")
	auth.HandleFunc("/signup/", authController.Signup).Methods("GET", "POST")

	return router, nil
}
