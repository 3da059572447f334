package routes

import (
	"context"
	"net/http"
	"time"

	"blogicum/app/auth"
	"blogicum/app/config"
	"blogicum/app/controllers"
	"blogicum/app/log"
	"blogicum/app/middleware"
	"blogicum/app/repositories"
	"blogicum/app/services"
	"blogicum/app/views"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// Dependencies are the collaborators the router hands to the controllers.
type Dependencies struct {
	Repos    services.Repositories
	Sessions *auth.Sessions
	Media    *services.MediaStore
	Views    *views.Renderer
	PageSize int
}

// NewDependencies wires the production dependencies for cfg on top of repo.
func NewDependencies(cfg *config.Config, repo *repositories.Repository) (Dependencies, error) {
	renderer, err := views.New()
	if err != nil {
		return Dependencies{}, err
	}
	return Dependencies{
		Repos:    services.NewRepositories(repo),
		Sessions: auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction()),
		Media:    services.NewMediaStore(cfg.MediaDir),
		Views:    renderer,
		PageSize: cfg.PageSize,
	}, nil
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) *mux.Router {
	router := mux.NewRouter()

	postService := services.NewPostService(deps.Repos, deps.PageSize)
	commentService := services.NewCommentService(deps.Repos)
	userService := services.NewUserService(deps.Repos)

	postController := controllers.NewPostController(deps.Views, postService, deps.Media)
	commentController := controllers.NewCommentController(deps.Views, commentService, postService)
	categoryController := controllers.NewCategoryController(deps.Views, postService)
	profileController := controllers.NewProfileController(deps.Views, postService, userService)
	authController := controllers.NewAuthController(deps.Views, userService, deps.Sessions)

	// Apply global middleware
	authenticate := middleware.Authenticate(deps.Sessions, userService)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)
	router.Use(authenticate)
	router.NotFoundHandler = middleware.Logger(authenticate(http.HandlerFunc(postController.NotFound)))

	login := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireLogin(h)
	}

	// Uploaded images
	router.PathPrefix("/media/").Handler(http.StripPrefix("/media/", http.FileServer(http.Dir(deps.Media.Root())))).Methods("GET")

	// Web routes
	router.HandleFunc("/", postController.Index).Methods("GET")

	// Posts web endpoints
	posts := router.PathPrefix("/posts").Subrouter()
	posts.Handle("/create", login(postController.New)).Methods("GET")
	posts.Handle("/create", login(postController.Create)).Methods("POST")
	posts.HandleFunc("/{id:[0-9]+}", postController.Show).Methods("GET")
	posts.Handle("/{id:[0-9]+}/edit", login(postController.Edit)).Methods("GET")
	posts.Handle("/{id:[0-9]+}/edit", login(postController.Update)).Methods("POST")
	posts.Handle("/{id:[0-9]+}/delete", login(postController.ConfirmDelete)).Methods("GET")
	posts.Handle("/{id:[0-9]+}/delete", login(postController.Delete)).Methods("POST")

	// Comments web endpoints
	posts.Handle("/{id:[0-9]+}/comment", login(commentController.Create)).Methods("POST")
	posts.Handle("/{id:[0-9]+}/edit_comment/{comment_id:[0-9]+}", login(commentController.Edit)).Methods("GET")
	posts.Handle("/{id:[0-9]+}/edit_comment/{comment_id:[0-9]+}", login(commentController.Update)).Methods("POST")
	posts.Handle("/{id:[0-9]+}/delete_comment/{comment_id:[0-9]+}", login(commentController.ConfirmDelete)).Methods("GET")
	posts.Handle("/{id:[0-9]+}/delete_comment/{comment_id:[0-9]+}", login(commentController.Delete)).Methods("POST")

	// Listings
	router.HandleFunc("/category/{slug}", categoryController.Show).Methods("GET")
	router.Handle("/profile/edit", login(profileController.Edit)).Methods("GET")
	router.Handle("/profile/edit", login(profileController.Update)).Methods("POST")
	router.HandleFunc("/profile/{username}", profileController.Show).Methods("GET")

	// Accounts
	router.HandleFunc("/auth/registration", authController.RegistrationForm).Methods("GET")
	router.HandleFunc("/auth/registration", authController.Register).Methods("POST")
	router.HandleFunc("/auth/login", authController.LoginForm).Methods("GET")
	router.HandleFunc("/auth/login", authController.Login).Methods("POST")
	router.HandleFunc("/auth/logout", authController.Logout).Methods("POST")

	// API routes with JSON content type
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/posts", postController.Index).Methods("GET")
	api.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")
	api.HandleFunc("/category/{slug}", categoryController.Show).Methods("GET")
	api.HandleFunc("/profile/{username}", profileController.Show).Methods("GET")

	return router
}

// StartServer serves router on addr until ctx is cancelled, then shuts the
// server down gracefully.
func StartServer(ctx context.Context, addr string, router http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Log.WithField("addr", addr).Info("listening")
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	}
}
