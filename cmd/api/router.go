package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/crucial707/fileserve/internal/config"
	"github.com/crucial707/fileserve/internal/filestore"
	"github.com/crucial707/fileserve/internal/handlers"
	"github.com/crucial707/fileserve/internal/middleware"
	"github.com/crucial707/fileserve/internal/repo"
	"github.com/crucial707/fileserve/internal/token"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// loginBodyLimit bounds the login JSON body; credentials are tiny.
const loginBodyLimit = 4 << 10

// newRouter assembles the full middleware and handler stack. Tests build
// the same stack against a mock DB and a temp-dir store.
func newRouter(database *sql.DB, store *filestore.Store, cfg config.Config) http.Handler {
	users := repo.NewUserRepo(database)
	codec := token.New([]byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

	authH := &handlers.AuthHandler{UserRepo: users, Codec: codec}
	userH := &handlers.UserHandler{Repo: users}
	fileH := &handlers.FileHandler{Store: store}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// Public
	r.Get("/", handlers.Home)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/public/items", handlers.PublicItems)

	loginLimiter := middleware.LoginRateLimiter()
	r.With(loginLimiter.Middleware, middleware.MaxBytes(loginBodyLimit)).
		Post("/login", authH.Login)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(codec, users))

		r.With(middleware.MaxBytes(middleware.DefaultMaxBodyBytes)).Post("/users", userH.CreateUser)
		r.Get("/users", userH.ListUsers)
		r.Get("/users/{id}", userH.GetUser)
		r.With(middleware.MaxBytes(middleware.DefaultMaxBodyBytes)).Put("/users/{id}", userH.UpdateUser)
		r.Delete("/users/{id}", userH.DeleteUser)

		// Body limit leaves headroom for multipart framing around the
		// store's own per-file ceiling.
		r.With(middleware.MaxBytes(cfg.MaxUploadBytes+middleware.DefaultMaxBodyBytes)).
			Post("/admin/upload", fileH.Upload)
		r.Get("/files", fileH.ListFiles)
		r.Get("/files/{name}", fileH.DownloadFile)
		r.Delete("/files/{name}", fileH.DeleteFile)
	})

	return r
}
