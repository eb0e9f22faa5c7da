package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/crucial707/fileserve/internal/config"
	"github.com/crucial707/fileserve/internal/db"
	"github.com/crucial707/fileserve/internal/filestore"
	"github.com/crucial707/fileserve/internal/janitor"
)

func main() {

	// Load configuration
	cfg := config.Load()
	setupLogging(cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	slog.Info("connected to the database", "host", cfg.DBHost, "name", cfg.DBName)

	// Apply migrations, then seed demo users into an empty table
	if err := db.Migrate(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}
	if err := db.Seed(database); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}

	// File store
	store, err := filestore.New(cfg.UploadDir, cfg.MaxUploadBytes, cfg.AllowedExtensions)
	if err != nil {
		slog.Error("failed to open file store", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	// Background sweep of orphaned upload temp files
	if _, err := janitor.Run(store, cfg.CleanupSchedule); err != nil {
		slog.Error("failed to start janitor", "schedule", cfg.CleanupSchedule, "error", err)
		os.Exit(1)
	}

	r := newRouter(database, store, cfg)

	// Start server LAST
	addr := ":" + cfg.Port
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		slog.Info("starting server with TLS", "addr", addr)
		err = http.ListenAndServeTLS(addr, cfg.TLSCertFile, cfg.TLSKeyFile, r)
	} else {
		slog.Info("starting server", "addr", addr)
		err = http.ListenAndServe(addr, r)
	}
	if err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs a text or JSON slog handler on the default logger.
func setupLogging(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
