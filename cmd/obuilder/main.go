// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/olegiv/obuilder-go/internal/assist"
	"github.com/olegiv/obuilder-go/internal/auth"
	"github.com/olegiv/obuilder-go/internal/cache"
	"github.com/olegiv/obuilder-go/internal/config"
	"github.com/olegiv/obuilder-go/internal/handler"
	"github.com/olegiv/obuilder-go/internal/imaging"
	"github.com/olegiv/obuilder-go/internal/lifecycle"
	"github.com/olegiv/obuilder-go/internal/logging"
	"github.com/olegiv/obuilder-go/internal/scheduler"
	"github.com/olegiv/obuilder-go/internal/session"
	"github.com/olegiv/obuilder-go/internal/store"
	"github.com/olegiv/obuilder-go/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	hashPassword := flag.Bool("hash-password", false, "Read a password from stdin and print its hash for OBUILDER_EDITOR_PASSWORD_HASH")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "obuilder - landing page builder\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_SESSION_SECRET        Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_EDITOR_PASSWORD_HASH  Editor password hash (required, see -hash-password)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_DB_PATH               SQLite database path (default: ./data/obuilder.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_SERVER_PORT           Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_VERSION_MODE          Version snapshots: track|frozen (default: track)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_UPLOADS_DIR           Uploaded image directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_REDIS_URL             Redis URL for the published-page cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  OBUILDER_OPENAI_API_KEY        Enables AI copy assistance (optional)\n")
	}

	flag.Parse()

	if *showVersion {
		_, _ = fmt.Printf("obuilder %s\n", version.Get())
		os.Exit(0)
	}

	if *hashPassword {
		if err := runHashPassword(); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// runHashPassword reads a password (without echo on a terminal) and
// prints its argon2id hash.
func runHashPassword() error {
	var password string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		_, _ = fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		_, _ = fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = string(raw)
	} else {
		if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	fmt.Println(hash)
	return nil
}

func run() error {
	// Load .env if present (development).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	slog.Info("starting obuilder", "version", version.Get().Version)

	// Ensure data and uploads directories exist.
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade the logger to mirror WARN and ERROR records into the
	// event log.
	events := store.NewEventStore(db)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, events))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	pageCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = pageCache.Close() }()
	publishedPages := cache.NewPublishedPages(pageCache, time.Duration(cfg.CacheTTL)*time.Second)

	ctx := context.Background()
	manager := lifecycle.NewManager(store.NewConfigStore(db), cfg.VersionMode, logger)
	bundles := handler.NewBundleService(ctx, manager, publishedPages, logger)
	slog.Info("landing bundle loaded", "version_mode", cfg.VersionMode)

	sched := scheduler.New(bundles, events, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	suggester := assist.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if suggester.Enabled() {
		slog.Info("AI copy assistance enabled", "model", cfg.OpenAIModel)
	}

	routes := handler.Routes(handler.Deps{
		Cfg:       cfg,
		DB:        db,
		Sessions:  sessionManager,
		Bundles:   bundles,
		Pages:     publishedPages,
		Events:    events,
		Uploads:   imaging.NewProcessor(cfg.UploadsDir),
		Suggester: suggester,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           routes,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
