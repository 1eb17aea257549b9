package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	geminiadapter "github.com/lectern-notes/lectern/internal/adapter/driven/gemini"
	sqliteadapter "github.com/lectern-notes/lectern/internal/adapter/driven/sqlite"
	httphandler "github.com/lectern-notes/lectern/internal/adapter/driving/http"
	"github.com/lectern-notes/lectern/internal/application"
	"github.com/lectern-notes/lectern/internal/config"
	"github.com/lectern-notes/lectern/internal/crypto"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"generation_timeout", cfg.GenerationTimeout,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	noteStore := sqliteadapter.NewNoteRepo(db)
	folderStore := sqliteadapter.NewFolderRepo(db)
	credentialStore := sqliteadapter.NewCredentialRepo(db)

	vault, err := crypto.NewVault(cfg.EncryptionKey)
	if err != nil {
		return err
	}

	generator := geminiadapter.NewClient(cfg.GeminiBaseURL, cfg.GenerationTimeout)

	// 6. Wire services.
	generateSvc := application.NewGenerateService(noteStore, credentialStore, vault, generator, slog.Default())
	credentialSvc := application.NewCredentialService(credentialStore, vault, generator, slog.Default())

	// 7. Create HTTP handler and register routes.
	apiHandler := httphandler.NewHandler(generateSvc, credentialSvc, noteStore, folderStore, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, cfg.SessionSecret, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 8. Log startup complete.
	slog.Info("lecternd started", "listen_addr", cfg.ListenAddr)

	// 9. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 10. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
