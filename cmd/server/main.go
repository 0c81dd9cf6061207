package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub/internal/auth"
	"coursehub/internal/config"
	"coursehub/internal/database"
	"coursehub/internal/enrollment"
	"coursehub/internal/handler"
	"coursehub/internal/logger"
	"coursehub/internal/messaging"
	"coursehub/internal/repository"
	"coursehub/internal/session"
	"coursehub/internal/view"
)

func main() {
	if err := run(); err != nil {
		logger.LogError("server stopped", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	logger.LogInfo("starting coursehub", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer database.Close(db)

	credentials, err := auth.NewCredentials(cfg.Auth)
	if err != nil {
		return err
	}
	renderer, err := view.NewTemplateRenderer()
	if err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	router := handler.NewRouter(handler.Deps{
		DB:             db,
		Sessions:       session.NewCookieManager(cfg.Session),
		Auth:           auth.NewService(userRepo, credentials, auth.NewSecretCodePolicy(cfg.Signup)),
		Engine:         enrollment.NewEngine(courseRepo, registrationRepo, userRepo),
		Catalog:        enrollment.NewCatalog(courseRepo),
		Users:          userRepo,
		Messages:       messaging.NewService(messageRepo, userRepo),
		View:           renderer,
		LoginRateLimit: cfg.Auth.LoginRateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.LogInfo("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.LogInfo("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
