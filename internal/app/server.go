package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/GoArmGo/MovieCatalog/internal/handler"
)

// runServer serves the HTTP API until ctx ends.
func (a *App) runServer(ctx context.Context) error {
	router := handler.NewRouter(handler.RouterConfig{
		Users:   a.userUseCase,
		Movies:  a.movieUseCase,
		Genres:  a.genreUseCase,
		Store:   a.store,
		Metrics: a.metrics,
		Auth: handler.JWTConfig{
			Secret:   []byte(a.cfg.JWTSecret),
			Audience: a.cfg.JWTAudience,
			Issuer:   a.cfg.JWTIssuer,
		},
		MaxUploadBytes: a.cfg.MaxUploadBytes,
		RequestTimeout: a.cfg.RequestTimeout,
		Logger:         a.logger,
	})

	serverAddr := fmt.Sprintf(":%s", a.cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	a.logger.Info("HTTP server stopped")
	return nil
}
