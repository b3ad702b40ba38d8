package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/MovieCatalog/internal/messaging"
)

// runWorker consumes image cleanup jobs until ctx ends.
func (a *App) runWorker(ctx context.Context) error {
	if a.broker == nil {
		return errors.New("worker mode requires RABBITMQ_URL")
	}

	cleanup := messaging.NewImageCleanupHandler(a.files, a.logger)
	stopped, err := a.broker.StartConsumingImageCleanups(ctx, cleanup)
	if err != nil {
		return fmt.Errorf("start image cleanup consumer: %w", err)
	}

	a.logger.Info("worker started, waiting for image cleanup jobs")
	return waitForConsumer(ctx, stopped, a.logger)
}

// waitForConsumer blocks until ctx ends or the consumer stops on its own.
func waitForConsumer(ctx context.Context, stopped <-chan error, logger *slog.Logger) error {
	select {
	case <-ctx.Done():
		logger.Info("worker stopped")
		return nil
	case err, ok := <-stopped:
		if ok && err != nil {
			return fmt.Errorf("image cleanup consumer stopped: %w", err)
		}
		if ctx.Err() != nil {
			logger.Info("worker stopped")
			return nil
		}
		return errors.New("image cleanup consumer stopped")
	}
}
