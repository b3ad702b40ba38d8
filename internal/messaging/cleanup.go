// Package messaging turns image cleanup jobs into media host deletions.
package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
)

// NewImageCleanupHandler deletes the object named by each job. The worker
// registers it on the queue; InlineCleaner calls it directly.
func NewImageCleanupHandler(storage ports.FileStorage, logger *slog.Logger) func(context.Context, payloads.ImageCleanupPayload) error {
	return func(ctx context.Context, payload payloads.ImageCleanupPayload) error {
		if err := storage.DeleteFile(ctx, payload.PublicID); err != nil {
			return fmt.Errorf("delete image %s: %w", payload.PublicID, err)
		}
		logger.Info("image cleaned up", "public_id", payload.PublicID, "reason", payload.Reason)
		return nil
	}
}

// InlineCleaner is the publisher used when no queue is configured. Jobs run
// synchronously and failures are logged, never returned.
type InlineCleaner struct {
	handle func(context.Context, payloads.ImageCleanupPayload) error
	logger *slog.Logger
}

var _ ports.ImageCleanupPublisher = (*InlineCleaner)(nil)

func NewInlineCleaner(storage ports.FileStorage, logger *slog.Logger) *InlineCleaner {
	return &InlineCleaner{handle: NewImageCleanupHandler(storage, logger), logger: logger}
}

func (c *InlineCleaner) PublishImageCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) error {
	if err := c.handle(context.WithoutCancel(ctx), payload); err != nil {
		c.logger.Warn("inline image cleanup failed", "public_id", payload.PublicID, "reason", payload.Reason, "error", err)
	}
	return nil
}
