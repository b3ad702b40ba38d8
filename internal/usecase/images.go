package usecase

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/GoArmGo/MovieCatalog/internal/core/ports"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
)

// imageFolder prefixes every movie image key on the media host.
const imageFolder = "movieImage"

// imageKey names a new object after a random id, keeping the upload's extension.
func imageKey(filename string) string {
	return imageFolder + "/" + uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

// imageCleaner schedules deletion of images no movie references anymore.
// Publish failures are logged, never returned.
type imageCleaner struct {
	publisher ports.ImageCleanupPublisher
	logger    *slog.Logger
}

func (c imageCleaner) schedule(ctx context.Context, img *domain.Image, reason string) {
	if img == nil || img.PublicID == "" {
		return
	}
	payload := payloads.ImageCleanupPayload{PublicID: img.PublicID, Reason: reason}
	if err := c.publisher.PublishImageCleanup(context.WithoutCancel(ctx), payload); err != nil {
		c.logger.Error("failed to schedule image cleanup",
			"public_id", img.PublicID,
			"reason", reason,
			"error", err,
		)
	}
}

// upload stores the image, or returns nil when there is none.
func upload(ctx context.Context, files ports.FileStorage, image *Upload) (*domain.Image, error) {
	if image == nil {
		return nil, nil
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return files.UploadFile(ctx, imageKey(image.Filename), image.Body, contentType)
}
