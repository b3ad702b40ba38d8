package ports

import (
	"context"

	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
)

// ImageCleanupPublisher schedules removal of media objects that are no
// longer referenced by any movie.
type ImageCleanupPublisher interface {
	PublishImageCleanup(ctx context.Context, payload payloads.ImageCleanupPayload) error
}

// ImageCleanupConsumer delivers scheduled cleanups to a handler. The call
// returns once the consumer is registered; delivery stops when ctx ends.
// The returned channel reports an error if delivery stops on its own.
type ImageCleanupConsumer interface {
	StartConsumingImageCleanups(ctx context.Context, handler func(context.Context, payloads.ImageCleanupPayload) error) (<-chan error, error)
}
