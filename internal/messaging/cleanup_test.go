package messaging

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/logger"
	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
)

type recordingStorage struct {
	deleted []string
	err     error
}

func (s *recordingStorage) UploadFile(context.Context, string, io.Reader, string) (*domain.Image, error) {
	return nil, errors.New("not implemented")
}

func (s *recordingStorage) DeleteFile(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, key)
	return nil
}

func TestImageCleanupHandler(t *testing.T) {
	storage := &recordingStorage{}
	handle := NewImageCleanupHandler(storage, logger.Discard())

	err := handle(context.Background(), payloads.ImageCleanupPayload{PublicID: "movieImage/a.png", Reason: payloads.ReasonMovieDeleted})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "movieImage/a.png" {
		t.Fatalf("deleted = %v", storage.deleted)
	}

	storage.err = errors.New("boom")
	if err := handle(context.Background(), payloads.ImageCleanupPayload{PublicID: "movieImage/b.png"}); err == nil {
		t.Fatalf("expected storage error to surface")
	}
}

func TestInlineCleanerSwallowsFailures(t *testing.T) {
	storage := &recordingStorage{err: errors.New("media host down")}
	cleaner := NewInlineCleaner(storage, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := cleaner.PublishImageCleanup(ctx, payloads.ImageCleanupPayload{PublicID: "movieImage/c.png"}); err != nil {
		t.Fatalf("inline cleaner must not fail the caller: %v", err)
	}

	storage.err = nil
	if err := cleaner.PublishImageCleanup(ctx, payloads.ImageCleanupPayload{PublicID: "movieImage/d.png"}); err != nil {
		t.Fatalf("PublishImageCleanup: %v", err)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != "movieImage/d.png" {
		t.Fatalf("deleted = %v", storage.deleted)
	}
}
