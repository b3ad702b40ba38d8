package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/GoArmGo/MovieCatalog/internal/config"
	"github.com/GoArmGo/MovieCatalog/internal/logger"
	"github.com/GoArmGo/MovieCatalog/internal/messaging/payloads"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{name: "valid", body: `{"public_id":"movieImage/a.png","reason":"movie_deleted"}`, want: "movieImage/a.png"},
		{name: "not json", body: `public_id=a`, wantErr: true},
		{name: "missing key", body: `{"reason":"movie_deleted"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodePayload([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("decodePayload() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got.PublicID != tt.want {
				t.Fatalf("PublicID = %s, want %s", got.PublicID, tt.want)
			}
		})
	}
}

// TestPublishConsumeRoundTrip needs a live broker in RABBITMQ_URL.
func TestPublishConsumeRoundTrip(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}

	cfg := &config.Config{}
	cfg.RabbitMQ.RabbitMQURL = url
	cfg.RabbitMQ.RabbitMQQueueName = fmt.Sprintf("image_cleanup_test_%d", time.Now().UnixNano())

	client, err := NewClient(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()
	defer func() { _, _ = client.channel.QueueDelete(client.queue.Name, false, false, false) }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	received := make(chan payloads.ImageCleanupPayload, 1)
	attempts := 0
	stopped, err := client.StartConsumingImageCleanups(ctx, func(_ context.Context, p payloads.ImageCleanupPayload) error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("transient failure")
		}
		received <- p
		return nil
	})
	if err != nil {
		t.Fatalf("StartConsumingImageCleanups: %v", err)
	}

	want := payloads.ImageCleanupPayload{PublicID: "movieImage/x.png", Reason: payloads.ReasonMovieDeleted}
	if err := client.PublishImageCleanup(ctx, want); err != nil {
		t.Fatalf("PublishImageCleanup: %v", err)
	}

	select {
	case got := <-received:
		if got != want {
			t.Fatalf("received %+v, want %+v", got, want)
		}
		if attempts != 2 {
			t.Fatalf("expected a requeue after the first failure, attempts = %d", attempts)
		}
	case err := <-stopped:
		t.Fatalf("consumer stopped early: %v", err)
	case <-ctx.Done():
		t.Fatalf("timed out waiting for cleanup job")
	}
}

func TestConsumeReportsClosedDeliveryChannel(t *testing.T) {
	c := &Client{logger: logger.Discard()}
	msgs := make(chan amqp.Delivery)
	close(msgs)

	err := c.consume(context.Background(), msgs, func(context.Context, payloads.ImageCleanupPayload) error {
		t.Fatalf("handler must not run")
		return nil
	})
	if !errors.Is(err, ErrDeliveryClosed) {
		t.Fatalf("consume() error = %v, want ErrDeliveryClosed", err)
	}
}

func TestConsumeStopsQuietlyOnCancel(t *testing.T) {
	c := &Client{logger: logger.Discard()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.consume(ctx, make(chan amqp.Delivery), nil); err != nil {
		t.Fatalf("consume() after cancel = %v, want nil", err)
	}
}
