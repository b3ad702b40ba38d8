package media

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"

	appconfig "github.com/GoArmGo/MovieCatalog/internal/config"
	"github.com/GoArmGo/MovieCatalog/internal/logger"
)

func readObject(ctx context.Context, c *Client, key string) ([]byte, error) {
	out, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func startMinIO(t *testing.T, ctx context.Context) (endpoint string) {
	t.Helper()

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Docker daemon not available, skipping testcontainers test: %v", r)
		}
	}()

	minioContainer, err := minio.Run(ctx,
		"minio/minio:latest",
		testcontainers.WithEnv(map[string]string{
			"MINIO_ROOT_USER":     "minioadmin",
			"MINIO_ROOT_PASSWORD": "minioadmin",
		}),
	)
	if err != nil {
		t.Skipf("Failed to start MinIO container (Docker not available?): %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(minioContainer); err != nil {
			t.Logf("Failed to terminate MinIO container: %v", err)
		}
	})

	endpoint, err = minioContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get MinIO endpoint: %v", err)
	}
	return endpoint
}

func TestClientUploadGetDelete(t *testing.T) {
	ctx := context.Background()
	endpoint := startMinIO(t, ctx)

	cfg := &appconfig.Config{
		MediaEndpoint:        endpoint,
		MediaAccessKeyID:     "minioadmin",
		MediaSecretAccessKey: "minioadmin",
		MediaBucketName:      "movies-test",
		MediaRegion:          "us-east-1",
		MediaPublicURL:       "http://cdn.example.com/",
	}

	client, err := NewClient(ctx, cfg, logger.Discard())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	// A second client finds the bucket already there.
	if _, err := NewClient(ctx, cfg, logger.Discard()); err != nil {
		t.Fatalf("NewClient with existing bucket: %v", err)
	}

	content := []byte("\x89PNG fake image bytes")
	img, err := client.UploadFile(ctx, "movieImage/poster.png", bytes.NewReader(content), "image/png")
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if img.PublicID != "movieImage/poster.png" {
		t.Fatalf("PublicID = %s", img.PublicID)
	}
	if img.SecureURL != "http://cdn.example.com/movies-test/movieImage/poster.png" {
		t.Fatalf("SecureURL = %s", img.SecureURL)
	}

	got, err := readObject(ctx, client, img.PublicID)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Fatalf("object content = %q, want %q", got, content)
	}

	if err := client.DeleteFile(ctx, img.PublicID); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}
	if _, err := readObject(ctx, client, img.PublicID); err == nil {
		t.Fatalf("expected error reading deleted object")
	}
	if err := client.DeleteFile(ctx, "movieImage/never-existed.png"); err != nil {
		t.Fatalf("DeleteFile on missing key: %v", err)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), &appconfig.Config{MediaEndpoint: "localhost:9000"}, logger.Discard())
	if err == nil || !strings.Contains(err.Error(), "MEDIA_ACCESS_KEY_ID") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}
