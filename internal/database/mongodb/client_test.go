package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/GoArmGo/MovieCatalog/internal/database/repotest"
	"github.com/GoArmGo/MovieCatalog/internal/domain"
	"github.com/GoArmGo/MovieCatalog/internal/logger"
)

// startMongo runs MongoDB in a container and skips when Docker is unavailable.
func startMongo(t *testing.T, ctx context.Context) (client *Client) {
	t.Helper()

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("Docker daemon not available, skipping testcontainers test: %v", r)
		}
	}()

	container, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Skipf("Failed to start MongoDB container (Docker not available?): %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("Failed to terminate MongoDB container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("Failed to get MongoDB connection string: %v", err)
	}

	client, err = NewClient(ctx, uri, "movies_test", logger.Discard())
	if err != nil {
		t.Fatalf("connect mongodb: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	return client
}

func TestRepositoryContract(t *testing.T) {
	ctx := context.Background()
	client := startMongo(t, ctx)

	reset := func(t *testing.T) {
		t.Helper()
		for _, coll := range []string{usersCollection, moviesCollection, genresCollection} {
			if _, err := client.db.Collection(coll).DeleteMany(ctx, bson.M{}); err != nil {
				t.Fatalf("clear %s: %v", coll, err)
			}
		}
	}

	repotest.Run(t, repotest.Harness{Store: client, Reset: reset})
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"507f1f77bcf86cd799439011", false},
		{" 507f1f77bcf86cd799439011\n", false},
		{"3f2504e0-4f89-11d3-9a0c-0305e82c3301", true},
		{"507f1f77bcf86cd79943901", true},
		{"", true},
	}
	for _, tt := range tests {
		_, err := parseID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("parseID(%q) must map to ErrNotFound, got %v", tt.in, err)
		}
	}
}

func TestParseIDsDeduplicates(t *testing.T) {
	a := bson.NewObjectID()
	b := bson.NewObjectID()

	got, err := parseIDs([]string{a.Hex(), b.Hex(), a.Hex()})
	if err != nil {
		t.Fatalf("parseIDs: %v", err)
	}
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatalf("parseIDs = %v, want [%s %s]", got, a.Hex(), b.Hex())
	}
}
