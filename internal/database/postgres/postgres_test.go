//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestContainer(t *testing.T) (*Pool, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}
	if container == nil {
		t.Skip("Docker not available, skipping integration test")
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dbURL := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	cfg := &config.CollectionConfig{
		URL:          dbURL,
		ID:           "test",
		MaxOpenConns: 5,
		MaxIdleConns: 2,
	}

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to create pool: %v", err)
	}

	// Run migrations
	if _, err := pool.Migrate(ctx); err != nil {
		pool.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		pool.Close()
		container.Terminate(ctx)
	}

	return pool, cleanup
}

func testDescriptor(faceIndex int, seed float32) database.StoredDescriptor {
	embedding := make([]float32, 512)
	for i := range embedding {
		embedding[i] = seed + float32(i)/512.0
	}
	return database.StoredDescriptor{
		FaceID:    uuid.NewString(),
		ObjectKey: "dupont_jean.jpg",
		FaceIndex: faceIndex,
		Embedding: embedding,
		BBox:      []float64{10, 20, 110, 140},
		DetScore:  0.93,
		Model:     "buffalo_l",
	}
}

func TestDescriptorRepository(t *testing.T) {
	pool, cleanup := setupTestContainer(t)
	if pool == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()
	repo := NewDescriptorRepository(pool)

	t.Run("SaveAndGet", func(t *testing.T) {
		descs := []database.StoredDescriptor{testDescriptor(0, 0.1), testDescriptor(1, 0.2)}
		if err := repo.SaveDescriptors(ctx, "test", "dupont_jean", descs); err != nil {
			t.Fatalf("Failed to save descriptors: %v", err)
		}

		got, err := repo.GetDescriptors(ctx, "test", "dupont_jean")
		if err != nil {
			t.Fatalf("Failed to get descriptors: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Expected 2 descriptors, got %d", len(got))
		}
		if got[0].FaceID != descs[0].FaceID {
			t.Errorf("Expected first face %s, got %s", descs[0].FaceID, got[0].FaceID)
		}
		if len(got[0].Embedding) != 512 {
			t.Errorf("Expected 512-dim embedding, got %d", len(got[0].Embedding))
		}
		if len(got[0].BBox) != 4 {
			t.Errorf("Expected 4 bbox values, got %d", len(got[0].BBox))
		}
	})

	t.Run("ReindexReplaces", func(t *testing.T) {
		replacement := []database.StoredDescriptor{testDescriptor(0, 0.5)}
		if err := repo.SaveDescriptors(ctx, "test", "dupont_jean", replacement); err != nil {
			t.Fatalf("Failed to save descriptors: %v", err)
		}

		count, err := repo.CountDescriptors(ctx, "test")
		if err != nil {
			t.Fatalf("Failed to count descriptors: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 descriptor after re-index, got %d", count)
		}
	})

	t.Run("CollectionsAreIsolated", func(t *testing.T) {
		got, err := repo.GetDescriptors(ctx, "other", "dupont_jean")
		if err != nil {
			t.Fatalf("Failed to get descriptors: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("Expected no descriptors in other collection, got %d", len(got))
		}
	})
}
