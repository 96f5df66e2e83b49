//go:build integration

package mariadb

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/secrets"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestContainer(t *testing.T) (*PersonRepository, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8.4",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "root",
			"MYSQL_USER":          "test",
			"MYSQL_PASSWORD":      "test",
			"MYSQL_DATABASE":      "faces_db",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").
			WithStartupTimeout(120 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Docker not available or container failed to start, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}
	portNum, _ := strconv.Atoi(port.Port())

	repo, err := Open(ctx, secrets.Credentials{
		Host:     host,
		User:     "test",
		Password: "test",
		Database: "faces_db",
		Port:     portNum,
	}, PoolOptions{MaxOpenConns: 10, MaxIdleConns: 5})
	if err != nil {
		container.Terminate(ctx)
		t.Fatalf("Failed to open repository: %v", err)
	}

	if _, err := repo.Pool().Migrate(ctx); err != nil {
		repo.Close()
		container.Terminate(ctx)
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		repo.Close()
		container.Terminate(ctx)
	}
	return repo, cleanup
}

func strPtr(s string) *string { return &s }

func TestPersonRepository(t *testing.T) {
	repo, cleanup := setupTestContainer(t)
	if repo == nil {
		return
	}
	defer cleanup()

	ctx := context.Background()

	base := database.PersonUpsert{
		Lastname:     "Dupont",
		Firstname:    "Jean",
		LastnameKey:  "dupont",
		FirstnameKey: "jean",
		ObjectKey:    "dupont_jean.jpg",
	}

	t.Run("InsertWithoutIdentity", func(t *testing.T) {
		rec, err := repo.UpsertPerson(ctx, base)
		if err != nil {
			t.Fatalf("UpsertPerson failed: %v", err)
		}
		if rec.ID == 0 {
			t.Error("expected assigned id")
		}
		if rec.Identity != nil {
			t.Errorf("expected nil identity, got %q", *rec.Identity)
		}
	})

	t.Run("IdentityFilledIn", func(t *testing.T) {
		up := base
		up.Identity = strPtr("face-abc")
		rec, err := repo.UpsertPerson(ctx, up)
		if err != nil {
			t.Fatalf("UpsertPerson failed: %v", err)
		}
		if rec.Identity == nil || *rec.Identity != "face-abc" {
			t.Errorf("expected identity face-abc, got %v", rec.Identity)
		}
	})

	t.Run("NullDoesNotClobber", func(t *testing.T) {
		up := base
		up.ObjectKey = "dupont_jean.png"
		rec, err := repo.UpsertPerson(ctx, up)
		if err != nil {
			t.Fatalf("UpsertPerson failed: %v", err)
		}
		if rec.Identity == nil || *rec.Identity != "face-abc" {
			t.Errorf("expected identity to stay face-abc, got %v", rec.Identity)
		}
		if rec.ObjectKey != "dupont_jean.png" {
			t.Errorf("expected object key to follow latest upload, got %s", rec.ObjectKey)
		}
	})

	t.Run("SingleRow", func(t *testing.T) {
		count, err := repo.CountPersons(ctx)
		if err != nil {
			t.Fatalf("CountPersons failed: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 person, got %d", count)
		}
	})

	t.Run("ConcurrentUpserts", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				up := database.PersonUpsert{
					Lastname: "Martin", Firstname: "Marie",
					LastnameKey: "martin", FirstnameKey: "marie",
					ObjectKey: "martin_marie.jpg",
				}
				if i%2 == 0 {
					up.Identity = strPtr("face-race")
				}
				if _, err := repo.UpsertPerson(ctx, up); err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("concurrent upsert failed: %v", err)
		}

		rec, err := repo.GetPerson(ctx, "martin", "marie")
		if err != nil || rec == nil {
			t.Fatalf("GetPerson failed: %v", err)
		}
		if rec.Identity == nil || *rec.Identity != "face-race" {
			t.Errorf("expected identity face-race, got %v", rec.Identity)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		persons, err := repo.ListPersons(ctx)
		if err != nil {
			t.Fatalf("ListPersons failed: %v", err)
		}
		if len(persons) != 2 {
			t.Fatalf("expected 2 persons, got %d", len(persons))
		}
		if persons[0].Lastname != "Martin" {
			t.Errorf("expected newest first, got %s", persons[0].Lastname)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		rec, err := repo.GetPerson(ctx, "nobody", "here")
		if err != nil {
			t.Fatalf("GetPerson failed: %v", err)
		}
		if rec != nil {
			t.Errorf("expected nil, got %+v", rec)
		}
	})
}
