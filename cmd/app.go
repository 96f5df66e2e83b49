package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/constants"
	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/database/mariadb"
	"github.com/kozaktomas/face-register/internal/database/postgres"
	"github.com/kozaktomas/face-register/internal/faces"
	"github.com/kozaktomas/face-register/internal/logger"
	"github.com/kozaktomas/face-register/internal/metrics"
	"github.com/kozaktomas/face-register/internal/registration"
	"github.com/kozaktomas/face-register/internal/secrets"
	"github.com/kozaktomas/face-register/internal/storage"
)

// closer releases a resource opened by one of the helpers below.
type closer func() error

func noopCloser() error { return nil }

// newLogger builds the logger for the configured mode.
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

// openBlobStore opens the configured storage backend.
func openBlobStore(ctx context.Context, cfg *config.Config) (storage.BlobStore, closer, error) {
	switch cfg.Storage.Backend {
	case config.StorageGCS:
		store, err := storage.NewGCSStore(ctx, cfg.Storage.Bucket)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case config.StorageLocal:
		store, err := storage.NewLocalStore(cfg.Storage.Dir, cfg.Storage.Bucket)
		if err != nil {
			return nil, nil, err
		}
		return store, noopCloser, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// secretsProvider returns the provider resolving person store credentials.
func secretsProvider(cfg *config.Config) secrets.Provider {
	if cfg.Database.SecretSource == config.SecretSourceFile {
		return secrets.NewFileProvider(cfg.Database.SecretDir)
	}
	return secrets.NewEnvProvider()
}

// openPersonStore resolves credentials and opens a long-lived person store.
func openPersonStore(ctx context.Context, cfg *config.Config) (*mariadb.PersonRepository, error) {
	creds, err := secretsProvider(cfg).Credentials(ctx, cfg.Database.SecretRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database credentials: %w", err)
	}
	repo, err := mariadb.Open(ctx, creds, mariadb.PoolOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MariaDB: %w", err)
	}
	return repo, nil
}

// scopedStoreOpener opens a small pool per indexing run.
func scopedStoreOpener(ctx context.Context, creds secrets.Credentials) (database.PersonStoreCloser, error) {
	repo, err := mariadb.Open(ctx, creds, mariadb.PoolOptions{
		MaxOpenConns: constants.ScopedMaxOpenConns,
		MaxIdleConns: constants.ScopedMaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// newIndexing connects the face collection and builds the indexing orchestrator.
func newIndexing(
	ctx context.Context, cfg *config.Config, blobs storage.BlobStore, log *logger.Logger, m *metrics.Metrics,
) (*registration.IndexingOrchestrator, closer, error) {
	pool, err := postgres.Initialize(ctx, &cfg.Collection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open face collection: %w", err)
	}

	client := faces.NewClient(cfg.FaceService.URL, time.Duration(cfg.FaceService.TimeoutSeconds)*time.Second)
	indexer := faces.NewIndexer(blobs, client, postgres.NewDescriptorRepository(pool), cfg.Collection.ID)

	orchestrator := registration.NewIndexingOrchestrator(
		indexer, secretsProvider(cfg), cfg.Database.SecretRef, scopedStoreOpener, log, m,
	)
	return orchestrator, pool.Close, nil
}
