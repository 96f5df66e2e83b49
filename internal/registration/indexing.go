package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/faces"
	"github.com/kozaktomas/face-register/internal/identity"
	"github.com/kozaktomas/face-register/internal/logger"
	"github.com/kozaktomas/face-register/internal/metrics"
	"github.com/kozaktomas/face-register/internal/secrets"
	"github.com/kozaktomas/face-register/internal/storage"
)

// FaceIndexer indexes the faces of a stored photo under an external id.
type FaceIndexer interface {
	Index(ctx context.Context, bucket, key, externalID string) ([]faces.Descriptor, error)
}

// StoreOpener connects to the person store with resolved credentials.
// The returned store is closed by the caller.
type StoreOpener func(ctx context.Context, creds secrets.Credentials) (database.PersonStoreCloser, error)

// IndexingOrchestrator registers a person from a stored photo's key alone:
// the key gives the names, the indexer gives the face identity.
type IndexingOrchestrator struct {
	indexer   FaceIndexer
	secrets   secrets.Provider
	secretRef string
	open      StoreOpener
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// NewIndexingOrchestrator creates an indexing orchestrator. Credentials are
// looked up under secretRef on every run. log and m may be nil.
func NewIndexingOrchestrator(
	indexer FaceIndexer, provider secrets.Provider, secretRef string, open StoreOpener,
	log *logger.Logger, m *metrics.Metrics,
) *IndexingOrchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &IndexingOrchestrator{
		indexer:   indexer,
		secrets:   provider,
		secretRef: secretRef,
		open:      open,
		log:       log,
		metrics:   m,
	}
}

// Register handles one "object stored" event. The person store connection
// is opened for this run only and released on every exit path.
func (o *IndexingOrchestrator) Register(ctx context.Context, bucket, key string) (res *Result, err error) {
	start := time.Now()
	log := o.log.With("path", metrics.PathIndex, "bucket", bucket, "key", logger.Sanitize(key))
	defer func() {
		o.observe(log, start, res, err)
	}()

	parsed, err := identity.ParseKey(key)
	if err != nil {
		return nil, err
	}

	descs, err := o.indexer.Index(ctx, bucket, key, parsed.ExternalID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fail(ErrStorage, err)
		}
		return nil, fail(ErrIndexing, err)
	}
	o.metrics.ObserveFaces(len(descs))
	if len(descs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFaceDetected, key)
	}
	faceID := descs[0].FaceID
	if len(descs) > 1 {
		log.Warn("Several faces detected, keeping the first", "faces", len(descs), "face_id", faceID)
	}

	creds, err := o.secrets.Credentials(ctx, o.secretRef)
	if err != nil {
		return nil, fail(ErrCredential, err)
	}
	if err := creds.Validate(); err != nil {
		return nil, fail(ErrCredential, err)
	}

	store, err := o.open(ctx, creds)
	if err != nil {
		return nil, fail(ErrPersistence, fmt.Errorf("open person store: %w", err))
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("Failed to close person store", "error", cerr)
		}
	}()

	rec, err := Reconcile(ctx, store, parsed.Lastname(), parsed.Firstname(), &faceID, key)
	if err != nil {
		return nil, err
	}

	return &Result{Record: rec, Bucket: bucket, ObjectKey: key, FaceID: faceID, Faces: len(descs)}, nil
}

func (o *IndexingOrchestrator) observe(log *logger.Logger, start time.Time, res *Result, err error) {
	if err != nil {
		kind := KindOf(err)
		o.metrics.ObserveRegistration(metrics.PathIndex, string(kind), start)
		log.Error("Indexing failed", "kind", kind, "error", err)
		return
	}
	o.metrics.ObserveRegistration(metrics.PathIndex, metrics.OutcomeSuccess, start)
	log.Info("Face registered", "id", res.Record.ID, "face_id", res.FaceID)
}
