package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/identity"
	"github.com/kozaktomas/face-register/internal/logger"
	"github.com/kozaktomas/face-register/internal/metrics"
	"github.com/kozaktomas/face-register/internal/storage"
)

// Upload is a photo submitted together with the person's names.
type Upload struct {
	Lastname    string
	Firstname   string
	FileName    string
	ContentType string
	Data        []byte
}

// Result describes a completed registration.
type Result struct {
	Record    *database.PersonRecord
	Bucket    string
	ObjectKey string
	// FaceID and Faces are only set by the indexing path.
	FaceID string
	Faces  int
}

// UploadOrchestrator stores the photo under its object key and records the
// person without a face identity.
type UploadOrchestrator struct {
	blobs   storage.BlobStore
	persons database.PersonWriter
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewUploadOrchestrator creates an upload orchestrator. log and m may be nil.
func NewUploadOrchestrator(
	blobs storage.BlobStore, persons database.PersonWriter, log *logger.Logger, m *metrics.Metrics,
) *UploadOrchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &UploadOrchestrator{blobs: blobs, persons: persons, log: log, metrics: m}
}

// Register validates the upload, stores the blob and reconciles the record.
// When reconciliation fails the blob stays stored; the next indexing run for
// the key repairs the record.
func (o *UploadOrchestrator) Register(ctx context.Context, in Upload) (res *Result, err error) {
	start := time.Now()
	log := o.log.With(
		"path", metrics.PathUpload,
		"lastname", logger.Sanitize(in.Lastname),
		"firstname", logger.Sanitize(in.Firstname),
	)
	defer func() {
		o.observe(log, start, res, err)
	}()

	if strings.TrimSpace(in.Lastname) == "" {
		return nil, fmt.Errorf("%w: lastname", ErrMissingField)
	}
	if strings.TrimSpace(in.Firstname) == "" {
		return nil, fmt.Errorf("%w: firstname", ErrMissingField)
	}
	if len(in.Data) == 0 {
		return nil, fmt.Errorf("%w: photo", ErrMissingFile)
	}

	lastname := identity.DisplayName(in.Lastname)
	firstname := identity.DisplayName(in.Firstname)
	key := identity.ObjectKey(identity.KeyFragment(in.Lastname), identity.KeyFragment(in.Firstname), in.FileName)

	contentType := in.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = storage.ContentTypeForKey(key)
	}
	metadata := map[string]string{"lastname": lastname, "firstname": firstname}
	if err := o.blobs.Put(ctx, key, in.Data, contentType, metadata); err != nil {
		return nil, fail(ErrStorage, fmt.Errorf("put %s: %w", key, err))
	}
	log.Debug("Photo stored", "bucket", o.blobs.Bucket(), "key", key, "bytes", len(in.Data))

	rec, err := Reconcile(ctx, o.persons, lastname, firstname, nil, key)
	if err != nil {
		return nil, err
	}

	return &Result{Record: rec, Bucket: o.blobs.Bucket(), ObjectKey: key}, nil
}

func (o *UploadOrchestrator) observe(log *logger.Logger, start time.Time, res *Result, err error) {
	if err != nil {
		kind := KindOf(err)
		o.metrics.ObserveRegistration(metrics.PathUpload, string(kind), start)
		if IsClientError(err) {
			log.Info("Upload rejected", "kind", kind, "error", err)
		} else {
			log.Error("Upload failed", "kind", kind, "error", err)
		}
		return
	}
	o.metrics.ObserveRegistration(metrics.PathUpload, metrics.OutcomeSuccess, start)
	log.Info("Person registered", "key", res.ObjectKey, "id", res.Record.ID)
}
