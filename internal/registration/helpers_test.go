package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/database/mock"
	"github.com/kozaktomas/face-register/internal/faces"
	"github.com/kozaktomas/face-register/internal/secrets"
	"github.com/kozaktomas/face-register/internal/storage"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}

type failingBlobStore struct {
	err error
}

func (f *failingBlobStore) Bucket() string { return "broken" }
func (f *failingBlobStore) Put(context.Context, string, []byte, string, map[string]string) error {
	return f.err
}
func (f *failingBlobStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f *failingBlobStore) List(context.Context, string) ([]string, error) {
	return nil, f.err
}

type fakeIndexer struct {
	faceIDs []string
	err     error
	calls   int
	lastExt string
}

func (f *fakeIndexer) Index(_ context.Context, _, _, externalID string) ([]faces.Descriptor, error) {
	f.calls++
	f.lastExt = externalID
	if f.err != nil {
		return nil, f.err
	}
	descs := make([]faces.Descriptor, len(f.faceIDs))
	for i, id := range f.faceIDs {
		descs[i] = faces.Descriptor{FaceID: id, FaceIndex: i}
	}
	return descs, nil
}

var testCredentials = map[string]string{
	"DB_HOST":     "db.internal",
	"DB_USER":     "faces",
	"DB_PASSWORD": "secret",
	"DB_NAME":     "registrations",
}

// opener hands out the same in-memory store and records what was opened.
type opener struct {
	store *mock.MockPersonStore
	err   error
	calls int
	creds secrets.Credentials
}

func (o *opener) open(_ context.Context, creds secrets.Credentials) (database.PersonStoreCloser, error) {
	o.calls++
	o.creds = creds
	if o.err != nil {
		return nil, o.err
	}
	return o.store, nil
}

func newLocalStore(t *testing.T) *storage.LocalStore {
	t.Helper()
	blobs, err := storage.NewLocalStore(t.TempDir(), "faces-bucket")
	if err != nil {
		t.Fatalf("NewLocalStore failed: %v", err)
	}
	return blobs
}

var errBoom = errors.New("boom")
