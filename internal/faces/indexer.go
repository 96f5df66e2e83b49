package faces

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/storage"
)

// Detector finds faces in raw image bytes.
type Detector interface {
	DetectFaces(ctx context.Context, imageData []byte) (*FaceResponse, error)
}

// Descriptor identifies one face indexed into the collection.
type Descriptor struct {
	FaceID    string
	FaceIndex int
	DetScore  float64
	BBox      []float64
}

// Indexer reads a stored photo, detects its faces and records them in a
// collection under the photo's external id.
type Indexer struct {
	blobs        storage.BlobStore
	detector     Detector
	collection   database.DescriptorWriter
	collectionID string
	newID        func() string
}

// NewIndexer creates an indexer writing descriptors into collectionID.
func NewIndexer(blobs storage.BlobStore, detector Detector, collection database.DescriptorWriter, collectionID string) *Indexer {
	return &Indexer{
		blobs:        blobs,
		detector:     detector,
		collection:   collection,
		collectionID: collectionID,
		newID:        uuid.NewString,
	}
}

// Index detects the faces of bucket/key and returns one descriptor per face,
// in detection order. Zero faces is not an error here; callers decide.
func (ix *Indexer) Index(ctx context.Context, bucket, key, externalID string) ([]Descriptor, error) {
	if bucket != "" && bucket != ix.blobs.Bucket() {
		return nil, fmt.Errorf("object %s/%s is outside bucket %s", bucket, key, ix.blobs.Bucket())
	}

	data, err := ix.blobs.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}

	resp, err := ix.detector.DetectFaces(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("detect faces: %w", err)
	}
	if len(resp.Faces) == 0 {
		return nil, nil
	}

	descs := make([]Descriptor, 0, len(resp.Faces))
	stored := make([]database.StoredDescriptor, 0, len(resp.Faces))
	for _, f := range resp.Faces {
		id := ix.newID()
		descs = append(descs, Descriptor{FaceID: id, FaceIndex: f.FaceIndex, DetScore: f.DetScore, BBox: f.BBox})
		stored = append(stored, database.StoredDescriptor{
			FaceID:    id,
			ObjectKey: key,
			FaceIndex: f.FaceIndex,
			Embedding: f.Embedding,
			BBox:      f.BBox,
			DetScore:  f.DetScore,
			Model:     resp.Model,
		})
	}

	if err := ix.collection.SaveDescriptors(ctx, ix.collectionID, externalID, stored); err != nil {
		return nil, fmt.Errorf("save descriptors: %w", err)
	}
	return descs, nil
}
