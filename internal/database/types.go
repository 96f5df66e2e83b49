package database

import (
	"time"
)

// PersonRecord is one registered person. Identity is nil until a face has
// been indexed for the person's photo.
type PersonRecord struct {
	ID        int64     `json:"id"`
	Lastname  string    `json:"lastname"`
	Firstname string    `json:"firstname"`
	Identity  *string   `json:"identity"`
	ObjectKey string    `json:"object_key"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasIdentity reports whether a face identity has been recorded.
func (p *PersonRecord) HasIdentity() bool {
	return p.Identity != nil && *p.Identity != ""
}

// PersonUpsert is the input of the single write path into the person store.
// LastnameKey/FirstnameKey carry the uniqueness constraint; a nil Identity
// never overwrites a stored one.
type PersonUpsert struct {
	Lastname     string
	Firstname    string
	LastnameKey  string
	FirstnameKey string
	Identity     *string
	ObjectKey    string
}

// StoredDescriptor is a face indexed into a collection.
type StoredDescriptor struct {
	FaceID       string
	CollectionID string
	ExternalID   string
	ObjectKey    string
	FaceIndex    int
	Embedding    []float32
	BBox         []float64 // [x1, y1, x2, y2] in raw pixel coordinates
	DetScore     float64
	Model        string
	CreatedAt    time.Time
}
