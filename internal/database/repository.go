package database

import (
	"context"
)

// PersonReader provides read-only access to registered persons
type PersonReader interface {
	// GetPerson returns the person stored under the normalized name pair, nil if none
	GetPerson(ctx context.Context, lastnameKey, firstnameKey string) (*PersonRecord, error)
	// ListPersons returns all persons, newest id first
	ListPersons(ctx context.Context) ([]PersonRecord, error)
	// CountPersons returns the number of stored persons
	CountPersons(ctx context.Context) (int, error)
	// Ping checks the store is reachable
	Ping(ctx context.Context) error
}

// PersonWriter provides the write path for persons
type PersonWriter interface {
	PersonReader

	// UpsertPerson inserts the person or, when the name pair already exists,
	// updates names and object key, sets identity only when non-nil, and
	// refreshes updated_at. Returns the stored row.
	UpsertPerson(ctx context.Context, p PersonUpsert) (*PersonRecord, error)
}

// PersonStoreCloser is a PersonWriter bound to a connection that must be released.
type PersonStoreCloser interface {
	PersonWriter
	Close() error
}

// DescriptorWriter stores indexed faces in a collection
type DescriptorWriter interface {
	// SaveDescriptors replaces the descriptors of an external id with the given ones
	SaveDescriptors(ctx context.Context, collectionID, externalID string, descs []StoredDescriptor) error
	// GetDescriptors returns the descriptors of an external id ordered by face index
	GetDescriptors(ctx context.Context, collectionID, externalID string) ([]StoredDescriptor, error)
	// CountDescriptors returns the number of faces in a collection
	CountDescriptors(ctx context.Context, collectionID string) (int, error)
}
