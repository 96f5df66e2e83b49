// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kozaktomas/face-register/internal/database"
)

type personKey struct {
	lastname  string
	firstname string
}

// MockPersonStore is an in-memory database.PersonStoreCloser with the same
// insert-or-update-on-conflict semantics as the SQL store.
type MockPersonStore struct {
	mu      sync.RWMutex
	persons map[personKey]*database.PersonRecord
	nextID  int64
	now     func() time.Time

	Upserts int
	Closed  int

	// Error injection
	UpsertError error
	GetError    error
	ListError   error
	CountError  error
	PingError   error
}

// NewMockPersonStore creates a new mock person store
func NewMockPersonStore() *MockPersonStore {
	return &MockPersonStore{
		persons: make(map[personKey]*database.PersonRecord),
		now:     time.Now,
	}
}

func copyRecord(rec *database.PersonRecord) *database.PersonRecord {
	out := *rec
	if rec.Identity != nil {
		id := *rec.Identity
		out.Identity = &id
	}
	return &out
}

// UpsertPerson inserts or updates a person keyed by name fragments
func (m *MockPersonStore) UpsertPerson(ctx context.Context, p database.PersonUpsert) (*database.PersonRecord, error) {
	if m.UpsertError != nil {
		return nil, m.UpsertError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upserts++

	now := m.now()
	key := personKey{p.LastnameKey, p.FirstnameKey}
	rec, ok := m.persons[key]
	if !ok {
		m.nextID++
		rec = &database.PersonRecord{ID: m.nextID, CreatedAt: now}
		m.persons[key] = rec
	}

	rec.Lastname = p.Lastname
	rec.Firstname = p.Firstname
	rec.ObjectKey = p.ObjectKey
	if p.Identity != nil {
		id := *p.Identity
		rec.Identity = &id
	}
	rec.UpdatedAt = now

	return copyRecord(rec), nil
}

// GetPerson returns a person by name fragments, nil if absent
func (m *MockPersonStore) GetPerson(ctx context.Context, lastnameKey, firstnameKey string) (*database.PersonRecord, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.persons[personKey{lastnameKey, firstnameKey}]
	if !ok {
		return nil, nil
	}
	return copyRecord(rec), nil
}

// ListPersons returns all persons, newest id first
func (m *MockPersonStore) ListPersons(ctx context.Context) ([]database.PersonRecord, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]database.PersonRecord, 0, len(m.persons))
	for _, rec := range m.persons {
		out = append(out, *copyRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// CountPersons returns the number of persons
func (m *MockPersonStore) CountPersons(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.persons), nil
}

// Ping returns PingError
func (m *MockPersonStore) Ping(ctx context.Context) error {
	return m.PingError
}

// Close counts releases
func (m *MockPersonStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed++
	return nil
}

// MockDescriptorStore is an in-memory database.DescriptorWriter
type MockDescriptorStore struct {
	mu    sync.RWMutex
	descs map[string][]database.StoredDescriptor

	// Error injection
	SaveError  error
	GetError   error
	CountError error
}

// NewMockDescriptorStore creates a new mock descriptor store
func NewMockDescriptorStore() *MockDescriptorStore {
	return &MockDescriptorStore{descs: make(map[string][]database.StoredDescriptor)}
}

func descriptorKey(collectionID, externalID string) string {
	return collectionID + "\x00" + externalID
}

// SaveDescriptors replaces the descriptors of an external id
func (m *MockDescriptorStore) SaveDescriptors(
	ctx context.Context, collectionID, externalID string, descs []database.StoredDescriptor,
) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]database.StoredDescriptor, len(descs))
	for i, d := range descs {
		d.CollectionID = collectionID
		d.ExternalID = externalID
		stored[i] = d
	}
	m.descs[descriptorKey(collectionID, externalID)] = stored
	return nil
}

// GetDescriptors returns the descriptors of an external id
func (m *MockDescriptorStore) GetDescriptors(
	ctx context.Context, collectionID, externalID string,
) ([]database.StoredDescriptor, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]database.StoredDescriptor(nil), m.descs[descriptorKey(collectionID, externalID)]...), nil
}

// CountDescriptors returns the number of descriptors in a collection
func (m *MockDescriptorStore) CountDescriptors(ctx context.Context, collectionID string) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	prefix := collectionID + "\x00"
	for k, v := range m.descs {
		if strings.HasPrefix(k, prefix) {
			count += len(v)
		}
	}
	return count, nil
}
