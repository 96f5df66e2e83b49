package registration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/identity"
)

// Reconcile is the single write path into the person store. The row is keyed
// by the key fragments of the display names: the first call for a name pair
// creates it, later calls update names and object key and refresh updated_at.
// A nil (or empty) faceID never overwrites a stored identity.
func Reconcile(
	ctx context.Context, store database.PersonWriter,
	lastname, firstname string, faceID *string, objectKey string,
) (*database.PersonRecord, error) {
	lastname = strings.TrimSpace(lastname)
	firstname = strings.TrimSpace(firstname)
	objectKey = strings.TrimSpace(objectKey)

	switch {
	case lastname == "":
		return nil, fmt.Errorf("%w: lastname", ErrMissingField)
	case firstname == "":
		return nil, fmt.Errorf("%w: firstname", ErrMissingField)
	case objectKey == "":
		return nil, fmt.Errorf("%w: object key", ErrMissingField)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, errors.New("no person store"))
	}

	if faceID != nil && *faceID == "" {
		faceID = nil
	}

	rec, err := store.UpsertPerson(ctx, database.PersonUpsert{
		Lastname:     lastname,
		Firstname:    firstname,
		LastnameKey:  identity.KeyFragment(lastname),
		FirstnameKey: identity.KeyFragment(firstname),
		Identity:     faceID,
		ObjectKey:    objectKey,
	})
	if err != nil {
		return nil, fail(ErrPersistence, err)
	}
	return rec, nil
}
