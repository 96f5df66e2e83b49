// Package registration ties names, stored photos and indexed faces together
// into one person record per name pair.
package registration

import (
	"errors"
	"fmt"

	"github.com/kozaktomas/face-register/internal/identity"
)

// Failure kinds. Every error returned by the orchestrators wraps exactly one
// of them together with its cause.
var (
	ErrMissingField   = errors.New("missing field")
	ErrMissingFile    = errors.New("missing file")
	ErrInvalidFormat  = identity.ErrInvalidFormat
	ErrNoFaceDetected = errors.New("no face detected")
	ErrStorage        = errors.New("storage error")
	ErrIndexing       = errors.New("indexing error")
	ErrCredential     = errors.New("credential error")
	ErrPersistence    = errors.New("persistence error")
)

// Kind is the stable name of a failure, used for status codes, messages and metric labels.
type Kind string

const (
	KindMissingField   Kind = "missing_field"
	KindMissingFile    Kind = "missing_file"
	KindInvalidFormat  Kind = "invalid_format"
	KindNoFaceDetected Kind = "no_face_detected"
	KindStorage        Kind = "storage_error"
	KindIndexing       Kind = "indexing_error"
	KindCredential     Kind = "credential_error"
	KindPersistence    Kind = "persistence_error"
	KindUnknown        Kind = "unknown"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrMissingField, KindMissingField},
	{ErrMissingFile, KindMissingFile},
	{ErrInvalidFormat, KindInvalidFormat},
	{ErrNoFaceDetected, KindNoFaceDetected},
	{ErrStorage, KindStorage},
	{ErrIndexing, KindIndexing},
	{ErrCredential, KindCredential},
	{ErrPersistence, KindPersistence},
}

// KindOf returns the failure kind wrapped by err, "" for nil and KindUnknown
// for errors raised outside this package.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// IsClientError reports whether the failure was caused by the caller's input.
func IsClientError(err error) bool {
	switch KindOf(err) {
	case KindMissingField, KindMissingFile, KindInvalidFormat, KindNoFaceDetected:
		return true
	}
	return false
}

func fail(kind error, cause error) error {
	if errors.Is(cause, kind) {
		return cause
	}
	return fmt.Errorf("%w: %w", kind, cause)
}
