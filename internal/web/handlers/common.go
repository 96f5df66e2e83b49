package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kozaktomas/face-register/internal/registration"
)

// UploadRegistrar runs the upload registration path.
type UploadRegistrar interface {
	Register(ctx context.Context, in registration.Upload) (*registration.Result, error)
}

// EventRegistrar runs the indexing registration path for one stored object.
type EventRegistrar interface {
	Register(ctx context.Context, bucket, key string) (*registration.Result, error)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "error": message})
}

// statusForError maps a registration failure to an HTTP status.
func statusForError(err error) int {
	switch registration.KindOf(err) {
	case registration.KindMissingField, registration.KindMissingFile, registration.KindInvalidFormat:
		return http.StatusBadRequest
	case registration.KindNoFaceDetected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
