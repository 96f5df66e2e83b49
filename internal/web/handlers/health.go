package handlers

import (
	"context"
	"net/http"

	"github.com/kozaktomas/face-register/internal/constants"
	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/logger"
)

// HealthHandler reports whether the person store is reachable.
type HealthHandler struct {
	persons database.PersonReader
	bucket  string
	log     *logger.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(persons database.PersonReader, bucket string, log *logger.Logger) *HealthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &HealthHandler{persons: persons, bucket: bucket, log: log}
}

// Check pings the person store.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), constants.HealthCheckTimeout)
	defer cancel()

	if err := h.persons.Ping(ctx); err != nil {
		h.log.Warn("Health check failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "error",
			"error":  "database unreachable",
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"db":     "reachable",
		"bucket": h.bucket,
	})
}
