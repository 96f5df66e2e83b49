package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/kozaktomas/face-register/internal/constants"
	"github.com/kozaktomas/face-register/internal/events"
	"github.com/kozaktomas/face-register/internal/logger"
	"github.com/kozaktomas/face-register/internal/registration"
)

// EventsHandler receives "object stored" notifications and runs the
// indexing registration path for each object.
type EventsHandler struct {
	registrar EventRegistrar
	log       *logger.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(registrar EventRegistrar, log *logger.Logger) *EventsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EventsHandler{registrar: registrar, log: log}
}

type eventResult struct {
	Bucket  string `json:"bucket"`
	Key     string `json:"key"`
	Success bool   `json:"success"`
	ID      int64  `json:"id,omitempty"`
	FaceID  string `json:"face_id,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Storage handles a storage notification. Any failed object makes the whole
// response non-2xx so the sender redelivers; server-side failures win over
// client-side ones.
func (h *EventsHandler) Storage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, constants.MaxEventBodySize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	objects, err := events.Decode(body)
	if err != nil {
		if errors.Is(err, events.ErrNoRecords) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "invalid notification")
		return
	}

	status := http.StatusOK
	results := make([]eventResult, 0, len(objects))
	for _, obj := range objects {
		res, err := h.registrar.Register(r.Context(), obj.Bucket, obj.Key)
		if err != nil {
			results = append(results, eventResult{
				Bucket: obj.Bucket,
				Key:    obj.Key,
				Kind:   string(registration.KindOf(err)),
				Error:  err.Error(),
			})
			if s := statusForError(err); s > status {
				status = s
			}
			continue
		}
		results = append(results, eventResult{
			Bucket:  obj.Bucket,
			Key:     obj.Key,
			Success: true,
			ID:      res.Record.ID,
			FaceID:  res.FaceID,
		})
	}

	respondJSON(w, status, map[string]any{
		"success": status == http.StatusOK,
		"results": results,
	})
}
