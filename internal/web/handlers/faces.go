package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/logger"
	"github.com/kozaktomas/face-register/internal/registration"
)

// FacesHandler lists registered persons.
type FacesHandler struct {
	persons  database.PersonReader
	storage  config.StorageConfig
	messages config.MessagesConfig
	render   *Renderer
	log      *logger.Logger
}

// NewFacesHandler creates a new faces handler.
func NewFacesHandler(cfg *config.Config, persons database.PersonReader, render *Renderer, log *logger.Logger) *FacesHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &FacesHandler{persons: persons, storage: cfg.Storage, messages: cfg.Messages, render: render, log: log}
}

type personView struct {
	Lastname  string
	Firstname string
	ObjectKey string
	Identity  string
	Initials  string
	PhotoURL  string
}

type facesPage struct {
	Persons []personView
}

// Page renders the gallery of registered persons.
func (h *FacesHandler) Page(w http.ResponseWriter, r *http.Request) {
	records, err := h.persons.ListPersons(r.Context())
	if err != nil {
		h.log.Error("Failed to list persons", "error", err)
		msg := h.messages.Error(string(registration.KindPersistence))
		h.render.Render(w, http.StatusInternalServerError, "result", uploadResult{Error: &msg})
		return
	}

	views := make([]personView, 0, len(records))
	for _, rec := range records {
		v := personView{
			Lastname:  rec.Lastname,
			Firstname: rec.Firstname,
			ObjectKey: rec.ObjectKey,
			Initials:  initials(rec.Firstname, rec.Lastname),
			PhotoURL:  h.storage.PublicURL(rec.ObjectKey),
		}
		if rec.HasIdentity() {
			v.Identity = *rec.Identity
		}
		views = append(views, v)
	}

	h.render.Render(w, http.StatusOK, "faces", facesPage{Persons: views})
}

// List returns registered persons as JSON, newest first.
func (h *FacesHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.persons.ListPersons(r.Context())
	if err != nil {
		h.log.Error("Failed to list persons", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list persons")
		return
	}
	if records == nil {
		records = []database.PersonRecord{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(records),
		"data":    records,
	})
}
