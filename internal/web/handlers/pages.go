package handlers

import (
	"net/http"
)

// PagesHandler serves the static pages.
type PagesHandler struct {
	render *Renderer
}

// NewPagesHandler creates a new pages handler.
func NewPagesHandler(render *Renderer) *PagesHandler {
	return &PagesHandler{render: render}
}

// Home renders the landing page.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "home", nil)
}
