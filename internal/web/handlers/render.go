package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/logger"
	"github.com/kozaktomas/face-register/internal/web/static"
)

var pageNames = []string{"home", "upload", "result", "faces"}

// Renderer executes the embedded page templates with the configured UI strings.
type Renderer struct {
	pages map[string]*template.Template
	log   *logger.Logger
}

// NewRenderer parses every page together with the shared layout.
func NewRenderer(messages config.MessagesConfig, log *logger.Logger) (*Renderer, error) {
	if log == nil {
		log = logger.Nop()
	}
	funcs := template.FuncMap{
		"msg": messages.Page,
		"msgf": func(key string, args ...any) string {
			return fmt.Sprintf(messages.Page(key), args...)
		},
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames)), log: log}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(static.Templates(), "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the page with the given status. The page is rendered into a
// buffer first so a template error never produces a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, page+".html", data); err != nil {
		r.log.Error("Failed to render page", "page", page, "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// initials returns up to two upper-case initials for an avatar.
func initials(firstname, lastname string) string {
	var b strings.Builder
	for _, s := range []string{firstname, lastname} {
		if r, _ := utf8.DecodeRuneInString(strings.TrimSpace(s)); r != utf8.RuneError {
			b.WriteString(strings.ToUpper(string(r)))
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
