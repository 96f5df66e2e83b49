package handlers

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/constants"
	"github.com/kozaktomas/face-register/internal/logger"
	"github.com/kozaktomas/face-register/internal/registration"
)

// Error message keys used only by the upload form.
const (
	msgInvalidImage = "invalid_image"
	msgTooLarge     = "too_large"
)

// UploadHandler serves the upload form and runs the upload registration path.
type UploadHandler struct {
	registrar UploadRegistrar
	render    *Renderer
	messages  config.MessagesConfig
	maxBytes  int64
	maxMB     int
	log       *logger.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(cfg *config.Config, registrar UploadRegistrar, render *Renderer, log *logger.Logger) *UploadHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UploadHandler{
		registrar: registrar,
		render:    render,
		messages:  cfg.Messages,
		maxBytes:  cfg.Storage.MaxUploadBytes(),
		maxMB:     cfg.Storage.MaxFileSizeMB,
		log:       log,
	}
}

type uploadForm struct {
	Lastname      string
	Firstname     string
	MaxFileSizeMB int
}

type uploadResult struct {
	*registration.Result
	Error *config.ErrorMessage
}

// Form renders the upload form.
func (h *UploadHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "upload", uploadForm{MaxFileSizeMB: h.maxMB})
}

func (h *UploadHandler) fail(w http.ResponseWriter, status int, kind string) {
	msg := h.messages.Error(kind)
	h.render.Render(w, status, "result", uploadResult{Error: &msg})
}

// Submit handles the multipart form (lastname, firstname, photo).
func (h *UploadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+constants.MultipartOverhead)
	if err := r.ParseMultipartForm(constants.MultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		h.fail(w, http.StatusBadRequest, string(registration.KindMissingFile))
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := registration.Upload{
		Lastname:  r.FormValue("lastname"),
		Firstname: r.FormValue("firstname"),
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		h.fail(w, http.StatusBadRequest, string(registration.KindMissingFile))
		return
	default:
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, h.maxBytes+1))
		if err != nil {
			h.fail(w, http.StatusBadRequest, string(registration.KindMissingFile))
			return
		}
		if int64(len(data)) > h.maxBytes {
			h.fail(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		if len(data) > 0 {
			_, format, err := image.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				h.log.Info("Rejected non-image upload", "file", logger.Sanitize(header.Filename), "error", err)
				h.fail(w, http.StatusUnsupportedMediaType, msgInvalidImage)
				return
			}
			in.ContentType = "image/" + strings.ToLower(format)
		}
		in.FileName = header.Filename
		in.Data = data
	}

	res, err := h.registrar.Register(r.Context(), in)
	if err != nil {
		h.fail(w, statusForError(err), string(registration.KindOf(err)))
		return
	}

	h.render.Render(w, http.StatusOK, "result", uploadResult{Result: res})
}
