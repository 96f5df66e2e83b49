package handlers

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-register/internal/config"
	"github.com/kozaktomas/face-register/internal/database"
	"github.com/kozaktomas/face-register/internal/identity"
	"github.com/kozaktomas/face-register/internal/registration"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	cfg := config.Load()
	cfg.Storage.Bucket = "faces-bucket"
	cfg.Storage.MaxFileSizeMB = 1
	cfg.Storage.PublicBaseURL = "https://storage.googleapis.com/faces-bucket"
	return cfg
}

func testRenderer(t *testing.T, cfg *config.Config) *Renderer {
	t.Helper()
	r, err := NewRenderer(cfg.Messages, nil)
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	return r
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a POST /upload request; an empty fileName omits the photo part.
func multipartRequest(t *testing.T, fields map[string]string, fileName string, data []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("photo", fileName)
		if err != nil {
			t.Fatalf("failed to create form file: %v", err)
		}
		part.Write(data)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

type fakeUploadRegistrar struct {
	err   error
	calls int
	got   registration.Upload
}

func (f *fakeUploadRegistrar) Register(_ context.Context, in registration.Upload) (*registration.Result, error) {
	f.calls++
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &registration.Result{
		Record:    &database.PersonRecord{ID: 1, Lastname: "Dupont", Firstname: "Jean", ObjectKey: "dupont_jean.png"},
		Bucket:    "faces-bucket",
		ObjectKey: "dupont_jean.png",
	}, nil
}

type fakeEventRegistrar struct {
	errs  map[string]error
	calls []string
}

func (f *fakeEventRegistrar) Register(_ context.Context, bucket, key string) (*registration.Result, error) {
	f.calls = append(f.calls, bucket+"/"+key)
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return &registration.Result{
		Record:    &database.PersonRecord{ID: 7, ObjectKey: key},
		Bucket:    bucket,
		ObjectKey: key,
		FaceID:    "face-abc",
		Faces:     1,
	}, nil
}

func upsertFor(lastname, firstname, key string, faceID *string) database.PersonUpsert {
	return database.PersonUpsert{
		Lastname:     lastname,
		Firstname:    firstname,
		LastnameKey:  identity.KeyFragment(lastname),
		FirstnameKey: identity.KeyFragment(firstname),
		Identity:     faceID,
		ObjectKey:    key,
	}
}
