package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPagesHandler_Home(t *testing.T) {
	cfg := testConfig()
	handler := NewPagesHandler(testRenderer(t, cfg))

	recorder := httptest.NewRecorder()
	handler.Home(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", recorder.Code)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("unexpected Content-Type %s", ct)
	}
	if !strings.Contains(recorder.Body.String(), "Face Registry") {
		t.Error("expected app title on home page")
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r := testRenderer(t, testConfig())

	recorder := httptest.NewRecorder()
	r.Render(recorder, http.StatusOK, "missing", nil)

	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", recorder.Code)
	}
}
