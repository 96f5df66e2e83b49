package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-register/internal/registration"
)

func TestRespondJSON_SetsContentType(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusOK, map[string]string{"status": "ok"})

	contentType := recorder.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type 'application/json', got '%s'", contentType)
	}
}

func TestRespondJSON_NilData(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondJSON(recorder, http.StatusCreated, nil)

	if recorder.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, recorder.Code)
	}
	if recorder.Body.Len() != 0 {
		t.Errorf("expected empty body for nil data, got '%s'", recorder.Body.String())
	}
}

func TestRespondError(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondError(recorder, http.StatusBadRequest, "something went wrong")

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", recorder.Code)
	}

	var result map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if result["success"] != false {
		t.Errorf("expected success false, got %v", result["success"])
	}
	if result["error"] != "something went wrong" {
		t.Errorf("expected error message, got %v", result["error"])
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"missing field", fmt.Errorf("%w: lastname", registration.ErrMissingField), http.StatusBadRequest},
		{"missing file", registration.ErrMissingFile, http.StatusBadRequest},
		{"invalid format", registration.ErrInvalidFormat, http.StatusBadRequest},
		{"no face", registration.ErrNoFaceDetected, http.StatusUnprocessableEntity},
		{"storage", fmt.Errorf("%w: %w", registration.ErrStorage, errors.New("x")), http.StatusInternalServerError},
		{"credential", registration.ErrCredential, http.StatusInternalServerError},
		{"persistence", registration.ErrPersistence, http.StatusInternalServerError},
		{"unknown", errors.New("x"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.expected {
				t.Errorf("statusForError() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		firstname, lastname, expected string
	}{
		{"Jean", "Dupont", "JD"},
		{"élise", "martin", "ÉM"},
		{"", "Dupont", "D"},
		{"", "", "?"},
	}

	for _, tt := range tests {
		if got := initials(tt.firstname, tt.lastname); got != tt.expected {
			t.Errorf("initials(%q, %q) = %q, want %q", tt.firstname, tt.lastname, got, tt.expected)
		}
	}
}
