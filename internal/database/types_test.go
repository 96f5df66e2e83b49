package database

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPersonRecord_HasIdentity(t *testing.T) {
	empty := ""
	face := "face-abc"

	tests := []struct {
		name     string
		identity *string
		expected bool
	}{
		{"nil", nil, false},
		{"empty", &empty, false},
		{"set", &face, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PersonRecord{Identity: tt.identity}
			if got := p.HasIdentity(); got != tt.expected {
				t.Errorf("HasIdentity() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPersonRecord_JSONNullIdentity(t *testing.T) {
	data, err := json.Marshal(PersonRecord{ID: 1, Lastname: "Dupont", Firstname: "Jean", ObjectKey: "dupont_jean.jpg"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"identity":null`) {
		t.Errorf("expected null identity in %s", data)
	}
	if !strings.Contains(string(data), `"object_key":"dupont_jean.jpg"`) {
		t.Errorf("expected object_key in %s", data)
	}
}
