package identity

import (
	"strings"
	"testing"
)

func TestKeyFragment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Dupont", "dupont"},
		{"  Jean  ", "jean"},
		{"Élise", "elise"},
		{"Jiří Novák", "jiri_novak"},
		{"marie-claire", "marie_claire"},
		{"O'Brien", "o_brien"},
		{"__van   der--berg__", "van_der_berg"},
		{"Zoë 2", "zoe_2"},
		{"", "unknown"},
		{"   ", "unknown"},
		{"!!!", "unknown"},
		{"日本", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := KeyFragment(tt.input)
			if result != tt.expected {
				t.Errorf("KeyFragment(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestKeyFragment_Charset(t *testing.T) {
	inputs := []string{
		"Ångström", "  -leading", "trailing-  ", "a\tb\nc", "ŁÓDŹ", "çà et là",
		"x__y", "12 34", "ß", "émile-zola_", "-", "Ünïcödé—dash",
	}

	for _, in := range inputs {
		got := KeyFragment(in)
		if got != strings.ToLower(got) {
			t.Errorf("KeyFragment(%q) = %q is not lowercase", in, got)
		}
		for _, r := range got {
			if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_') {
				t.Errorf("KeyFragment(%q) = %q contains %q", in, got, r)
			}
		}
		if strings.HasPrefix(got, "_") || strings.HasSuffix(got, "_") {
			t.Errorf("KeyFragment(%q) = %q has an outer separator", in, got)
		}
		if strings.Contains(got, "__") {
			t.Errorf("KeyFragment(%q) = %q has a separator run", in, got)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"jean_pierre", "Jean Pierre"},
		{"marie-claire", "Marie Claire"},
		{"élise", "Élise"},
		{"DUPONT", "Dupont"},
		{"  van   der berg ", "Van Der Berg"},
		{"jean--_ pierre", "Jean Pierre"},
		{"", "Unknown"},
		{"   ", "Unknown"},
		{"_-_", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := DisplayName(tt.input)
			if result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
