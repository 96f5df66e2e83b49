package events

import (
	"errors"
	"reflect"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []ObjectCreated
	}{
		{
			name: "s3 single record",
			body: `{"Records":[{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"faces"},"object":{"key":"dupont_jean.jpg"}}}]}`,
			expected: []ObjectCreated{
				{Bucket: "faces", Key: "dupont_jean.jpg"},
			},
		},
		{
			name: "s3 encoded key",
			body: `{"Records":[{"s3":{"bucket":{"name":"faces"},"object":{"key":"d%C3%A9j%C3%A0+vu_jean.jpg"}}}]}`,
			expected: []ObjectCreated{
				{Bucket: "faces", Key: "déjà vu_jean.jpg"},
			},
		},
		{
			name: "s3 several records, removals skipped",
			body: `{"Records":[
				{"eventName":"s3:ObjectCreated:Put","s3":{"bucket":{"name":"faces"},"object":{"key":"a_b.jpg"}}},
				{"eventName":"ObjectRemoved:Delete","s3":{"bucket":{"name":"faces"},"object":{"key":"c_d.jpg"}}},
				{"eventName":"ObjectCreated:Copy","s3":{"bucket":{"name":"faces"},"object":{"key":"e_f.png"}}}
			]}`,
			expected: []ObjectCreated{
				{Bucket: "faces", Key: "a_b.jpg"},
				{Bucket: "faces", Key: "e_f.png"},
			},
		},
		{
			name: "gcs object",
			body: `{"kind":"storage#object","bucket":"faces","name":"martin_elise.webp","contentType":"image/webp"}`,
			expected: []ObjectCreated{
				{Bucket: "faces", Key: "martin_elise.webp"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.body))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Decode() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		noRecords bool
	}{
		{"not json", `not json`, false},
		{"empty object", `{}`, true},
		{"empty records", `{"Records":[]}`, true},
		{"only removals", `{"Records":[{"eventName":"ObjectRemoved:Delete","s3":{"bucket":{"name":"f"},"object":{"key":"a_b.jpg"}}}]}`, true},
		{"gcs without name", `{"bucket":"faces","name":""}`, true},
		{"bad escape", `{"Records":[{"s3":{"bucket":{"name":"f"},"object":{"key":"a%zz.jpg"}}}]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrNoRecords) != tt.noRecords {
				t.Errorf("ErrNoRecords = %v, want %v (err: %v)", errors.Is(err, ErrNoRecords), tt.noRecords, err)
			}
		})
	}
}
