package identity

import "testing"

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		expected string
	}{
		{"uppercase extension", "photo.JPG", "dupont_jean.jpg"},
		{"no extension", "photo", "dupont_jean.jpg"},
		{"png", "selfie.png", "dupont_jean.png"},
		{"double extension keeps last", "scan.tar.GZ", "dupont_jean.gz"},
		{"trailing dot", "photo.", "dupont_jean.jpg"},
		{"hidden file", ".jpeg", "dupont_jean.jpg"},
		{"path prefix", `C:\Users\me\face.Webp`, "dupont_jean.webp"},
		{"empty", "", "dupont_jean.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ObjectKey("dupont", "jean", tt.fileName)
			if result != tt.expected {
				t.Errorf("ObjectKey(%q) = %q, want %q", tt.fileName, result, tt.expected)
			}
		})
	}
}

func TestExternalID(t *testing.T) {
	if got := ExternalID("dupont", "jean"); got != "dupont_jean" {
		t.Errorf("ExternalID = %q, want %q", got, "dupont_jean")
	}
}
