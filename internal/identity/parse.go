package identity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFormat is returned when a key cannot be split into a name pair.
var ErrInvalidFormat = errors.New("invalid key format")

// ParsedKey is the name information recovered from an object key.
type ParsedKey struct {
	LastnameFragment  string
	FirstnameFragment string
	// ExternalID is the extension-stripped key, verbatim.
	ExternalID string
}

// Lastname returns the display form of the last-name fragment.
func (p ParsedKey) Lastname() string {
	return DisplayName(p.LastnameFragment)
}

// Firstname returns the display form of the first-name fragment.
func (p ParsedKey) Firstname() string {
	return DisplayName(p.FirstnameFragment)
}

// stripExtension removes a trailing ".ext" whose suffix contains no dot or slash.
func stripExtension(key string) string {
	i := strings.LastIndex(key, ".")
	if i < 0 || strings.Contains(key[i+1:], "/") || i == len(key)-1 {
		return key
	}
	return key[:i]
}

// ParseKey recovers the name fragments from a key built by ObjectKey.
//
// The first segment is the last name. Every remaining segment is joined with
// spaces into the first name, so "van_der_berg_marie.jpg" parses to lastname
// "van" and firstname "der berg marie". Keys with fewer than two non-empty
// segments fail with ErrInvalidFormat.
func ParseKey(key string) (ParsedKey, error) {
	stem := stripExtension(key)

	var parts []string
	for _, part := range strings.Split(stem, Separator) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) < 2 {
		return ParsedKey{}, fmt.Errorf("%w: %q must look like lastname_firstname.ext", ErrInvalidFormat, key)
	}

	return ParsedKey{
		LastnameFragment:  parts[0],
		FirstnameFragment: strings.Join(parts[1:], " "),
		ExternalID:        stem,
	}, nil
}
