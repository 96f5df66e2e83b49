// Package identity derives storage keys and display names from free-text person names.
//
// Two independent normalizations exist: key fragments are ASCII and identifier-safe,
// display names keep accents and are title-cased. Building a key (ObjectKey) and
// recovering names from a key (ParseKey) are separate functions on purpose.
package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// Separator joins name fragments inside object keys and external ids.
	Separator = "_"

	// UnknownFragment is returned by KeyFragment when nothing usable remains.
	UnknownFragment = "unknown"

	// UnknownName is returned by DisplayName for blank input.
	UnknownName = "Unknown"
)

// stripMarks decomposes the string and drops combining marks ("é" -> "e").
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return result
}

// KeyFragment turns a raw name into a storage-safe fragment: lowercase ASCII
// letters and digits, runs of anything else collapsed into a single Separator,
// no leading or trailing separator. Empty results become UnknownFragment.
func KeyFragment(raw string) string {
	s := stripMarks(strings.ToLower(strings.TrimSpace(raw)))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteString(Separator)
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	if b.Len() == 0 {
		return UnknownFragment
	}
	return b.String()
}

func isNameBreak(r rune) bool {
	return unicode.IsSpace(r) || r == '_' || r == '-'
}

// DisplayName formats a raw name for humans: parts split on whitespace,
// hyphens and underscores, each part lowercased with its first letter
// upper-cased, joined by single spaces. Diacritics are preserved.
func DisplayName(raw string) string {
	parts := strings.FieldsFunc(strings.ToLower(strings.TrimSpace(raw)), isNameBreak)
	if len(parts) == 0 {
		return UnknownName
	}

	for i, part := range parts {
		rs := []rune(part)
		rs[0] = unicode.ToUpper(rs[0])
		parts[i] = string(rs)
	}
	return strings.Join(parts, " ")
}
