package identity

import "strings"

// DefaultExtension is used when the uploaded file name carries no extension.
const DefaultExtension = ".jpg"

// Extension returns the lowercased last dot-delimited suffix of a file name,
// including the leading dot. "archive.tar.GZ" yields ".gz"; names without a
// suffix (or ending in a bare dot) yield DefaultExtension.
func Extension(fileName string) string {
	base := fileName
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}

	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return DefaultExtension
	}
	return strings.ToLower(base[i:])
}

// ExternalID is the correlation value handed to the face indexer: both
// fragments joined by Separator, i.e. the object key without its extension.
func ExternalID(lastnameFragment, firstnameFragment string) string {
	return lastnameFragment + Separator + firstnameFragment
}

// ObjectKey builds the storage key "{lastname}_{firstname}{ext}" for an upload.
func ObjectKey(lastnameFragment, firstnameFragment, originalFileName string) string {
	return ExternalID(lastnameFragment, firstnameFragment) + Extension(originalFileName)
}
