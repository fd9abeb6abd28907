package records

import "github.com/spigell/hh-matcher/internal/utils"

const (
	// MaxMetadataValueLen is the longest value, in characters, stored as metadata.
	MaxMetadataValueLen = 500
	// MetadataTypeKey always carries the record type in stored metadata.
	MetadataTypeKey = "type"
)

// SanitizeMetadata flattens fields into string metadata stored next to the
// vector. Nil values are dropped, every other value is stringified and cut to
// MaxMetadataValueLen characters, and the type key is always set.
func SanitizeMetadata(fields Fields, t Type) map[string]string {
	meta := make(map[string]string, len(fields)+1)
	for key, value := range fields {
		s, ok := Stringify(value)
		if !ok {
			continue
		}
		meta[key] = utils.Truncate(s, MaxMetadataValueLen)
	}
	meta[MetadataTypeKey] = string(t)
	return meta
}
