// Package fileid derives deterministic food document IDs from corpus sources.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

const prefix = "src:"

// SourceKey normalizes a corpus source for use as the storage source column.
// Local paths are cleaned; URIs such as s3://bucket/key are kept as given.
func SourceKey(source string) string {
	if strings.Contains(source, "://") {
		return source
	}
	return filepath.Clean(source)
}

// SourceID returns a stable short ID for a corpus source.
func SourceID(source string) string {
	hash := sha256.Sum256([]byte(SourceKey(source)))
	return prefix + hex.EncodeToString(hash[:8])
}

// ItemID returns the ID of the n-th food item ingested from source.
// Re-ingesting the same source reuses the same IDs.
func ItemID(source string, n int) string {
	return fmt.Sprintf("%s:%d", SourceID(source), n)
}

// IsSourceItem reports whether id was produced by ItemID for source.
func IsSourceItem(id, source string) bool {
	return strings.HasPrefix(id, SourceID(source)+":")
}
