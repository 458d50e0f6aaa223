// Package fileid derives stable document ids from file paths for watched and
// CLI-ingested files.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "file:"

// FileDocID returns a stable document id for the given absolute path, so
// re-ingesting and deleting by path always address the same document.
func FileDocID(absolutePath string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(absolutePath)))
	return prefix + hex.EncodeToString(sum[:])
}
