package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ComputeFileHash returns the hex-encoded SHA256 digest of the file at
// path, used as the Entry.Hash an Oracle implementation may compare
// against the build record to detect a change mtime alone missed (a
// checkout that resets timestamps, for instance).
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- path is a build input/output the caller already resolved
	if err != nil {
		return "", fmt.Errorf("incremental: hashing %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("incremental: hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
