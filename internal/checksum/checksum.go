// Package checksum fingerprints report files so an upload seen before can be
// recognized without parsing it again.
package checksum

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// File returns the hex xxhash digest of a file's content
func File(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("failed to hash file %s: %w", path, err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Bytes returns the hex xxhash digest of data
func Bytes(data []byte) string {
	digest := xxhash.New()
	_, _ = digest.Write(data)
	return hex.EncodeToString(digest.Sum(nil))
}
