package hashutil

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// DigestFile returns the SHA-256 digest of a file's contents as lowercase
// hex. A file that does not exist or cannot be read yields the empty
// string: absence is a valid, distinct state for requirement sources, not
// an error.
func DigestFile(path string) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() {
		_ = file.Close()
	}()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return ""
	}

	return fmt.Sprintf("%x", hash.Sum(nil))
}
