package fetch

import (
	"fmt"
	"strings"
)

// MaxImageBytes is the largest declared content length accepted by a
// session: 50 MiB.
const MaxImageBytes = 50 * 1024 * 1024

// CheckContent decides whether a response is safe to accept based on its
// declared headers alone; it never reads the body. A contentLength of -1
// indicates the server did not declare a length, which is not grounds for
// rejection.
func CheckContent(contentType string, contentLength int64) error {
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("not an image (content-type: %q)", contentType)
	}

	if contentLength > MaxImageBytes {
		return fmt.Errorf("file too large (%d bytes, limit %d)", contentLength, MaxImageBytes)
	}

	return nil
}
