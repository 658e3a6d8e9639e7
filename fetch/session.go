package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ccollins476ad/imgfetch/download"
	"github.com/ccollins476ad/imgfetch/fileutil"
	"github.com/ccollins476ad/imgfetch/urlutil"
	log "github.com/sirupsen/logrus"
)

const (
	userAgent      = "imgfetch/1.0 (Web Crawler)"
	requestTimeout = 15 * time.Second
)

// ErrDuplicate reports a payload whose digest has already been saved this
// session.
var ErrDuplicate = errors.New("Duplicate image (already downloaded)")

// Session fetches images into a destination directory, deduplicating by
// content digest for its lifetime. Digests are not persisted across runs.
type Session struct {
	destDir string // constant
	hc      *http.Client
	header  http.Header
	timeout time.Duration // per-request budget
	pause   time.Duration // delay between batch items

	seenMtx sync.Mutex          // Protects the "seen" field.
	seen    map[string]struct{} // Digests of payloads already saved.
}

func NewSession(destDir string) *Session {
	return &Session{
		destDir: destDir,
		hc:      &http.Client{},
		header:  http.Header{"User-Agent": []string{userAgent}},
		timeout: requestTimeout,
		pause:   batchPause,
		seen:    map[string]struct{}{},
	}
}

// EnsureDir creates the session's destination directory if it does not
// already exist. It must succeed before any fetch is attempted.
func (s *Session) EnsureDir() error {
	err := fileutil.EnsureDir(s.destDir)
	if err != nil {
		return fmt.Errorf("failed to create directory %q: %v", s.destDir, err)
	}
	return nil
}

// DestDir returns the session's destination directory.
func (s *Session) DestDir() string {
	return s.destDir
}

// HTTPClient returns the session's http client.
func (s *Session) HTTPClient() *http.Client {
	return s.hc
}

// Header returns the header the session attaches to every request.
func (s *Session) Header() http.Header {
	return s.header
}

// Fetch downloads the image at rawURL into the session's destination
// directory. It performs exactly one request; every failure mode is
// reported in the result and no failure aborts the process.
func (s *Session) Fetch(ctx context.Context, rawURL string) Result {
	u, err := urlutil.Normalize(rawURL)
	if err != nil {
		return failure(rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rsp, err := download.GetResponse(ctx, s.hc, u, s.header)
	if err != nil {
		return failure(u, s.transportErr(err))
	}
	defer rsp.Body.Close()

	if err := statusErr(rsp.StatusCode); err != nil {
		return failure(u, err)
	}

	contentType := rsp.Header.Get("Content-Type")
	if err := CheckContent(contentType, rsp.ContentLength); err != nil {
		return failure(u, fmt.Errorf("safety check failed: %v", err))
	}

	b, err := io.ReadAll(download.NewContextReader(ctx, rsp.Body))
	if err != nil {
		return failure(u, s.transportErr(err))
	}

	digest := Digest(b)
	if s.seenBefore(digest) {
		log.Debugf("skipping %s: digest already seen: %s", u, digest)
		return failure(u, ErrDuplicate)
	}

	filename := ResolveFilename(u, contentType)
	destPath := fileutil.NextAvailablePath(filepath.Join(s.destDir, filename))

	log.Infof("saving %s", destPath)
	err = os.WriteFile(destPath, b, 0644)
	if err != nil {
		return failure(u, fmt.Errorf("failed to save file: %v", err))
	}

	// Record the digest only now that the bytes are on disk.
	s.record(digest)

	return success(u, destPath, int64(len(b)))
}

// seenBefore returns true if the session has already saved a payload with
// the given digest. It does not record anything; digests are recorded
// only after a successful write.
func (s *Session) seenBefore(digest string) bool {
	s.seenMtx.Lock()
	defer s.seenMtx.Unlock()

	_, ok := s.seen[digest]
	return ok
}

func (s *Session) record(digest string) {
	s.seenMtx.Lock()
	defer s.seenMtx.Unlock()

	s.seen[digest] = struct{}{}
}

// statusErr converts an http status code to a user-facing error. It
// returns nil for 2xx codes.
func statusErr(code int) error {
	switch {
	case code == http.StatusNotFound:
		return errors.New("image not found (HTTP 404)")
	case code == http.StatusForbidden:
		return errors.New("access forbidden (HTTP 403)")
	case code < 200 || code >= 300:
		return fmt.Errorf("HTTP error %d", code)
	}
	return nil
}

// transportErr converts a transport-level failure to a user-facing error,
// distinguishing timeouts and connection failures from everything else.
func (s *Session) transportErr(err error) error {
	var nerr net.Error
	var opErr *net.OpError

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("request timed out after %v", s.timeout)
	case errors.As(err, &nerr) && nerr.Timeout():
		return fmt.Errorf("request timed out after %v", s.timeout)
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return fmt.Errorf("connection failed: %v", err)
	default:
		return fmt.Errorf("request failed: %v", err)
	}
}
