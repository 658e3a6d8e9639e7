package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSession returns a session writing to a fresh temp directory, with
// batch pacing disabled for speed.
func testSession(t *testing.T) *Session {
	t.Helper()

	s := NewSession(t.TempDir())
	s.pause = 0
	require.NoError(t, s.EnsureDir())
	return s
}

func serveImage(t *testing.T, contentType string, body []byte) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write(body)
	}))
}

func TestFetchSuccess(t *testing.T) {
	body := []byte("png bytes")
	srv := serveImage(t, "image/png", body)
	defer srv.Close()

	s := testSession(t)
	r := s.Fetch(context.Background(), srv.URL+"/cat.png")

	require.True(t, r.OK(), "fetch failed: %v", r.Err)
	assert.Equal(t, filepath.Join(s.DestDir(), "cat.png"), r.Path)
	assert.Equal(t, int64(len(body)), r.Size)

	saved, err := os.ReadFile(r.Path)
	require.NoError(t, err)
	assert.Equal(t, body, saved)
}

func TestFetchSendsUserAgent(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("x"))
	}))
	defer srv.Close()

	s := testSession(t)
	r := s.Fetch(context.Background(), srv.URL+"/a.png")

	require.True(t, r.OK(), "fetch failed: %v", r.Err)
	assert.Equal(t, userAgent, gotAgent)
}

func TestFetchInvalidURL(t *testing.T) {
	s := testSession(t)

	r := s.Fetch(context.Background(), "   ")
	require.False(t, r.OK())
	assert.Contains(t, r.Err.Error(), "cannot be empty")
}

func TestFetchStatusErrors(t *testing.T) {
	tests := []struct {
		code    int
		wantErr string
	}{
		{http.StatusNotFound, "not found"},
		{http.StatusForbidden, "forbidden"},
		{http.StatusInternalServerError, "HTTP error 500"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.code), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
			}))
			defer srv.Close()

			s := testSession(t)
			r := s.Fetch(context.Background(), srv.URL+"/x.png")

			require.False(t, r.OK())
			assert.Contains(t, r.Err.Error(), tt.wantErr)
		})
	}
}

func TestFetchRejectsNonImage(t *testing.T) {
	srv := serveImage(t, "text/html", []byte("<html></html>"))
	defer srv.Close()

	s := testSession(t)
	r := s.Fetch(context.Background(), srv.URL+"/page.png")

	require.False(t, r.OK())
	assert.Contains(t, r.Err.Error(), "safety check failed")
	assert.Contains(t, r.Err.Error(), "text/html")

	entries, err := os.ReadDir(s.DestDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchRejectsOversized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", fmt.Sprint(MaxImageBytes+1))
		// Body deliberately not written in full; the check rejects on
		// headers alone.
	}))
	defer srv.Close()

	s := testSession(t)
	r := s.Fetch(context.Background(), srv.URL+"/huge.png")

	require.False(t, r.OK())
	assert.Contains(t, r.Err.Error(), "file too large")
}

func TestFetchDuplicate(t *testing.T) {
	srv := serveImage(t, "image/png", []byte("same bytes"))
	defer srv.Close()

	s := testSession(t)

	r1 := s.Fetch(context.Background(), srv.URL+"/first.png")
	require.True(t, r1.OK(), "fetch failed: %v", r1.Err)

	// Different URL, identical payload.
	r2 := s.Fetch(context.Background(), srv.URL+"/second.png")
	require.False(t, r2.OK())
	assert.ErrorIs(t, r2.Err, ErrDuplicate)

	// Only the first file was written.
	entries, err := os.ReadDir(s.DestDir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "first.png", entries[0].Name())
}

func TestFetchCollisionSuffix(t *testing.T) {
	n := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		w.Header().Set("Content-Type", "image/png")
		fmt.Fprintf(w, "payload %d", n)
	}))
	defer srv.Close()

	s := testSession(t)

	for i, want := range []string{"img.png", "img_1.png", "img_2.png"} {
		r := s.Fetch(context.Background(), srv.URL+"/img.png")
		require.True(t, r.OK(), "fetch %d failed: %v", i, r.Err)
		assert.Equal(t, filepath.Join(s.DestDir(), want), r.Path)
	}
}

func TestFetchPathStaysInDestDir(t *testing.T) {
	n := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		w.Header().Set("Content-Type", "image/png")
		fmt.Fprintf(w, "payload %d", n)
	}))
	defer srv.Close()

	s := testSession(t)

	// Path segments that sanitize to nothing must still produce a file
	// inside the destination directory, never a sibling of it.
	for _, suffix := range []string{"/a/..", "/%E4%B8%AD.%E6%96%87"} {
		r := s.Fetch(context.Background(), srv.URL+suffix)
		require.True(t, r.OK(), "fetch of %s failed: %v", suffix, r.Err)
		assert.Equal(t, s.DestDir(), filepath.Dir(r.Path))
		assert.True(t, strings.HasPrefix(filepath.Base(r.Path), "image_"), "got %q", r.Path)
	}
}

func TestFetchTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	s := testSession(t)
	s.timeout = 50 * time.Millisecond

	r := s.Fetch(context.Background(), srv.URL+"/slow.png")
	require.False(t, r.OK())
	assert.Contains(t, r.Err.Error(), "timed out")
}

func TestFetchConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u := srv.URL
	srv.Close() // Nothing is listening any more.

	s := testSession(t)
	r := s.Fetch(context.Background(), u+"/x.png")

	require.False(t, r.OK())
	assert.Contains(t, r.Err.Error(), "connection failed")
}

func TestFetchWriteFailureKeepsDigestUnseen(t *testing.T) {
	srv := serveImage(t, "image/png", []byte("bytes"))
	defer srv.Close()

	// Point the session at a path occupied by a regular file so that
	// writes beneath it fail.
	blocker := filepath.Join(t.TempDir(), "dest")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	s := NewSession(blocker)
	s.pause = 0

	r1 := s.Fetch(context.Background(), srv.URL+"/a.png")
	require.False(t, r1.OK())
	assert.Contains(t, r1.Err.Error(), "failed to save file")

	// The digest was not recorded, so a retry succeeds rather than being
	// reported as a duplicate.
	require.NoError(t, os.Remove(blocker))
	require.NoError(t, s.EnsureDir())

	r2 := s.Fetch(context.Background(), srv.URL+"/a.png")
	require.True(t, r2.OK(), "fetch failed: %v", r2.Err)
	assert.False(t, strings.Contains(r2.Path, "_1"))
}
