package download

import (
	"context"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// GetResponse performs an http GET with url=u using the supplied client and
// header. It returns the response without inspecting the status code;
// callers classify status errors themselves.
func GetResponse(ctx context.Context, hc *http.Client, u string, header http.Header) (*http.Response, error) {
	log.Debugf("get: %s", u)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	return hc.Do(req)
}

// Get calls GetResponse(), requires a 2xx status, then reads the full
// response body and returns the result.
func Get(ctx context.Context, hc *http.Client, u string, header http.Header) ([]byte, error) {
	rsp, err := GetResponse(ctx, hc, u, header)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %v", err)
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode >= 300 {
		return nil, fmt.Errorf("error status: %s", rsp.Status)
	}

	return io.ReadAll(NewContextReader(ctx, rsp.Body))
}
