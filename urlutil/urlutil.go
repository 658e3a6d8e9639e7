package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrEmptyURL   = errors.New("URL cannot be empty")
	ErrInvalidURL = errors.New("Invalid URL format")
)

// Normalize validates a raw URL string and converts it to a well-formed
// absolute URL. Input with no scheme prefix is assumed to be https. It
// returns ErrEmptyURL or ErrInvalidURL if the input cannot be salvaged.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyURL
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", ErrInvalidURL
	}

	return u.String(), nil
}
