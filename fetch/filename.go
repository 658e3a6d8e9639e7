package fetch

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/flytam/filenamify"
	log "github.com/sirupsen/logrus"
)

var extByType = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/bmp":     ".bmp",
	"image/svg+xml": ".svg",
	"image/tiff":    ".tiff",
}

// ResolveFilename derives a local filename for an image fetched from
// rawURL. It uses the last segment of the URL path when that segment
// carries an extension; otherwise it synthesizes a timestamped name with
// an extension mapped from the declared content type. The returned name
// contains only alphanumerics, '.', '-' and '_'.
func ResolveFilename(rawURL string, contentType string) string {
	var name string
	if u, err := url.Parse(rawURL); err == nil {
		name = path.Base(u.Path)
	}

	name = sanitizeFilename(name)

	// A segment can sanitize down to nothing, or to a bare extension
	// with no stem (".." and dot-only segments do both). Only a name
	// with a stem and an extension is kept; anything else would escape
	// or collide with the destination directory once joined to it.
	if !hasStemAndExt(name) {
		name = fmt.Sprintf("image_%d%s", time.Now().Unix(), extForType(contentType))
		log.Debugf("synthesized filename: url=%s name=%s", rawURL, name)
	}

	return name
}

// hasStemAndExt returns true if the given name carries both a non-empty
// stem and an extension.
func hasStemAndExt(name string) bool {
	ext := path.Ext(name)
	return ext != "" && strings.TrimSuffix(name, ext) != ""
}

// extForType maps a declared content type to a file extension. Unknown
// types fall back to .jpg.
func extForType(contentType string) string {
	mt := contentType
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	mt = strings.ToLower(strings.TrimSpace(mt))

	if ext, ok := extByType[mt]; ok {
		return ext
	}
	return ".jpg"
}

// sanitizeFilename strips every character that is not alphanumeric, '.',
// '-' or '_'.
func sanitizeFilename(name string) string {
	clean, err := filenamify.Filenamify(name, filenamify.Options{})
	if err != nil {
		clean = name
	}

	sb := strings.Builder{}
	for _, r := range clean {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
