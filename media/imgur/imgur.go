package imgur

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ccollins476ad/imgfetch/download"
	"github.com/koffeinsource/go-imgur"
	log "github.com/sirupsen/logrus"
)

const (
	clientID = "ab1802d70cb1deb"

	defaultAPIBase = "https://api.imgur.com/3/album/"
)

var getHeader = http.Header{
	"Authorization": []string{"Client-ID " + clientID},
	"referer":       []string{"https://imgur.com/"},
	"origin":        []string{"https://imgur.com"},
	"content-type":  []string{"application/json"},
	"user-agent":    []string{"curl/7.84.0"},
}

type albumInfoDataWrapper struct {
	AI      *imgur.AlbumInfo `json:"data"`
	Success bool             `json:"success"`
	Status  int              `json:"status"`
}

// Expander resolves imgur album and image-page urls to direct image urls.
// It implements the media.Expander interface.
type Expander struct {
	hc      *http.Client
	apiBase string
}

func NewExpander() *Expander {
	return &Expander{
		hc:      &http.Client{},
		apiBase: defaultAPIBase,
	}
}

// Expand resolves imgur urls. Albums expand to the urls of their
// constituent images; bare image-page urls rewrite to the direct i.imgur
// form. See media.Expander#Expand for API details.
func (e *Expander) Expand(ctx context.Context, u string) ([]string, error) {
	// Album.
	if strings.HasPrefix(u, "https://imgur.com/a/") {
		return e.albumLinks(ctx, u)
	}

	// Direct image urls need no rewriting.
	if strings.HasPrefix(u, "https://i.imgur.com/") {
		return nil, nil
	}

	// Alternate image url format:
	//     https://imgur.com/<image_id>
	imageID := strings.TrimPrefix(u, "https://imgur.com/")
	if imageID != u && len(imageID) == 7 && !strings.Contains(imageID, "/") {
		return []string{"https://i.imgur.com/" + imageID + ".jpeg"}, nil
	}

	return nil, nil
}

// albumLinks reads the imgur album at the specified url and returns the urls
// of all its images.
func (e *Expander) albumLinks(ctx context.Context, u string) ([]string, error) {
	log.Debugf("scanning imgur album: %s", u)

	trimmed := strings.TrimPrefix(u, "https://imgur.com/a/")
	if len(trimmed) < 7 {
		return nil, fmt.Errorf("imgur album hash length too short: have=%d want=7 hash=%s", len(trimmed), trimmed)
	}
	if len(trimmed) > 7 {
		hash := trimmed[len(trimmed)-7:]
		log.Debugf("removing imgur album prefix: %s --> %s", trimmed, hash)
		trimmed = hash
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	b, err := download.Get(ctx, e.hc, e.apiBase+trimmed, getHeader)
	if err != nil {
		return nil, err
	}

	aidw := &albumInfoDataWrapper{}
	err = json.Unmarshal(b, aidw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode album info: %w", err)
	}

	if !aidw.Success {
		return nil, fmt.Errorf("album info response has success=false")
	}

	var links []string
	for _, img := range aidw.AI.Images {
		log.Debugf("detected imgur album image link: %s", img.Link)
		links = append(links, img.Link)
	}

	return links, nil
}
