package postimg

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ccollins476ad/imgfetch/download"
	"github.com/ccollins476ad/imgfetch/web"
	"golang.org/x/net/html"
	log "github.com/sirupsen/logrus"
)

var linkRegexp = regexp.MustCompile(`background-image:url\('(https://i.postimg.cc/[^']+)'\)`)

// Expander resolves postimg gallery urls to the direct urls of their
// images. It implements the media.Expander interface.
type Expander struct {
	hc *http.Client
}

func NewExpander() *Expander {
	return &Expander{
		hc: &http.Client{},
	}
}

// Expand resolves postimg galleries. See media.Expander#Expand for API
// details.
func (e *Expander) Expand(ctx context.Context, u string) ([]string, error) {
	if strings.HasPrefix(u, "https://postimg.cc/gallery/") {
		return e.galleryLinks(ctx, u)
	}
	return nil, nil
}

// galleryLinks reads the postimg gallery at the specified url and returns
// the direct urls of all its images.
func (e *Expander) galleryLinks(ctx context.Context, u string) ([]string, error) {
	log.Debugf("scanning postimg gallery: %s", u)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	b, err := download.Get(ctx, e.hc, u, nil)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	return parseGallery(doc), nil
}

// parseGallery extracts the direct urls of all images from a postimg
// gallery document. Each gallery entry is a link whose style attribute
// embeds the full-size image url.
func parseGallery(doc *html.Node) []string {
	var urls []string

	web.ForEachLink(doc, func(n *html.Node) error {
		for _, a := range n.Attr {
			if a.Key != "style" {
				continue
			}
			matches := linkRegexp.FindStringSubmatch(a.Val)
			if len(matches) > 0 {
				urls = append(urls, matches[1])
			}
		}
		return nil
	})

	return urls
}
