package media

import "context"

// Expander maps a URL to the direct image URLs behind it. Most expander
// implementations only recognize a particular image host (e.g., imgur
// albums).
type Expander interface {
	// Expand returns the direct image urls that the given url points to.
	// It returns nil (and no error) if it does not recognize the url.
	Expand(ctx context.Context, u string) ([]string, error)
}

// ExpandURL consults each expander in order and returns the first match
// for u. It returns u itself if no expander recognizes it.
func ExpandURL(ctx context.Context, exps []Expander, u string) ([]string, error) {
	for _, e := range exps {
		urls, err := e.Expand(ctx, u)
		if err != nil {
			return nil, err
		}
		if len(urls) > 0 {
			return urls, nil
		}
	}

	return []string{u}, nil
}
