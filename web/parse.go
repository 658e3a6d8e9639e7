package web

import (
	"io"
	"net/url"

	"golang.org/x/net/html"
)

// extractLinkFromNode returns the href anchor text associated with the given
// html node. It returns the empty string if the node is not a link.
func extractLinkFromNode(n *html.Node) string {
	if n.Type != html.ElementNode || n.Data != "a" {
		return ""
	}

	for _, a := range n.Attr {
		if a.Key == "href" {
			return a.Val
		}
	}

	return ""
}

// ForEachNode applies a function to the given node and each of its
// descendants.
func ForEachNode(node *html.Node, fn func(n *html.Node) error) error {
	var iter func(n *html.Node) error
	iter = func(n *html.Node) error {
		err := fn(n)
		if err != nil {
			return err
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			err := iter(c)
			if err != nil {
				return err
			}
		}

		return nil
	}

	return iter(node)
}

// ForEachLink applies a function to each `a href` element in the given html
// node and its descendants.
func ForEachLink(node *html.Node, fn func(n *html.Node) error) error {
	return ForEachNode(node, func(n *html.Node) error {
		if extractLinkFromNode(n) != "" {
			return fn(n)
		}
		return nil
	})
}

// ImageURLs parses the html document in r and returns the urls of all
// embedded images. Relative src attributes are resolved against baseURL.
func ImageURLs(r io.Reader, baseURL string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	var urls []string
	ForEachNode(doc, func(n *html.Node) error {
		if n.Type != html.ElementNode || n.Data != "img" {
			return nil
		}
		for _, a := range n.Attr {
			if a.Key == "src" && a.Val != "" {
				ref, err := url.Parse(a.Val)
				if err == nil {
					urls = append(urls, base.ResolveReference(ref).String())
				}
				break
			}
		}
		return nil
	})

	return urls, nil
}
