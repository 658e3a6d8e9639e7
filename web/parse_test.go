package web

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageURLs(t *testing.T) {
	doc := `<html><body>
<img src="https://cdn.example.com/a.png">
<img src="/images/b.jpg" alt="b">
<img src="c.gif">
<img alt="no src">
<p>not an image</p>
</body></html>`

	urls, err := ImageURLs(strings.NewReader(doc), "https://example.com/posts/1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://cdn.example.com/a.png",
		"https://example.com/images/b.jpg",
		"https://example.com/posts/c.gif",
	}, urls)
}

func TestImageURLsEmptyDocument(t *testing.T) {
	urls, err := ImageURLs(strings.NewReader("<html></html>"), "https://example.com")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestBuildGallery(t *testing.T) {
	g := BuildGallery([]string{"a.png", "b.jpg"})

	assert.Contains(t, g, `<img src="a.png"`)
	assert.Contains(t, g, `<img src="b.jpg"`)
	assert.True(t, strings.HasPrefix(g, "<!DOCTYPE html>"))
}
