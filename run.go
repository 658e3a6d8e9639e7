package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ccollins476ad/imgfetch/download"
	"github.com/ccollins476ad/imgfetch/fetch"
	"github.com/ccollins476ad/imgfetch/media"
	"github.com/ccollins476ad/imgfetch/media/imgur"
	"github.com/ccollins476ad/imgfetch/media/postimg"
	"github.com/ccollins476ad/imgfetch/urlutil"
	"github.com/ccollins476ad/imgfetch/web"
	log "github.com/sirupsen/logrus"
	"mvdan.cc/xurls/v2"
)

// collectURLs gathers candidate urls from the command line and, if
// configured, from a url file.
func collectURLs(cfg *Config, args []string) ([]string, error) {
	urls := append([]string{}, args...)

	if cfg.URLFile != "" {
		fromFile, err := readURLFile(cfg.URLFile)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}

	return urls, nil
}

// readURLFile extracts candidate urls from a text file. Each line
// contributes the urls embedded in it; a non-blank line with no embedded
// url is treated as a bare candidate (e.g., "example.com/cat.png").
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rx := xurls.Strict()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		found := rx.FindAllString(line, -1)
		if len(found) == 0 {
			urls = append(urls, line)
			continue
		}
		urls = append(urls, found...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return urls, nil
}

// runBatch runs one batch of urls through the fetch session and prints a
// per-item report plus a summary line.
func runBatch(ctx context.Context, cfg *Config, s *fetch.Session, urls []string) fetch.BatchSummary {
	if cfg.Page {
		urls = expandPages(ctx, s, urls)
	}
	urls = expandURLs(ctx, urls)

	sum := s.FetchAll(ctx, urls)

	for _, r := range sum.Results {
		printResult(r)
	}
	fmt.Printf("fetched %d image(s), %d failure(s)\n", sum.Succeeded, sum.Failed)

	if cfg.Gallery {
		writeGallery(cfg, s, sum)
	}

	return sum
}

func printResult(r fetch.Result) {
	if r.OK() {
		fmt.Printf("saved: %s (%.1f KB)\n", r.Path, float64(r.Size)/1024)
	} else {
		fmt.Printf("failed: %s: %v\n", r.URL, r.Err)
	}
}

// expandURLs runs each url through the media expanders, replacing
// recognized album/gallery urls with the direct image urls they contain.
// An expander failure keeps the original url; the fetch pipeline reports
// it in the usual way.
func expandURLs(ctx context.Context, urls []string) []string {
	exps := []media.Expander{
		imgur.NewExpander(),
		postimg.NewExpander(),
	}

	var out []string
	for _, u := range urls {
		expanded, err := media.ExpandURL(ctx, exps, u)
		if err != nil {
			log.WithError(err).Errorf("failed to expand url: url=%s", u)
			out = append(out, u)
			continue
		}
		out = append(out, expanded...)
	}

	return out
}

// expandPages replaces each page url with the urls of the images embedded
// in that page. A page that cannot be fetched or parsed contributes
// nothing.
func expandPages(ctx context.Context, s *fetch.Session, pages []string) []string {
	var urls []string
	for _, p := range pages {
		found, err := pageImageURLs(ctx, s, p)
		if err != nil {
			log.WithError(err).Errorf("failed to scan page: url=%s", p)
			continue
		}

		log.Infof("found %d image(s) on %s", len(found), p)
		urls = append(urls, found...)
	}

	return urls
}

// pageImageURLs fetches a web page and returns the urls of its embedded
// images, resolved against the page url.
func pageImageURLs(ctx context.Context, s *fetch.Session, pageURL string) ([]string, error) {
	u, err := urlutil.Normalize(pageURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	b, err := download.Get(ctx, s.HTTPClient(), u, s.Header())
	if err != nil {
		return nil, err
	}

	return web.ImageURLs(bytes.NewReader(b), u)
}

// writeGallery writes an html gallery of the images saved by the given
// batch into the destination directory.
func writeGallery(cfg *Config, s *fetch.Session, sum fetch.BatchSummary) {
	var filenames []string
	for _, r := range sum.Results {
		if r.OK() {
			filenames = append(filenames, filepath.Base(r.Path))
		}
	}
	if len(filenames) == 0 {
		return
	}

	path := filepath.Join(s.DestDir(), "index.html")
	err := os.WriteFile(path, []byte(web.BuildGallery(filenames)), 0644)
	if err != nil {
		log.WithError(err).Errorf("failed to write gallery: path=%s", path)
		return
	}

	fmt.Printf("gallery: %s\n", path)
}

// interactiveLoop prompts for urls on stdin until EOF or "quit". Each
// entered line may contain any number of urls; they are fetched as one
// batch.
func interactiveLoop(ctx context.Context, cfg *Config, s *fetch.Session) {
	rx := xurls.Relaxed()
	sc := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("url> ")
		if !sc.Scan() {
			fmt.Println()
			return
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}

		urls := rx.FindAllString(line, -1)
		if len(urls) == 0 {
			// Let the normalizer produce the rejection reason.
			urls = []string{line}
		}

		runBatch(ctx, cfg, s, urls)
	}
}
