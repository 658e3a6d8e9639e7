package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ccollins476ad/imgfetch/fetch"
	log "github.com/sirupsen/logrus"
)

func printFatalError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func main() {
	cfg, args := parseArgs()

	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	urls, err := collectURLs(cfg, args)
	if err != nil {
		printFatalError(err)
		os.Exit(1)
	}

	s := fetch.NewSession(cfg.DestDir)
	if err := s.EnsureDir(); err != nil {
		// The one unrecoverable condition: nowhere to save anything.
		printFatalError(err)
		os.Exit(2)
	}

	ctx := context.Background()

	if len(urls) == 0 {
		interactiveLoop(ctx, cfg, s)
		return
	}

	runBatch(ctx, cfg, s, urls)
}
