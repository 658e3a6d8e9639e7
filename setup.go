package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

type Config struct {
	DestDir string // Directory to save fetched images to.
	URLFile string // Optional file to extract candidate urls from.
	Page    bool   // Treat arguments as web pages; fetch their embedded images.
	Gallery bool   // Write an html gallery of saved images after each batch.
	Verbose bool   // True for verbose output.
}

func parseArgs() (*Config, []string) {
	destDir := flag.String("d", "Fetched_Images", "destination directory")
	urlFile := flag.String("f", "", "file to extract candidate urls from")
	page := flag.Bool("page", false, "fetch the images embedded in the given web pages")
	gallery := flag.Bool("gallery", false, "write an html gallery after fetching")
	verbose := flag.Bool("v", false, "verbose output")

	flag.Usage = usage
	flag.Parse()

	return &Config{
		DestDir: *destDir,
		URLFile: *urlFile,
		Page:    *page,
		Gallery: *gallery,
		Verbose: *verbose,
	}, flag.Args()
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [option]... [url]...\n", filepath.Base(os.Args[0]))
	fmt.Fprintf(flag.CommandLine.Output(), "Fetches images from the web into a local directory.\n")
	fmt.Fprintf(flag.CommandLine.Output(), "With no urls, reads them interactively from stdin.\n")
	flag.PrintDefaults()
}
