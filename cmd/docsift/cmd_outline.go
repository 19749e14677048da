package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/docsift/docsift/internal/batch"
	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/pdfsource"
	"github.com/docsift/docsift/internal/report"
	"github.com/docsift/docsift/internal/store"
)

// handleOutline implements the outline subcommand
func handleOutline(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("outline", flag.ExitOnError)

	var outputDir string
	var noProgress, noHistory bool

	fs.StringVar(&outputDir, "o", "output", "Directory for per-document JSON output")
	fs.BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	fs.BoolVar(&noHistory, "no-history", false, "Do not record runs in the history database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docsift outline [options] <file|dir|glob> ...

DESCRIPTION:
    Extract the title and H1/H2/H3 outline of each PDF document and write
    one <name>.json file per input into the output directory. Documents
    that fail to parse are reported and skipped; the rest of the batch
    continues.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # All PDFs in a directory
    docsift outline ./reports

    # Single file into a custom directory
    docsift outline -o out report.pdf

    # Recursive glob
    docsift outline "archive/**/*.pdf"
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: at least one document path is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	docs, err := batch.ResolveDocuments(fs.Args())
	if err != nil {
		log.Fatalf("Failed to resolve documents: %v", err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	var runs *store.RunStore
	if !noHistory {
		runs = openRunStore(cfg)
	}

	progress := batch.NewBarProgress(!noProgress && batch.DefaultProgressEnabled())
	runner := batch.NewRunner(pdfsource.NewExtractor(), cfg, runs, progress)

	outcomes := runner.ProcessAll(context.Background(), docs)

	failed := 0
	for _, out := range outcomes {
		if out.Err != nil {
			failed++
			log.Printf("Error: %s: %v", out.Document, out.Err)
			continue
		}

		name := strings.TrimSuffix(out.Document, filepath.Ext(out.Document)) + ".json"
		path := filepath.Join(outputDir, name)

		f, err := os.Create(path)
		if err != nil {
			failed++
			log.Printf("Error: failed to create %s: %v", path, err)
			continue
		}
		writeErr := report.Write(f, report.FromOutline(out.Outline))
		closeErr := f.Close()
		if writeErr != nil || closeErr != nil {
			failed++
			log.Printf("Error: failed to write %s: %v", path, writeErr)
			continue
		}

		status := ""
		if out.Status == store.StatusPartial {
			status = " (partial)"
		}
		fmt.Printf("%-40s %3d headings  %6dms%s\n", out.Document, len(out.Outline.Headings), out.Duration.Milliseconds(), status)
	}

	fmt.Printf("\nProcessed %d document(s), %d failed, output in %s\n", len(outcomes), failed, outputDir)

	if failed == len(outcomes) {
		os.Exit(1)
	}
}

// openRunStore opens the history database, or returns nil (with a
// warning) when it cannot be opened. History is best-effort.
func openRunStore(cfg *config.Config) *store.RunStore {
	path, err := databasePath(cfg)
	if err != nil {
		log.Printf("Warning: run history disabled: %v", err)
		return nil
	}
	db, err := store.Open(path)
	if err != nil {
		log.Printf("Warning: run history disabled: %v", err)
		return nil
	}
	return store.NewRunStore(db)
}
