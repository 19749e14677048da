package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/docsift/docsift/internal/batch"
	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/embedding"
	"github.com/docsift/docsift/internal/pdfsource"
	"github.com/docsift/docsift/internal/rank"
	"github.com/docsift/docsift/internal/report"
	"github.com/docsift/docsift/internal/section"
	"github.com/docsift/docsift/internal/store"
)

// handleRank implements the rank subcommand
func handleRank(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)

	var persona, job, outputPath string
	var noProgress, noCache, keywordOnly bool

	fs.StringVar(&persona, "persona", "", "Persona description (required)")
	fs.StringVar(&job, "job", "", "Job-to-be-done description (required)")
	fs.StringVar(&outputPath, "o", "", "Output file (default: stdout)")
	fs.BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	fs.BoolVar(&noCache, "no-cache", false, "Do not cache embeddings in the local database")
	fs.BoolVar(&keywordOnly, "keyword-only", false, "Skip embeddings and rank by keyword scoring only")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docsift rank -persona "<persona>" -job "<job>" <file|dir|glob> ...

DESCRIPTION:
    Extract sections from the given PDF documents and rank them by
    relevance to the persona and job-to-be-done, including passage-level
    refinement of the top sections. Emits a single JSON report.

    When the embedding provider is unreachable the whole run falls back
    to keyword scoring so that all scores stay comparable.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Rank a document collection for a travel planner
    docsift rank -persona "Travel Planner" -job "Plan a 4-day trip for college friends" ./guides

    # Write the report to a file
    docsift rank -persona "HR professional" -job "Create onboarding forms" -o report.json forms/*.pdf
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if persona == "" || job == "" {
		fmt.Fprintf(os.Stderr, "Error: -persona and -job are required\n\n")
		fs.Usage()
		os.Exit(1)
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

	var (
		db    *store.DB
		runs  *store.RunStore
		cache embedding.Cache
	)
	if path, pathErr := databasePath(cfg); pathErr == nil {
		if db, err = store.Open(path); err != nil {
			log.Printf("Warning: history and embedding cache disabled: %v", err)
			db = nil
		}
	}
	if db != nil {
		defer db.Close()
		runs = store.NewRunStore(db)
		if !noCache {
			cache = store.NewVectorCache(db)
		}
	}

	ctx := context.Background()

	// A nil service makes the ranker score lexically from the start.
	var svc *embedding.Service
	if !keywordOnly {
		svc, err = embedding.NewService(ctx, &cfg.Embedding, cache)
		if err != nil {
			if cfg.Ranking.DisableLexicalFallback {
				log.Fatalf("Embedding provider unavailable: %v", err)
			}
			log.Printf("Warning: embedding provider unavailable, using lexical scoring: %v", err)
			svc = nil
		}
	}

	// Extract sections from every document; per-document failures are
	// reported and skipped.
	progress := batch.NewBarProgress(!noProgress && batch.DefaultProgressEnabled())
	runner := batch.NewRunner(pdfsource.NewExtractor(), cfg, runs, progress)
	outcomes := runner.ProcessAll(ctx, docs)

	var sections []section.Section
	var documents []string
	degraded := false
	for _, out := range outcomes {
		documents = append(documents, out.Document)
		if out.Err != nil {
			log.Printf("Error: %s: %v", out.Document, out.Err)
			continue
		}
		if out.Status == store.StatusPartial {
			degraded = true
		}
		sections = append(sections, out.Sections...)
	}
	if len(sections) == 0 {
		log.Fatalf("No sections extracted from %d document(s)", len(docs))
	}

	rk := rank.NewRanker(svc, cfg.Ranking, cfg.Embedding.MaxWorkers)

	ranked, err := rk.Rank(ctx, persona, job, sections)
	if err != nil {
		if embedding.IsUnavailable(err) {
			// Only reachable with the lexical fallback disabled.
			log.Fatalf("Embedding provider unavailable: %v", err)
		}
		log.Printf("Warning: ranking incomplete: %v", err)
		degraded = true
	}

	insights, err := rk.AnalyzeSubsections(ctx, persona, job, ranked)
	if err != nil {
		log.Printf("Warning: subsection analysis incomplete: %v", err)
		degraded = true
	}

	rep := report.BuildRanking(documents, persona, job, ranked, insights, degraded)

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			log.Fatalf("Failed to create output file: %v", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.Write(out, rep); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if runs != nil {
		status := store.StatusSuccess
		if degraded {
			status = store.StatusPartial
		}
		run := store.Run{
			Command:  "rank",
			Document: fmt.Sprintf("%d document(s)", len(docs)),
			Status:   status,
			Sections: len(sections),
		}
		if err := runs.Record(run); err != nil {
			log.Printf("Warning: failed to record run: %v", err)
		}
	}

	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Ranked %d section(s) from %d document(s), report written to %s\n", len(sections), len(docs), outputPath)
	}
}
