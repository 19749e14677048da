package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/store"
)

// handleStats implements the stats subcommand
func handleStats(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var jsonOutput bool
	var recent int
	fs.BoolVar(&jsonOutput, "json", false, "Output as JSON")
	fs.IntVar(&recent, "recent", 10, "Number of recent runs to list")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    docsift stats [options]

DESCRIPTION:
    Show run history and embedding cache statistics.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Show human-readable statistics
    docsift stats

    # JSON output
    docsift stats -json
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	path, err := databasePath(cfg)
	if err != nil {
		log.Fatalf("Failed to resolve database path: %v", err)
	}
	db, err := store.Open(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	dbStats, err := db.Stats()
	if err != nil {
		log.Fatalf("Failed to read statistics: %v", err)
	}

	runs := store.NewRunStore(db)
	byStatus, err := runs.CountByStatus()
	if err != nil {
		log.Fatalf("Failed to read run history: %v", err)
	}
	recentRuns, err := runs.Recent(recent)
	if err != nil {
		log.Fatalf("Failed to read run history: %v", err)
	}

	if jsonOutput {
		out := map[string]interface{}{
			"database":       path,
			"size_bytes":     dbStats.SizeBytes,
			"runs":           dbStats.RunCount,
			"embeddings":     dbStats.EmbeddingCount,
			"runs_by_status": byStatus,
			"recent_runs":    recentRuns,
		}
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("Statistics")
	fmt.Println()
	fmt.Printf("Database:   %s (%d bytes)\n", path, dbStats.SizeBytes)
	fmt.Printf("Runs:       %6d (success %d, partial %d, failed %d)\n",
		dbStats.RunCount,
		byStatus[store.StatusSuccess],
		byStatus[store.StatusPartial],
		byStatus[store.StatusFailed])
	fmt.Printf("Embeddings: %6d cached\n", dbStats.EmbeddingCount)

	if len(recentRuns) > 0 {
		fmt.Println()
		fmt.Println("Recent runs:")
		for _, run := range recentRuns {
			detail := ""
			if run.Detail != "" {
				detail = " - " + run.Detail
			}
			fmt.Printf("  %s  %-7s  %-8s  %s (%d headings, %d sections)%s\n",
				run.Created.Format("2006-01-02 15:04"),
				run.Command,
				run.Status,
				run.Document,
				run.Headings,
				run.Sections,
				detail)
		}
	}
}
