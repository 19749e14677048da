// Package batch runs the document pipeline over one or more documents,
// isolating per-document failures and honoring the extraction time budget.
package batch

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/docsift/docsift/internal/config"
	"github.com/docsift/docsift/internal/outline"
	"github.com/docsift/docsift/internal/pdfsource"
	"github.com/docsift/docsift/internal/section"
	"github.com/docsift/docsift/internal/store"
)

// Outcome is the result of processing one document. Outcomes are
// reported independently: a failure here never aborts the batch.
type Outcome struct {
	Path     string
	Document string // base file name
	Status   string // store.StatusSuccess | StatusPartial | StatusFailed
	Err      error
	Outline  outline.Outline
	Sections []section.Section
	Duration time.Duration
}

// Runner drives the per-document pipeline: extract blocks, build the
// outline, chunk sections. Stateless between documents.
type Runner struct {
	source    pdfsource.Source
	extractor *outline.Extractor
	cfg       *config.Config
	runs      *store.RunStore // nil disables run recording
	progress  ProgressReporter
}

// NewRunner builds a batch runner. runs and progress may be nil.
func NewRunner(source pdfsource.Source, cfg *config.Config, runs *store.RunStore, progress ProgressReporter) *Runner {
	return &Runner{
		source:    source,
		extractor: outline.NewExtractor(cfg.Extraction),
		cfg:       cfg,
		runs:      runs,
		progress:  progress,
	}
}

// ProcessAll runs the pipeline over every document, continuing past
// per-document failures.
func (r *Runner) ProcessAll(ctx context.Context, paths []string) []Outcome {
	if r.progress != nil {
		r.progress.Start(len(paths))
		defer r.progress.Finish()
	}

	outcomes := make([]Outcome, 0, len(paths))
	for _, path := range paths {
		outcomes = append(outcomes, r.ProcessDocument(ctx, path))
		if r.progress != nil {
			r.progress.Increment()
		}
	}
	return outcomes
}

// ProcessDocument runs the pipeline for one document under the configured
// time budget. An expired budget yields a partial outcome, not a failure.
func (r *Runner) ProcessDocument(ctx context.Context, path string) Outcome {
	start := time.Now()

	docCtx := ctx
	if budget := r.cfg.Extraction.TimeBudget(); budget > 0 {
		var cancel context.CancelFunc
		docCtx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	out := Outcome{
		Path:     path,
		Document: filepath.Base(path),
	}

	blocks, err := r.source.Extract(docCtx, path)
	degraded := false
	switch {
	case err == nil:
	case err == context.DeadlineExceeded || err == context.Canceled:
		// Budget expired mid-extraction: continue with what we have.
		degraded = true
	default:
		out.Status = store.StatusFailed
		out.Err = err
		out.Duration = time.Since(start)
		r.record(out)
		return out
	}

	out.Outline = r.extractor.Extract(docCtx, blocks)
	if degraded {
		out.Outline.Degraded = true
	}

	out.Sections = section.Chunk(out.Document, blocks, out.Outline)

	out.Status = store.StatusSuccess
	if out.Outline.Degraded {
		out.Status = store.StatusPartial
	}
	out.Duration = time.Since(start)

	r.record(out)
	return out
}

func (r *Runner) record(out Outcome) {
	if r.runs == nil {
		return
	}

	run := store.Run{
		Command:  "outline",
		Document: out.Document,
		Status:   out.Status,
		Headings: len(out.Outline.Headings),
		Sections: len(out.Sections),
		Duration: out.Duration,
	}
	if out.Err != nil {
		run.Detail = out.Err.Error()
	} else if out.Outline.Degraded {
		run.Detail = "time budget exceeded, partial outline"
	}

	if err := r.runs.Record(run); err != nil {
		log.Printf("Warning: failed to record run for %s: %v", out.Document, err)
	}
}
