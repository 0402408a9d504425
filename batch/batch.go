// Package batch runs extraction over a directory of invoices with a
// bounded worker pool. Each worker acquires a token stream, runs the
// engine, and tags the result with its processing metadata; one failing
// document is logged and skipped, never aborting the run.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solera/factura"
	"github.com/solera/factura/acquire"
	"github.com/solera/factura/export"
	"github.com/solera/factura/format"
	"github.com/solera/factura/tokenjson"
)

// Runner processes directories of invoice documents.
type Runner struct {
	engine  *factura.Engine
	source  *acquire.Source
	log     *slog.Logger
	workers int
	queue   int
	dumpDir string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithWorkers sets the number of concurrent extraction workers.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithQueueSize sets the job channel capacity.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.queue = n
		}
	}
}

// WithTokenDumps saves each document's token stream as JSON under dir,
// named after the source file with an _ocr suffix.
func WithTokenDumps(dir string) Option {
	return func(r *Runner) {
		r.dumpDir = dir
	}
}

// NewRunner creates a runner over the given engine and acquisition
// source. A nil logger falls back to the default.
func NewRunner(engine *factura.Engine, source *acquire.Source, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{
		engine:  engine,
		source:  source,
		log:     logger,
		workers: 4,
		queue:   64,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run processes every supported document under dir and returns the
// successful extractions sorted by source path. Per-document failures
// are logged and skipped. The error reports an unreadable directory or
// a canceled context, never an individual document.
func (r *Runner) Run(ctx context.Context, dir string) ([]export.Entry, error) {
	files, err := r.inputs(dir)
	if err != nil {
		return nil, err
	}
	r.log.Info("batch.start", "dir", dir, "files", len(files), "workers", r.workers)

	jobs := make(chan string, r.queue)
	results := make(chan export.Entry, len(files))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for path := range jobs {
				entry, err := r.process(ctx, path)
				if err != nil {
					r.log.Error("batch.file.failed", "worker", workerID, "path", path, "error", err)
					continue
				}
				r.log.Info("batch.file.ok", "worker", workerID, "path", path,
					"elapsed_ms", entry.Meta.Duration.Milliseconds())
				results <- entry
			}
		}(i + 1)
	}

	for _, f := range files {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	entries := make([]export.Entry, 0, len(files))
	for entry := range results {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Meta.Source < entries[j].Meta.Source
	})

	r.log.Info("batch.done", "dir", dir, "ok", len(entries), "failed", len(files)-len(entries))
	return entries, nil
}

// process extracts one document and assembles its entry.
func (r *Runner) process(ctx context.Context, path string) (export.Entry, error) {
	start := time.Now()
	toks, err := r.source.FromFile(ctx, path)
	if err != nil {
		return export.Entry{}, err
	}
	if r.dumpDir != "" {
		if err := tokenjson.Save(dumpName(r.dumpDir, path), toks); err != nil {
			r.log.Warn("batch.dump.failed", "path", path, "error", err)
		}
	}

	rec := r.engine.Extract(toks)
	return export.Entry{
		Record: rec,
		Meta: factura.Meta{
			ID:        uuid.NewString(),
			Source:    path,
			Duration:  time.Since(start),
			Timestamp: time.Now(),
		},
	}, nil
}

// inputs lists the supported documents directly under dir, sorted.
func (r *Runner) inputs(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: read dir %s: %w", dir, err)
	}
	var files []string
	for _, de := range dirents {
		if de.IsDir() || !format.Detect(de.Name()).Supported() {
			continue
		}
		files = append(files, filepath.Join(dir, de.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// dumpName is the token dump path for one source document.
func dumpName(dir, source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(dir, base+"_ocr.json")
}
