package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/phrazzld/richtext-api/internal/richtext"
)

// ErrNilDocument is reported when a converter returns neither a document nor an error.
var ErrNilDocument = errors.New("converter returned no document")

// Job is one Markdown source to convert.
type Job struct {
	// Name identifies the source in results and logs, typically a file path.
	Name     string
	Markdown string
}

// Result is the outcome of converting one Job. Exactly one of Document and
// Err is set.
type Result struct {
	Name     string
	Document *richtext.Document
	Err      error
}

// PoolConfig holds configuration options for the pool.
type PoolConfig struct {
	// WorkerCount determines how many jobs run at once.
	// If zero or negative, defaults to 1
	WorkerCount int
}

// DefaultPoolConfig returns a PoolConfig sized to the available CPUs.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		WorkerCount: runtime.GOMAXPROCS(0),
	}
}

// Pool runs conversion jobs on a fixed number of worker goroutines.
type Pool struct {
	converter   richtext.Converter
	workerCount int
	logger      *slog.Logger
}

// NewPool creates a pool that converts with converter.
func NewPool(converter richtext.Converter, config PoolConfig, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.Default()
	}

	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	return &Pool{
		converter:   converter,
		workerCount: workerCount,
		logger:      logger.With(slog.String("component", "batch_pool")),
	}
}

// Run converts every job and returns one Result per job in the same order.
// Jobs not yet started when ctx is canceled fail with the context error.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := p.workerCount
	if workers > len(jobs) {
		workers = len(jobs)
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	p.logger.Debug("starting batch", "jobs", len(jobs), "workers", workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range indexes {
				results[idx] = p.convert(ctx, workerID, jobs[idx])
			}
		}(i)
	}

	for idx := range jobs {
		indexes <- idx
	}
	close(indexes)
	wg.Wait()

	return results
}

func (p *Pool) convert(ctx context.Context, workerID int, job Job) Result {
	result := Result{Name: job.Name}

	if err := ctx.Err(); err != nil {
		result.Err = fmt.Errorf("%s: %w", job.Name, err)
		return result
	}

	doc, err := p.converter.Convert(ctx, job.Markdown)
	if err == nil && doc == nil {
		err = ErrNilDocument
	}
	if err != nil {
		p.logger.Warn("conversion failed",
			"worker_id", workerID,
			"name", job.Name,
			"error", err)
		result.Err = fmt.Errorf("%s: %w", job.Name, err)
		return result
	}

	p.logger.Debug("conversion completed",
		"worker_id", workerID,
		"name", job.Name,
		"blocks", len(doc.Content))
	result.Document = doc
	return result
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
