package stream

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// StreamResult records the outcome of one stream's extraction.
type StreamResult struct {
	Stream  string
	Records int
	Err     error
}

// RecordSink receives records as streams are read. ReadAll serializes
// calls, so implementations need no locking of their own.
type RecordSink func(stream string, rec Record) error

// Runner extracts multiple streams with bounded parallelism. One stream's
// failure never aborts its siblings; every stream gets a result. Run-level
// cancellation stops in-flight extractions and skips the rest.
type Runner struct {
	extractor   *Extractor
	parallelism int
	logger      *slog.Logger
}

// NewRunner creates a runner. parallelism < 1 means sequential.
func NewRunner(extractor *Extractor, parallelism int, logger *slog.Logger) *Runner {
	if parallelism < 1 {
		parallelism = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{extractor: extractor, parallelism: parallelism, logger: logger}
}

// ReadAll extracts every stream in defs, feeding records to sink. Results
// are returned in catalog order regardless of completion order.
func (r *Runner) ReadAll(ctx context.Context, defs []Definition, sink RecordSink) []StreamResult {
	results := make([]StreamResult, len(defs))

	var sinkMu sync.Mutex

	g := &errgroup.Group{}
	g.SetLimit(r.parallelism)

	for i := range defs {
		g.Go(func() error {
			def := defs[i]
			results[i] = r.readOne(ctx, def, sink, &sinkMu)

			return nil
		})
	}

	// Goroutines never return errors; failures live in results.
	_ = g.Wait()

	return results
}

func (r *Runner) readOne(ctx context.Context, def Definition, sink RecordSink, sinkMu *sync.Mutex) StreamResult {
	result := StreamResult{Stream: def.Name}

	if err := ctx.Err(); err != nil {
		result.Err = err

		return result
	}

	records, err := r.extractor.Extract(ctx, def)
	if err != nil {
		r.logger.Error("stream extraction failed",
			slog.String("stream", def.Name),
			slog.String("error", err.Error()),
		)

		result.Err = err

		return result
	}

	for _, rec := range records {
		sinkMu.Lock()
		err := sink(def.Name, rec)
		sinkMu.Unlock()

		if err != nil {
			result.Err = err

			return result
		}

		result.Records++
	}

	return result
}
