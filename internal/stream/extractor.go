package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/graphsheet/graphsheet/internal/graph"
	"github.com/graphsheet/graphsheet/internal/resolve"
)

// checkRange is the minimal probe used by connectivity checks when no
// explicit range is configured. A single cell bounds check latency and cost
// compared to pulling the full used range.
const checkRange = "A1:A1"

// WorksheetNotFoundError reports that the configured worksheet does not
// exist on the (already resolved) workbook.
type WorksheetNotFoundError struct {
	Worksheet string
	Err       error
}

func (e *WorksheetNotFoundError) Error() string {
	return fmt.Sprintf("stream: worksheet %q not found: %v", e.Worksheet, e.Err)
}

func (e *WorksheetNotFoundError) Unwrap() error {
	return e.Err
}

// ValuesClient is the subset of the Graph client the extractor needs.
type ValuesClient interface {
	WorksheetRange(ctx context.Context, driveID, itemID, worksheet, address string) (graph.Matrix, error)
	WorksheetUsedRange(ctx context.Context, driveID, itemID, worksheet string) (graph.Matrix, error)
}

// LocationResolver resolves a configured location to Graph identifiers.
type LocationResolver interface {
	Resolve(ctx context.Context, loc resolve.Location) (resolve.Resolved, error)
}

// Extractor reads one stream's worksheet values and converts them to
// records. Each extraction is a fresh read — nothing is cached across runs.
type Extractor struct {
	client   ValuesClient
	resolver LocationResolver
	logger   *slog.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(client ValuesClient, resolver LocationResolver, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}

	return &Extractor{client: client, resolver: resolver, logger: logger}
}

// Extract resolves the stream's location, fetches the configured range (or
// the used range when none is set), and converts the matrix into records.
// An empty range yields zero records and no error.
func (e *Extractor) Extract(ctx context.Context, def Definition) ([]Record, error) {
	resolved, err := e.resolver.Resolve(ctx, def.Location)
	if err != nil {
		return nil, err
	}

	matrix, err := e.fetch(ctx, resolved, def, def.RangeAddress)
	if err != nil {
		return nil, err
	}

	records := RecordsFromMatrix(matrix, def.HeaderRow)

	e.logger.Info("extracted stream",
		slog.String("stream", def.Name),
		slog.Int("rows", len(matrix)),
		slog.Int("records", len(records)),
	)

	return records, nil
}

// Check verifies the stream is reachable: resolution succeeds and the
// worksheet answers a minimal range request. The explicit range is used
// when configured so the check exercises exactly what extraction will.
func (e *Extractor) Check(ctx context.Context, def Definition) error {
	resolved, err := e.resolver.Resolve(ctx, def.Location)
	if err != nil {
		return err
	}

	address := def.RangeAddress
	if address == "" {
		address = checkRange
	}

	if _, err := e.fetch(ctx, resolved, def, address); err != nil {
		return err
	}

	return nil
}

// fetch requests worksheet values, mapping a not-found on the worksheet
// endpoint to WorksheetNotFoundError. Resolution has already confirmed the
// workbook item, so a 404 here points at the worksheet name.
func (e *Extractor) fetch(ctx context.Context, resolved resolve.Resolved, def Definition, address string) (graph.Matrix, error) {
	var (
		matrix graph.Matrix
		err    error
	)

	if address != "" {
		matrix, err = e.client.WorksheetRange(ctx, resolved.DriveID, resolved.ItemID, def.WorksheetName, address)
	} else {
		matrix, err = e.client.WorksheetUsedRange(ctx, resolved.DriveID, resolved.ItemID, def.WorksheetName)
	}

	if err != nil {
		if errors.Is(err, graph.ErrNotFound) {
			return nil, &WorksheetNotFoundError{Worksheet: def.WorksheetName, Err: err}
		}

		return nil, err
	}

	return matrix, nil
}
