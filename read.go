package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/graphsheet/graphsheet/internal/stream"
)

// recordLine is the per-record output shape: one JSON object per line so
// the surrounding pipeline can wrap records into its own envelope.
type recordLine struct {
	Stream string        `json:"stream"`
	Record stream.Record `json:"record"`
}

// newReadCmd extracts streams and writes records to stdout as JSON lines.
// Per-stream failures go to stderr and the exit code; sibling streams
// continue extracting.
func newReadCmd() *cobra.Command {
	var streamFilter []string

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Extract configured worksheets and emit row records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn := buildConnector()
			ctx := shutdownContext(cmd.Context(), conn.logger)

			defs, err := selectStreams(conn.defs, streamFilter)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			sink := func(name string, rec stream.Record) error {
				return enc.Encode(recordLine{Stream: name, Record: rec})
			}

			runner := stream.NewRunner(conn.extractor, flagParallelism, conn.logger)
			results := runner.ReadAll(ctx, defs, sink)

			var failures []string

			for _, res := range results {
				if res.Err != nil {
					failures = append(failures, res.Stream)

					fmt.Fprintf(cmd.ErrOrStderr(), "stream %s failed: %v\n", res.Stream, res.Err)

					continue
				}

				statusf(flagQuiet, "stream %s: %d records\n", res.Stream, res.Records)
			}

			if ctx.Err() != nil {
				return fmt.Errorf("read canceled: %w", ctx.Err())
			}

			if len(failures) > 0 {
				return fmt.Errorf("extraction failed for streams: %s", strings.Join(failures, ", "))
			}

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&streamFilter, "stream", nil, "extract only the named stream (repeatable)")

	return cmd
}

// selectStreams filters the catalog to the requested stream names,
// rejecting names that match nothing so typos fail loudly.
func selectStreams(defs []stream.Definition, names []string) ([]stream.Definition, error) {
	if len(names) == 0 {
		return defs, nil
	}

	selected := make([]stream.Definition, 0, len(names))

	for _, name := range names {
		idx := slices.IndexFunc(defs, func(d stream.Definition) bool { return d.Name == name })
		if idx < 0 {
			return nil, fmt.Errorf("unknown stream %q (run 'graphsheet discover' to list streams)", name)
		}

		selected = append(selected, defs[idx])
	}

	return selected, nil
}
