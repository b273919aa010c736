package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCheckCmd verifies connectivity for every configured stream: token
// acquisition, location resolution, and a minimal worksheet read. Failures
// are reported per stream; the command fails if any stream is unreachable.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify access to every configured worksheet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn := buildConnector()
			ctx := shutdownContext(cmd.Context(), conn.logger)

			var failed int

			for _, def := range conn.defs {
				if err := conn.extractor.Check(ctx, def); err != nil {
					failed++

					fmt.Fprintf(cmd.ErrOrStderr(), "FAIL  %s: %v\n", def.Name, err)

					if ctx.Err() != nil {
						return fmt.Errorf("check canceled: %w", ctx.Err())
					}

					continue
				}

				statusf(flagQuiet, "OK    %s\n", def.Name)
			}

			if failed > 0 {
				return fmt.Errorf("connection check failed for %d of %d streams", failed, len(conn.defs))
			}

			return nil
		},
	}
}
