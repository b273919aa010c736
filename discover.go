package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/graphsheet/graphsheet/internal/resolve"
	"github.com/graphsheet/graphsheet/internal/stream"
)

// catalogEntry is the discovery output for one stream. Every stream shares
// the same record shape (row_number + data); the data keys are only known
// at read time because they come from the worksheet's header row.
type catalogEntry struct {
	Stream    string `json:"stream"`
	Worksheet string `json:"worksheet"`
	Location  string `json:"location"`
	HeaderRow int    `json:"header_row"`
	Range     string `json:"range,omitempty"`
}

// newDiscoverCmd prints the stream catalog built from configuration.
// Pure and offline: no network calls, mirroring the catalog builder itself.
func newDiscoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "List the streams the configuration defines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := make([]catalogEntry, 0, len(resolvedCfg.Workbooks))
			for _, def := range stream.BuildCatalog(resolvedCfg.Workbooks) {
				entries = append(entries, catalogEntry{
					Stream:    def.Name,
					Worksheet: def.WorksheetName,
					Location:  describeLocation(def.Location),
					HeaderRow: def.HeaderRow,
					Range:     def.RangeAddress,
				})
			}

			if flagJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(entries)
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.Stream, e.Worksheet, e.Location})
			}

			printTable(cmd.OutOrStdout(), []string{"STREAM", "WORKSHEET", "LOCATION"}, rows)

			return nil
		},
	}
}

// describeLocation renders a location for display without leaking the
// resolver's internals into output formatting.
func describeLocation(loc resolve.Location) string {
	switch l := loc.(type) {
	case resolve.DirectLocation:
		return fmt.Sprintf("drive:%s item:%s", l.DriveID, l.ItemID)
	case resolve.SharePointLocation:
		return fmt.Sprintf("%s/%s/%s/%s", l.Hostname, l.SitePath, l.DirectoryPath, l.FileName)
	default:
		return fmt.Sprintf("%T", loc)
	}
}
