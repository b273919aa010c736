package stream

import (
	"fmt"

	"github.com/graphsheet/graphsheet/internal/config"
	"github.com/graphsheet/graphsheet/internal/resolve"
)

// Definition is one stream of the catalog: a unique name plus everything
// needed to extract it. Built once per run and immutable thereafter.
type Definition struct {
	Name          string
	WorksheetName string
	HeaderRow     int
	RangeAddress  string
	Location      resolve.Location
}

// BuildCatalog assigns each configured workbook entry a unique stream name.
// The base name is the explicit stream_name, else the worksheet name, else
// a positional fallback. Collisions get "_2", "_3", … suffixes in
// configuration order. Pure and deterministic — no I/O; identifier
// resolution is deferred to extraction so a resolution failure is
// attributable to the stream that caused it.
func BuildCatalog(workbooks []config.Workbook) []Definition {
	defs := make([]Definition, 0, len(workbooks))
	used := make(map[string]bool, len(workbooks))

	for i := range workbooks {
		w := &workbooks[i]

		base := w.StreamName
		if base == "" {
			base = w.WorksheetName
		}

		if base == "" {
			base = fmt.Sprintf("worksheet_%d", i+1)
		}

		name := base
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", base, n)
		}

		used[name] = true

		defs = append(defs, Definition{
			Name:          name,
			WorksheetName: w.WorksheetName,
			HeaderRow:     w.EffectiveHeaderRow(),
			RangeAddress:  w.RangeAddress,
			Location:      locationFromWorkbook(w),
		})
	}

	return defs
}

// locationFromWorkbook maps a validated workbook entry onto the location
// tagged union. Direct identifiers take precedence, matching the
// config-validation rule that the two forms are mutually exclusive.
func locationFromWorkbook(w *config.Workbook) resolve.Location {
	if w.HasDirectIDs() {
		return resolve.DirectLocation{
			DriveID: w.DriveID,
			ItemID:  w.WorkbookItemID,
		}
	}

	return resolve.SharePointLocation{
		Hostname:      w.SharePointHostname,
		SitePath:      w.SharePointSitePath,
		DirectoryPath: w.SharePointDirectoryPath,
		FileName:      w.ExcelFileName,
	}
}
