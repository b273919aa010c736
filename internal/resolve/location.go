// Package resolve turns symbolic SharePoint coordinates into the concrete
// Graph identifiers (drive id + item id) the workbook endpoints need. The
// chain is three dependent lookups — site, drive, item — each tagged so a
// failure points at the broken configuration field.
package resolve

import "fmt"

// Location is the workbook location as configured: either symbolic
// SharePoint coordinates or direct Graph identifiers. The sealed interface
// makes the resolver's type switch exhaustive — there is no optional-field
// precedence to guess at.
type Location interface {
	isLocation()
}

// SharePointLocation identifies a workbook by human-friendly SharePoint
// coordinates that must be resolved through the site → drive → item chain.
type SharePointLocation struct {
	Hostname      string // e.g. "contoso.sharepoint.com"
	SitePath      string // server-relative, e.g. "/sites/Finance"
	DirectoryPath string // folder path within the document library
	FileName      string // e.g. "Q3.xlsx"
}

func (SharePointLocation) isLocation() {}

// DirectLocation identifies a workbook by Graph identifiers directly.
// Resolution is an identity pass-through with no network calls.
type DirectLocation struct {
	DriveID string
	ItemID  string
}

func (DirectLocation) isLocation() {}

// Resolved is the downstream shape both location forms converge to.
type Resolved struct {
	DriveID string
	ItemID  string
}

// Stage names the resolution step that failed.
type Stage string

const (
	StageSite  Stage = "site"
	StageDrive Stage = "drive"
	StageItem  Stage = "item"
)

// StageError tags a resolution failure with the stage it occurred in, so an
// operator can tell a wrong site path from a missing file without reading
// provider error bodies.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("resolve: %s lookup failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
