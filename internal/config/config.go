// Package config implements TOML configuration loading, validation, and
// environment overrides for graphsheet. Resolution is a three-layer chain
// (defaults -> config file -> environment) with strict validation: a typo'd
// workbook entry should fail at startup, not at extraction time.
package config

// Config is the top-level configuration structure parsed from a TOML file.
type Config struct {
	TenantID     string   `toml:"tenant_id"`
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	GraphBaseURL string   `toml:"graph_base_url"`
	Scopes       []string `toml:"scopes"`

	Network   NetworkConfig `toml:"network"`
	Logging   LoggingConfig `toml:"logging"`
	Workbooks []Workbook    `toml:"workbook"`
}

// NetworkConfig controls HTTP client behavior: per-attempt timeout, the
// retry budget for transient failures, backoff bounds, and the process-wide
// request rate toward the Graph API.
type NetworkConfig struct {
	RequestTimeout    string  `toml:"request_timeout"`
	MaxRetries        int     `toml:"max_retries"`
	InitialBackoff    string  `toml:"initial_backoff"`
	MaxBackoff        string  `toml:"max_backoff"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

// LoggingConfig controls log output behavior. log_format "auto" selects
// text on a terminal and JSON otherwise.
type LoggingConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Workbook describes one worksheet to expose as a stream. The location is
// given either as SharePoint coordinates (hostname + site path + directory
// path + file name) or directly as Graph identifiers (drive_id +
// workbook_item_id). Validation enforces that exactly one complete form is
// present.
type Workbook struct {
	WorksheetName string `toml:"worksheet_name"`
	StreamName    string `toml:"stream_name"`
	RangeAddress  string `toml:"range_address"`

	// HeaderRow is the 1-based row used as column headers; 0 means no
	// header row. A pointer distinguishes an explicit 0 from unset
	// (unset defaults to 1).
	HeaderRow *int `toml:"header_row"`

	SharePointHostname      string `toml:"sharepoint_hostname"`
	SharePointSitePath      string `toml:"sharepoint_site_path"`
	SharePointDirectoryPath string `toml:"sharepoint_directory_path"`
	ExcelFileName           string `toml:"excel_file_name"`

	DriveID        string `toml:"drive_id"`
	WorkbookItemID string `toml:"workbook_item_id"`
}

// EffectiveHeaderRow returns the header row to use, applying the default of 1
// when the field was not set in the config file.
func (w *Workbook) EffectiveHeaderRow() int {
	if w.HeaderRow == nil {
		return defaultHeaderRow
	}

	return *w.HeaderRow
}

// HasDirectIDs reports whether the entry carries both direct Graph
// identifiers, which bypasses SharePoint resolution entirely.
func (w *Workbook) HasDirectIDs() bool {
	return w.DriveID != "" && w.WorkbookItemID != ""
}
