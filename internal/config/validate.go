package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validate checks a resolved Config for completeness and consistency.
// Error messages name the offending field (and workbook index) so a broken
// entry can be fixed without re-running with extra logging.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.TenantID == "" {
		errs = append(errs, errors.New("tenant_id is required"))
	}

	if cfg.ClientID == "" {
		errs = append(errs, errors.New("client_id is required"))
	}

	if cfg.ClientSecret == "" {
		errs = append(errs, errors.New("client_secret is required"))
	}

	if cfg.GraphBaseURL == "" {
		errs = append(errs, errors.New("graph_base_url must not be empty"))
	}

	if len(cfg.Scopes) == 0 {
		errs = append(errs, errors.New("scopes must not be empty"))
	}

	errs = append(errs, validateNetwork(&cfg.Network)...)

	if len(cfg.Workbooks) == 0 {
		errs = append(errs, errors.New("at least one [[workbook]] entry is required"))
	}

	for i := range cfg.Workbooks {
		if err := validateWorkbook(&cfg.Workbooks[i], i); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func validateNetwork(n *NetworkConfig) []error {
	var errs []error

	for _, d := range []struct {
		name  string
		value string
	}{
		{"network.request_timeout", n.RequestTimeout},
		{"network.initial_backoff", n.InitialBackoff},
		{"network.max_backoff", n.MaxBackoff},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", d.name, d.value))
		}
	}

	if n.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("network.max_retries must be >= 0, got %d", n.MaxRetries))
	}

	if n.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("network.requests_per_second must be > 0, got %g", n.RequestsPerSecond))
	}

	if n.Burst < 1 {
		errs = append(errs, fmt.Errorf("network.burst must be >= 1, got %d", n.Burst))
	}

	return errs
}

// validateWorkbook enforces that each entry carries a worksheet name and a
// complete location: either both direct Graph identifiers or all four
// SharePoint coordinates.
func validateWorkbook(w *Workbook, idx int) error {
	if w.WorksheetName == "" {
		return fmt.Errorf("workbook[%d]: worksheet_name is required", idx)
	}

	if w.HeaderRow != nil && *w.HeaderRow < 0 {
		return fmt.Errorf("workbook[%d]: header_row must be >= 0, got %d", idx, *w.HeaderRow)
	}

	if w.HasDirectIDs() {
		return nil
	}

	if w.DriveID != "" || w.WorkbookItemID != "" {
		return fmt.Errorf(
			"workbook[%d]: drive_id and workbook_item_id must be set together", idx)
	}

	var missing []string

	for _, f := range []struct {
		name  string
		value string
	}{
		{"sharepoint_hostname", w.SharePointHostname},
		{"sharepoint_site_path", w.SharePointSitePath},
		{"sharepoint_directory_path", w.SharePointDirectoryPath},
		{"excel_file_name", w.ExcelFileName},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf(
			"workbook[%d]: provide either (drive_id + workbook_item_id) or SharePoint fields: %s",
			idx, strings.Join(missing, ", "))
	}

	return nil
}

// RequestTimeoutDuration returns network.request_timeout as a time.Duration.
// Validate must have been called first.
func (n *NetworkConfig) RequestTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(n.RequestTimeout)
	return d
}

// InitialBackoffDuration returns network.initial_backoff as a time.Duration.
func (n *NetworkConfig) InitialBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(n.InitialBackoff)
	return d
}

// MaxBackoffDuration returns network.max_backoff as a time.Duration.
func (n *NetworkConfig) MaxBackoffDuration() time.Duration {
	d, _ := time.ParseDuration(n.MaxBackoff)
	return d
}
