package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "graphsheet.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

const minimalConfig = `
tenant_id = "tenant"
client_id = "client"
client_secret = "secret"

[[workbook]]
worksheet_name = "Sheet1"
sharepoint_hostname = "contoso.sharepoint.com"
sharepoint_site_path = "Finance"
sharepoint_directory_path = "Shared Documents/Reports"
excel_file_name = "Q3.xlsx"
`

func TestLoad_MinimalWithDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "tenant", cfg.TenantID)
	assert.Equal(t, DefaultGraphBaseURL, cfg.GraphBaseURL)
	assert.Equal(t, []string{"https://graph.microsoft.com/.default"}, cfg.Scopes)

	assert.Equal(t, 60*time.Second, cfg.Network.RequestTimeoutDuration())
	assert.Equal(t, 5, cfg.Network.MaxRetries)
	assert.Equal(t, time.Second, cfg.Network.InitialBackoffDuration())
	assert.Equal(t, 60*time.Second, cfg.Network.MaxBackoffDuration())
	assert.Equal(t, 10.0, cfg.Network.RequestsPerSecond)
	assert.Equal(t, 15, cfg.Network.Burst)

	assert.Equal(t, "info", cfg.Logging.LogLevel)
	assert.Equal(t, "auto", cfg.Logging.LogFormat)

	require.Len(t, cfg.Workbooks, 1)
	assert.Nil(t, cfg.Workbooks[0].HeaderRow)
	assert.Equal(t, 1, cfg.Workbooks[0].EffectiveHeaderRow())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
tenant_id = "tenant"
client_id = "client"
client_secret = "secret"
graph_base_url = "https://graph.example.test/v1.0"

[network]
request_timeout = "15s"
max_retries = 2
requests_per_second = 3.5
burst = 4

[logging]
log_level = "debug"
log_format = "json"

[[workbook]]
worksheet_name = "Sheet1"
drive_id = "drv1"
workbook_item_id = "itm1"
`))
	require.NoError(t, err)

	assert.Equal(t, "https://graph.example.test/v1.0", cfg.GraphBaseURL)
	assert.Equal(t, 15*time.Second, cfg.Network.RequestTimeoutDuration())
	assert.Equal(t, 2, cfg.Network.MaxRetries)
	assert.Equal(t, 3.5, cfg.Network.RequestsPerSecond)
	assert.Equal(t, "debug", cfg.Logging.LogLevel)
	assert.Equal(t, "json", cfg.Logging.LogFormat)
}

func TestLoad_ExplicitHeaderRowZero(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
tenant_id = "tenant"
client_id = "client"
client_secret = "secret"

[[workbook]]
worksheet_name = "Sheet1"
header_row = 0
drive_id = "drv1"
workbook_item_id = "itm1"
`))
	require.NoError(t, err)
	require.Len(t, cfg.Workbooks, 1)

	require.NotNil(t, cfg.Workbooks[0].HeaderRow)
	assert.Equal(t, 0, cfg.Workbooks[0].EffectiveHeaderRow(), "explicit zero is headerless, not the default")
}

func TestLoad_UnknownKeysRejected(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
worksheet = "typo"
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown config keys")
	assert.Contains(t, err.Error(), "worksheet")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config file")
}

func TestLoad_EnvOverridesWin(t *testing.T) {
	t.Setenv(EnvTenantID, "env-tenant")
	t.Setenv(EnvClientSecret, "env-secret")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-tenant", cfg.TenantID)
	assert.Equal(t, "client", cfg.ClientID, "unset env vars leave file values alone")
	assert.Equal(t, "env-secret", cfg.ClientSecret)
}

func TestLoad_SecretFromEnvOnly(t *testing.T) {
	t.Setenv(EnvClientSecret, "env-secret")

	cfg, err := Load(writeConfig(t, `
tenant_id = "tenant"
client_id = "client"

[[workbook]]
worksheet_name = "Sheet1"
drive_id = "drv1"
workbook_item_id = "itm1"
`))
	require.NoError(t, err, "the secret may live only in the environment")
	assert.Equal(t, "env-secret", cfg.ClientSecret)
}

func TestValidate_MissingCredentials(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workbooks = []Workbook{{
		WorksheetName:  "Sheet1",
		DriveID:        "drv1",
		WorkbookItemID: "itm1",
	}}

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenant_id is required")
	assert.Contains(t, err.Error(), "client_id is required")
	assert.Contains(t, err.Error(), "client_secret is required")
}

func TestValidate_NoWorkbooks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TenantID, cfg.ClientID, cfg.ClientSecret = "t", "c", "s"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one [[workbook]] entry")
}

func TestValidate_Network(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NetworkConfig)
		wantMsg string
	}{
		{
			name:    "bad timeout",
			mutate:  func(n *NetworkConfig) { n.RequestTimeout = "soon" },
			wantMsg: `network.request_timeout: invalid duration "soon"`,
		},
		{
			name:    "bad backoff",
			mutate:  func(n *NetworkConfig) { n.InitialBackoff = "" },
			wantMsg: "network.initial_backoff: invalid duration",
		},
		{
			name:    "negative retries",
			mutate:  func(n *NetworkConfig) { n.MaxRetries = -1 },
			wantMsg: "network.max_retries must be >= 0",
		},
		{
			name:    "zero rate",
			mutate:  func(n *NetworkConfig) { n.RequestsPerSecond = 0 },
			wantMsg: "network.requests_per_second must be > 0",
		},
		{
			name:    "zero burst",
			mutate:  func(n *NetworkConfig) { n.Burst = 0 },
			wantMsg: "network.burst must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TenantID, cfg.ClientID, cfg.ClientSecret = "t", "c", "s"
			cfg.Workbooks = []Workbook{{
				WorksheetName:  "Sheet1",
				DriveID:        "drv1",
				WorkbookItemID: "itm1",
			}}
			tt.mutate(&cfg.Network)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateWorkbook(t *testing.T) {
	negative := -1

	tests := []struct {
		name     string
		workbook Workbook
		wantMsg  string
	}{
		{
			name:     "missing worksheet name",
			workbook: Workbook{DriveID: "drv1", WorkbookItemID: "itm1"},
			wantMsg:  "workbook[0]: worksheet_name is required",
		},
		{
			name: "negative header row",
			workbook: Workbook{
				WorksheetName:  "Sheet1",
				HeaderRow:      &negative,
				DriveID:        "drv1",
				WorkbookItemID: "itm1",
			},
			wantMsg: "header_row must be >= 0",
		},
		{
			name: "drive id without item id",
			workbook: Workbook{
				WorksheetName: "Sheet1",
				DriveID:       "drv1",
			},
			wantMsg: "drive_id and workbook_item_id must be set together",
		},
		{
			name: "incomplete sharepoint coordinates",
			workbook: Workbook{
				WorksheetName:      "Sheet1",
				SharePointHostname: "contoso.sharepoint.com",
				SharePointSitePath: "Finance",
			},
			wantMsg: "sharepoint_directory_path, excel_file_name",
		},
		{
			name:     "no location at all",
			workbook: Workbook{WorksheetName: "Sheet1"},
			wantMsg:  "provide either (drive_id + workbook_item_id) or SharePoint fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWorkbook(&tt.workbook, 0)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateWorkbook_ValidForms(t *testing.T) {
	direct := Workbook{
		WorksheetName:  "Sheet1",
		DriveID:        "drv1",
		WorkbookItemID: "itm1",
	}
	assert.NoError(t, validateWorkbook(&direct, 0))

	sharepoint := Workbook{
		WorksheetName:           "Sheet1",
		SharePointHostname:      "contoso.sharepoint.com",
		SharePointSitePath:      "Finance",
		SharePointDirectoryPath: "Shared Documents",
		ExcelFileName:           "Q3.xlsx",
	}
	assert.NoError(t, validateWorkbook(&sharepoint, 0))
}
