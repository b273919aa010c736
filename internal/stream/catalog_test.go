package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphsheet/graphsheet/internal/config"
	"github.com/graphsheet/graphsheet/internal/resolve"
)

func intPtr(n int) *int { return &n }

func TestBuildCatalog_Names(t *testing.T) {
	workbooks := []config.Workbook{
		{StreamName: "revenue", WorksheetName: "Sheet1"},
		{WorksheetName: "Expenses"},
		{WorksheetName: ""},
	}

	defs := BuildCatalog(workbooks)
	require.Len(t, defs, 3)

	assert.Equal(t, "revenue", defs[0].Name, "explicit stream_name wins")
	assert.Equal(t, "Expenses", defs[1].Name, "worksheet name is the fallback")
	assert.Equal(t, "worksheet_3", defs[2].Name, "positional fallback for unnamed entries")
}

func TestBuildCatalog_DedupSuffixes(t *testing.T) {
	workbooks := []config.Workbook{
		{WorksheetName: "Sheet1"},
		{WorksheetName: "Sheet1"},
		{WorksheetName: "Sheet1"},
	}

	defs := BuildCatalog(workbooks)
	require.Len(t, defs, 3)

	assert.Equal(t, "Sheet1", defs[0].Name)
	assert.Equal(t, "Sheet1_2", defs[1].Name)
	assert.Equal(t, "Sheet1_3", defs[2].Name)
}

func TestBuildCatalog_DedupSkipsTakenSuffix(t *testing.T) {
	workbooks := []config.Workbook{
		{StreamName: "data_2", WorksheetName: "A"},
		{StreamName: "data", WorksheetName: "B"},
		{StreamName: "data", WorksheetName: "C"},
	}

	defs := BuildCatalog(workbooks)
	require.Len(t, defs, 3)

	assert.Equal(t, "data_2", defs[0].Name)
	assert.Equal(t, "data", defs[1].Name)
	assert.Equal(t, "data_3", defs[2].Name, "suffix already claimed by an explicit name is skipped")
}

func TestBuildCatalog_HeaderRow(t *testing.T) {
	workbooks := []config.Workbook{
		{WorksheetName: "A"},
		{WorksheetName: "B", HeaderRow: intPtr(0)},
		{WorksheetName: "C", HeaderRow: intPtr(3)},
	}

	defs := BuildCatalog(workbooks)
	require.Len(t, defs, 3)

	assert.Equal(t, 1, defs[0].HeaderRow, "unset header_row defaults to the first row")
	assert.Equal(t, 0, defs[1].HeaderRow, "explicit zero means headerless")
	assert.Equal(t, 3, defs[2].HeaderRow)
}

func TestBuildCatalog_Locations(t *testing.T) {
	workbooks := []config.Workbook{
		{
			WorksheetName:  "Sheet1",
			DriveID:        "drv1",
			WorkbookItemID: "itm1",
		},
		{
			WorksheetName:           "Sheet1",
			SharePointHostname:      "contoso.sharepoint.com",
			SharePointSitePath:      "Finance",
			SharePointDirectoryPath: "Reports",
			ExcelFileName:           "Q3.xlsx",
		},
	}

	defs := BuildCatalog(workbooks)
	require.Len(t, defs, 2)

	assert.Equal(t, resolve.DirectLocation{DriveID: "drv1", ItemID: "itm1"}, defs[0].Location)
	assert.Equal(t, resolve.SharePointLocation{
		Hostname:      "contoso.sharepoint.com",
		SitePath:      "Finance",
		DirectoryPath: "Reports",
		FileName:      "Q3.xlsx",
	}, defs[1].Location)
}
