package graph

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorksheetUsedRange(t *testing.T) {
	var gotPath, gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"address":"Sheet1!A1:B3","values":[["Name","Age"],["Ana",30],["Bo",41.5]]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	matrix, err := client.WorksheetUsedRange(context.Background(), "drv1", "itm1", "Sheet1")
	require.NoError(t, err)

	assert.Equal(t, "/drives/drv1/items/itm1/workbook/worksheets/Sheet1/usedRange(valuesOnly=true)", gotPath)
	assert.Equal(t, "$select=values", gotQuery)

	require.Len(t, matrix, 3)
	assert.Equal(t, "Name", matrix[0][0])

	// Numbers arrive as json.Number so output round-trips without float drift.
	assert.Equal(t, json.Number("30"), matrix[1][1])
	assert.Equal(t, json.Number("41.5"), matrix[2][1])
}

func TestWorksheetRange_ExplicitAddress(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"values":[["x"]]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	matrix, err := client.WorksheetRange(context.Background(), "drv1", "itm1", "Sheet1", "A1:D100")
	require.NoError(t, err)

	assert.Equal(t, "/drives/drv1/items/itm1/workbook/worksheets/Sheet1/range(address='A1:D100')", gotPath)
	require.Len(t, matrix, 1)
}

func TestWorksheetRange_CellTypesPreserved(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"values":[["text",12.5,true,null]]}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	matrix, err := client.WorksheetRange(context.Background(), "d", "i", "Sheet1", "A1:D1")
	require.NoError(t, err)

	require.Len(t, matrix, 1)
	assert.Equal(t, "text", matrix[0][0])
	assert.Equal(t, json.Number("12.5"), matrix[0][1])
	assert.Equal(t, true, matrix[0][2])
	assert.Nil(t, matrix[0][3])
}

func TestWorksheetUsedRange_BlankSheet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	matrix, err := client.WorksheetUsedRange(context.Background(), "d", "i", "Empty")
	require.NoError(t, err)
	assert.Empty(t, matrix)
}

func TestWorksheetUsedRange_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"itemNotFound","message":"Worksheet not found"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.WorksheetUsedRange(context.Background(), "d", "i", "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorksheetPath_EscapesName(t *testing.T) {
	path := worksheetPath("drv", "itm", "Q3 Report")
	assert.Equal(t, "/drives/drv/items/itm/workbook/worksheets/Q3%20Report", path)
}
