package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Matrix is a rectangular block of worksheet cell values as returned by the
// workbook range endpoints. Cells keep the provider's scalar types: string,
// json.Number, bool, or nil. Numbers are decoded as json.Number so values
// round-trip to output without float formatting drift.
type Matrix [][]any

// rangeResponse mirrors the Graph API workbookRange JSON, reduced to the
// values block by $select.
type rangeResponse struct {
	Values Matrix `json:"values"`
}

// worksheetPath builds the workbook worksheet URL prefix. The worksheet
// name is a single path segment and may contain spaces or quotes.
func worksheetPath(driveID, itemID, worksheet string) string {
	return fmt.Sprintf("/drives/%s/items/%s/workbook/worksheets/%s",
		url.PathEscape(driveID), url.PathEscape(itemID), url.PathEscape(worksheet))
}

// WorksheetRange fetches the cell values of an explicit range address,
// e.g. "A1:D100".
func (c *Client) WorksheetRange(ctx context.Context, driveID, itemID, worksheet, address string) (Matrix, error) {
	c.logger.Info("fetching worksheet range",
		slog.String("drive_id", driveID),
		slog.String("item_id", itemID),
		slog.String("worksheet", worksheet),
		slog.String("address", address),
	)

	// Quotes and parentheses stay literal; only the address is escaped.
	path := fmt.Sprintf("%s/range(address='%s')?$select=values",
		worksheetPath(driveID, itemID, worksheet), url.PathEscape(address))

	return c.fetchValues(ctx, path)
}

// WorksheetUsedRange fetches the worksheet's auto-detected used range with
// values-only semantics (no formulas or formatting).
func (c *Client) WorksheetUsedRange(ctx context.Context, driveID, itemID, worksheet string) (Matrix, error) {
	c.logger.Info("fetching worksheet used range",
		slog.String("drive_id", driveID),
		slog.String("item_id", itemID),
		slog.String("worksheet", worksheet),
	)

	path := worksheetPath(driveID, itemID, worksheet) + "/usedRange(valuesOnly=true)?$select=values"

	return c.fetchValues(ctx, path)
}

// fetchValues performs the range request and decodes the values matrix.
// A missing values block (blank sheets) yields an empty matrix, not an error.
func (c *Client) fetchValues(ctx context.Context, path string) (Matrix, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()

	var rr rangeResponse
	if err := dec.Decode(&rr); err != nil {
		return nil, fmt.Errorf("graph: decoding range response: %w", err)
	}

	c.logger.Debug("fetched worksheet values",
		slog.Int("rows", len(rr.Values)),
	)

	return rr.Values, nil
}
