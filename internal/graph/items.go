package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Item is a drive item (the workbook file), normalized from the Graph API
// response.
type Item struct {
	ID   string
	Name string
}

// driveItemResponse mirrors the subset of the Graph API driveItem JSON the
// connector needs.
type driveItemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ItemByPath retrieves a drive item by its path relative to the drive root.
// The path must NOT have a leading slash (caller strips it).
//
// Graph accepts two path-based addressing forms, root:/{path} and
// root:/{path}:, and some tenants only answer the colon-terminated one.
// The plain form is tried first, then the colon form; auth and permission
// failures surface immediately without the second attempt.
func (c *Client) ItemByPath(ctx context.Context, driveID, itemPath string) (*Item, error) {
	c.logger.Info("looking up item by path",
		slog.String("drive_id", driveID),
		slog.String("path", itemPath),
	)

	base := fmt.Sprintf("/drives/%s/root:/%s",
		url.PathEscape(driveID), encodePathSegments(itemPath))

	item, err := c.itemLookup(ctx, base+"?$select=id,name")
	if err == nil {
		return item, nil
	}

	if !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrBadRequest) {
		return nil, err
	}

	c.logger.Debug("plain path form rejected, trying colon form",
		slog.String("path", itemPath),
		slog.String("error", err.Error()),
	)

	return c.itemLookup(ctx, base+":?$select=id,name")
}

func (c *Client) itemLookup(ctx context.Context, path string) (*Item, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dir driveItemResponse
	if err := json.NewDecoder(resp.Body).Decode(&dir); err != nil {
		return nil, fmt.Errorf("graph: decoding item response: %w", err)
	}

	c.logger.Debug("resolved item",
		slog.String("item_id", dir.ID),
		slog.String("name", dir.Name),
	)

	return &Item{ID: dir.ID, Name: dir.Name}, nil
}
