package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// Drive is a document library within a SharePoint site.
type Drive struct {
	ID   string
	Name string
}

// driveResponse mirrors the Graph API drive JSON response.
type driveResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// drivesListResponse wraps the value array from GET /sites/{id}/drives.
type drivesListResponse struct {
	Value []driveResponse `json:"value"`
}

// SiteDrives returns the document libraries of a site.
func (c *Client) SiteDrives(ctx context.Context, siteID string) ([]Drive, error) {
	c.logger.Info("listing site drives",
		slog.String("site_id", siteID),
	)

	path := fmt.Sprintf("/sites/%s/drives?$select=id,name", url.PathEscape(siteID))

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dlr drivesListResponse
	if err := json.NewDecoder(resp.Body).Decode(&dlr); err != nil {
		return nil, fmt.Errorf("graph: decoding drives response: %w", err)
	}

	drives := make([]Drive, 0, len(dlr.Value))
	for _, d := range dlr.Value {
		drives = append(drives, Drive{ID: d.ID, Name: d.Name})
	}

	c.logger.Info("listed site drives",
		slog.String("site_id", siteID),
		slog.Int("count", len(drives)),
	)

	return drives, nil
}

// DefaultDrive returns the site's default document library.
func (c *Client) DefaultDrive(ctx context.Context, siteID string) (*Drive, error) {
	c.logger.Info("fetching default drive",
		slog.String("site_id", siteID),
	)

	path := fmt.Sprintf("/sites/%s/drive?$select=id,name", url.PathEscape(siteID))

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var dr driveResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return nil, fmt.Errorf("graph: decoding drive response: %w", err)
	}

	return &Drive{ID: dr.ID, Name: dr.Name}, nil
}
