package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Site is a SharePoint site, normalized from the Graph API response.
type Site struct {
	ID   string
	Name string
}

// siteResponse mirrors the Graph API site JSON response.
type siteResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// encodePathSegments URL-encodes each segment of a slash-separated path.
// Characters like #, ?, %, and spaces are encoded per-segment so the
// resulting path is safe for interpolation into Graph API URLs.
func encodePathSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return strings.Join(segments, "/")
}

// Site resolves a SharePoint site by hostname and server-relative path,
// e.g. ("contoso.sharepoint.com", "sites/Finance").
// The path must NOT have a leading slash (caller strips it).
func (c *Client) Site(ctx context.Context, hostname, sitePath string) (*Site, error) {
	c.logger.Info("resolving sharepoint site",
		slog.String("hostname", hostname),
		slog.String("site_path", sitePath),
	)

	path := fmt.Sprintf("/sites/%s:/%s?$select=id,name",
		url.PathEscape(hostname), encodePathSegments(sitePath))

	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr siteResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("graph: decoding site response: %w", err)
	}

	c.logger.Debug("resolved site",
		slog.String("site_id", sr.ID),
		slog.String("name", sr.Name),
	)

	return &Site{ID: sr.ID, Name: sr.Name}, nil
}
