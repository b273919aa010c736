package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/graphsheet/graphsheet/internal/graph"
)

// Client is the subset of the Graph client the resolver depends on.
// Narrowed so tests can fake the three lookups without HTTP.
type Client interface {
	Site(ctx context.Context, hostname, sitePath string) (*graph.Site, error)
	SiteDrives(ctx context.Context, siteID string) ([]graph.Drive, error)
	DefaultDrive(ctx context.Context, siteID string) (*graph.Drive, error)
	ItemByPath(ctx context.Context, driveID, itemPath string) (*graph.Item, error)
}

// Resolver executes the site → drive → item chain.
type Resolver struct {
	client Client
	logger *slog.Logger
}

// NewResolver creates a resolver backed by the given Graph client.
func NewResolver(client Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{client: client, logger: logger}
}

// Resolve converts a Location to concrete Graph identifiers. Direct
// locations pass through untouched with zero network calls. SharePoint
// locations go through three dependent lookups; each failure is wrapped in
// a *StageError naming the stage.
func (r *Resolver) Resolve(ctx context.Context, loc Location) (Resolved, error) {
	switch l := loc.(type) {
	case DirectLocation:
		return Resolved{DriveID: l.DriveID, ItemID: l.ItemID}, nil
	case SharePointLocation:
		return r.resolveSharePoint(ctx, l)
	default:
		return Resolved{}, fmt.Errorf("resolve: unsupported location type %T", loc)
	}
}

func (r *Resolver) resolveSharePoint(ctx context.Context, loc SharePointLocation) (Resolved, error) {
	site, err := r.resolveSite(ctx, loc.Hostname, loc.SitePath)
	if err != nil {
		return Resolved{}, &StageError{Stage: StageSite, Err: err}
	}

	drive, err := r.selectDrive(ctx, site.ID)
	if err != nil {
		return Resolved{}, &StageError{Stage: StageDrive, Err: err}
	}

	lookupPath := itemLookupPath(loc.DirectoryPath, drive.Name, loc.FileName)

	item, err := r.client.ItemByPath(ctx, drive.ID, lookupPath)
	if err != nil {
		return Resolved{}, &StageError{Stage: StageItem, Err: fmt.Errorf("file %q: %w", lookupPath, err)}
	}

	r.logger.Info("resolved workbook location",
		slog.String("site_id", site.ID),
		slog.String("drive_id", drive.ID),
		slog.String("item_id", item.ID),
	)

	return Resolved{DriveID: drive.ID, ItemID: item.ID}, nil
}

// resolveSite tries each site-path candidate in order. Only not-found
// outcomes move to the next candidate; auth and permission failures surface
// immediately so a consent problem is not misreported as a missing site.
func (r *Resolver) resolveSite(ctx context.Context, hostname, sitePath string) (*graph.Site, error) {
	candidates := sitePathCandidates(sitePath)

	var lastErr error

	for _, candidate := range candidates {
		site, err := r.client.Site(ctx, hostname, candidate)
		if err == nil {
			return site, nil
		}

		if !errors.Is(err, graph.ErrNotFound) {
			return nil, err
		}

		r.logger.Debug("site candidate not found",
			slog.String("hostname", hostname),
			slog.String("candidate", candidate),
		)

		lastErr = err
	}

	return nil, fmt.Errorf("site %q not found on %s (tried %v): %w",
		sitePath, hostname, candidates, lastErr)
}

// selectDrive picks the document library to search: an exact-name match on
// "Documents" or "Shared Documents" first, a lone drive next, then the
// site's default drive. A site with no drives at all is a hard failure.
func (r *Resolver) selectDrive(ctx context.Context, siteID string) (*graph.Drive, error) {
	drives, err := r.client.SiteDrives(ctx, siteID)
	if err != nil {
		return nil, err
	}

	if len(drives) == 0 {
		return nil, fmt.Errorf("site %s has no document libraries", siteID)
	}

	idx := slices.IndexFunc(drives, func(d graph.Drive) bool {
		return slices.Contains(libraryRootNames, d.Name)
	})
	if idx >= 0 {
		return &drives[idx], nil
	}

	if len(drives) == 1 {
		return &drives[0], nil
	}

	return r.client.DefaultDrive(ctx, siteID)
}
