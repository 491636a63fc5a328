package prefs

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Snapshot is every record the store manages, read in one call.
type Snapshot struct {
	Services          []ServiceDescriptor `json:"services"`
	AdminSettings     AdminSettings       `json:"adminSettings"`
	VideoPositions    []VideoPosition     `json:"videoPositions"`
	CurrentVideoIndex int                 `json:"currentVideoIndex"`
	LastActivity      int64               `json:"lastActivity"`
	// Failures lists the keys whose values are fallbacks for failed reads.
	Failures []string `json:"failures,omitempty"`
}

// Snapshot reads the five keys concurrently. Individual failures degrade as
// in the single accessors; the only error returned is ctx's.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	var (
		services  Result[[]ServiceDescriptor]
		settings  Result[AdminSettings]
		positions Result[[]VideoPosition]
		index     Result[int]
		activity  Result[int64]
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { services = s.GetServices(gctx); return nil })
	g.Go(func() error { settings = s.GetAdminSettings(gctx); return nil })
	g.Go(func() error { positions = s.GetVideoPositions(gctx); return nil })
	g.Go(func() error { index = s.GetCurrentVideoIndex(gctx); return nil })
	g.Go(func() error { activity = s.GetLastActivity(gctx); return nil })
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Services:          services.Value,
		AdminSettings:     settings.Value,
		VideoPositions:    positions.Value,
		CurrentVideoIndex: index.Value,
		LastActivity:      activity.Value,
	}
	for _, f := range []struct {
		key    string
		failed bool
	}{
		{KeyServices, services.Failed()},
		{KeyAdminSettings, settings.Failed()},
		{KeyVideoPositions, positions.Failed()},
		{KeyCurrentVideoIndex, index.Failed()},
		{KeyLastActivity, activity.Failed()},
	} {
		if f.failed {
			snap.Failures = append(snap.Failures, f.key)
		}
	}
	return snap, nil
}
