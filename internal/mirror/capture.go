package mirror

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"recipehub/pkg/models"
)

// Source is an upstream catalog the mirror can be captured from.
// *upstream.Client implements it.
type Source interface {
	Name() string
	FilterByCategory(ctx context.Context, category string) ([]models.RawItem, error)
	Lookup(ctx context.Context, id string) (map[string]any, error)
}

// CaptureOptions bounds how much of the upstream a capture copies.
type CaptureOptions struct {
	PerCategory int // items kept per category; <= 0 keeps all
	Concurrency int // parallel lookups; <= 0 means 4
}

// Capture lists every category of src and looks up the full record of each
// listed item, in category order. Items listed under several categories are
// captured once.
func Capture(ctx context.Context, src Source, categories []string, opts CaptureOptions) ([]map[string]any, error) {
	var ids []string
	seen := make(map[string]struct{})
	for _, category := range categories {
		items, err := src.FilterByCategory(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("%s: list %q: %w", src.Name(), category, err)
		}
		if opts.PerCategory > 0 && len(items) > opts.PerCategory {
			items = items[:opts.PerCategory]
		}
		for _, it := range items {
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			ids = append(ids, it.ID)
		}
	}

	records := make([]map[string]any, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := src.Lookup(gctx, id)
			if err != nil {
				return fmt.Errorf("%s: lookup %s: %w", src.Name(), id, err)
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
