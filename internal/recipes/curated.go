package recipes

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"recipehub/internal/upstream"
	"recipehub/pkg/models"
)

// DefaultCuratedMealIDs and DefaultCuratedDrinkIDs are the hand-picked
// records shown before the user searches.
var (
	DefaultCuratedMealIDs = []string{
		"52771", "52807", "52805", "52820", "52855", "52844",
		"52795", "53065", "52834", "52982", "52819", "52796",
	}
	DefaultCuratedDrinkIDs = []string{
		"11000", "11007", "12776", "17207", "178366", "12770",
	}
)

const curatedLookups = 6

// Randomer returns one random full upstream record. *upstream.Client
// implements it.
type Randomer interface {
	Random(ctx context.Context) (map[string]any, error)
}

// Curated looks up every curated id of kind concurrently and returns them in
// list order. Ids the upstream no longer knows are skipped; any other lookup
// error fails the call.
func (s *Service) Curated(ctx context.Context, kind models.Kind) ([]models.CuratedItem, error) {
	ids, src := s.CuratedMeals, s.Meals
	if kind == models.KindDrink {
		ids, src = s.CuratedDrinks, s.Drinks
	}

	found := make([]map[string]any, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(curatedLookups)
	for i, id := range ids {
		g.Go(func() error {
			rec, err := src.Lookup(gctx, id)
			if errors.Is(err, upstream.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("curated %s %s: %w", kind, id, err)
			}
			found[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prefix := "Meal"
	if kind == models.KindDrink {
		prefix = "Drink"
	}
	out := make([]models.CuratedItem, 0, len(ids))
	for _, rec := range found {
		if rec == nil {
			continue
		}
		out = append(out, models.CuratedItem{
			ID:        str(rec["id"+prefix]),
			Name:      str(rec["str"+prefix]),
			Thumbnail: str(rec["str"+prefix+"Thumb"]),
		})
	}
	return out, nil
}

// RandomDrink asks the drinks upstream for one random full record.
func (s *Service) RandomDrink(ctx context.Context) (map[string]any, error) {
	if s.RandomDrinks == nil {
		return nil, upstream.ErrNotFound
	}
	return s.RandomDrinks.Random(ctx)
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
