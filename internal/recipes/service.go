package recipes

import (
	"context"
	"strings"

	"recipehub/internal/catalog"
	"recipehub/internal/upstream"
	"recipehub/pkg/models"
)

// Lookuper fetches one full upstream record. *upstream.Client implements it.
type Lookuper interface {
	Lookup(ctx context.Context, id string) (map[string]any, error)
}

// Service answers recipe queries. Search, Browse and Suggested read the
// in-memory catalog and wait for warm-up. Details, Curated and RandomDrink go
// to the upstream on every call. Nutrition is computed from the id alone.
type Service struct {
	Cache  *catalog.Cache
	Meals  Lookuper
	Drinks Lookuper

	CuratedMeals  []string
	CuratedDrinks []string
	RandomDrinks  Randomer // nil disables RandomDrink
}

func NewService(cache *catalog.Cache, meals, drinks Lookuper) *Service {
	return &Service{
		Cache:         cache,
		Meals:         meals,
		Drinks:        drinks,
		CuratedMeals:  DefaultCuratedMealIDs,
		CuratedDrinks: DefaultCuratedDrinkIDs,
	}
}

// Search matches query against names in one collection (meals by default).
func (s *Service) Search(ctx context.Context, query string, kind models.Kind) ([]models.Recipe, error) {
	snap, err := s.Cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if kind != models.KindDrink {
		kind = models.KindMeal
	}
	return SearchRecords(snap.Collection(kind), query), nil
}

func (s *Service) Browse(ctx context.Context, q BrowseQuery) (models.BrowsePage, error) {
	snap, err := s.Cache.Snapshot(ctx)
	if err != nil {
		return models.BrowsePage{}, err
	}
	return BrowseSnapshot(snap, q), nil
}

// Suggested samples from both collections unless kind narrows it to one.
func (s *Service) Suggested(ctx context.Context, excludeID string, limit int, kind models.Kind) ([]models.Recipe, error) {
	snap, err := s.Cache.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	if limit > MaxSuggestLimit {
		limit = MaxSuggestLimit
	}
	return SuggestRecords(snap.Collection(kind), excludeID, limit), nil
}

// Details looks the id up upstream on every call; the result is not cached.
func (s *Service) Details(ctx context.Context, id string, kind models.Kind) (map[string]any, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, upstream.ErrNotFound
	}
	src := s.Meals
	if kind == models.KindDrink {
		src = s.Drinks
	}
	return src.Lookup(ctx, id)
}

// Nutrition never touches the cache, so it agrees with the cached record's
// calories whether or not id is in the catalog.
func (s *Service) Nutrition(id string) models.Nutrition {
	return catalog.NutritionFor(id)
}
