package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recipehub/pkg/models"
)

// ErrUpstreamUnavailable marks a warm-up that could not fetch the complete
// catalog. The cache never publishes a partial catalog.
var ErrUpstreamUnavailable = errors.New("catalog: upstream unavailable")

// DefaultMealCategories is the fixed set of MealDB categories the meal
// collection is built from.
var DefaultMealCategories = []string{
	"Beef", "Breakfast", "Chicken", "Dessert", "Lamb",
	"Pasta", "Pork", "Seafood", "Vegan", "Vegetarian",
}

const DefaultDrinkCategory = "Cocktail"

// Lister is implemented by each upstream catalog client.
type Lister interface {
	Name() string
	FilterByCategory(ctx context.Context, category string) ([]models.RawItem, error)
}

// Fetcher builds snapshots from the two upstream catalogs.
type Fetcher struct {
	Meals          Lister
	Drinks         Lister
	MealCategories []string
	DrinkCategory  string
	Logger         *zap.Logger
}

func NewFetcher(meals, drinks Lister, mealCategories []string, drinkCategory string, logger *zap.Logger) *Fetcher {
	if len(mealCategories) == 0 {
		mealCategories = DefaultMealCategories
	}
	if drinkCategory == "" {
		drinkCategory = DefaultDrinkCategory
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		Meals:          meals,
		Drinks:         drinks,
		MealCategories: mealCategories,
		DrinkCategory:  drinkCategory,
		Logger:         logger.Named("fetcher"),
	}
}

// Load fetches both catalogs and enriches every item. Any failed listing
// fails the whole load.
func (f *Fetcher) Load(ctx context.Context) (*Snapshot, error) {
	g, gctx := errgroup.WithContext(ctx)

	var meals, drinks []models.RawItem
	g.Go(func() error {
		var err error
		meals, err = f.FetchMeals(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		drinks, err = f.FetchDrinks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Meals:    make([]models.Recipe, 0, len(meals)),
		Drinks:   make([]models.Recipe, 0, len(drinks)),
		LoadedAt: time.Now(),
	}
	for _, item := range meals {
		snap.Meals = append(snap.Meals, Enrich(item, models.KindMeal))
	}
	for _, item := range drinks {
		snap.Drinks = append(snap.Drinks, Enrich(item, models.KindDrink))
	}
	return snap, nil
}

// FetchMeals lists every meal category concurrently and merges the results.
// An item filed under several categories keeps the first category in
// MealCategories order, independent of which call finished first.
func (f *Fetcher) FetchMeals(ctx context.Context) ([]models.RawItem, error) {
	perCategory := make([][]models.RawItem, len(f.MealCategories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range f.MealCategories {
		g.Go(func() error {
			items, err := f.Meals.FilterByCategory(gctx, category)
			if err != nil {
				f.Logger.Warn("category fetch failed",
					zap.String("source", f.Meals.Name()),
					zap.String("category", category),
					zap.Error(err))
				return fmt.Errorf("%w: %s category %q: %w", ErrUpstreamUnavailable, f.Meals.Name(), category, err)
			}
			perCategory[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := mergeFirstSeen(perCategory...)
	f.Logger.Info("meals fetched",
		zap.Int("categories", len(f.MealCategories)),
		zap.Int("items", len(merged)))
	return merged, nil
}

// FetchDrinks lists the single drink category.
func (f *Fetcher) FetchDrinks(ctx context.Context) ([]models.RawItem, error) {
	items, err := f.Drinks.FilterByCategory(ctx, f.DrinkCategory)
	if err != nil {
		f.Logger.Warn("category fetch failed",
			zap.String("source", f.Drinks.Name()),
			zap.String("category", f.DrinkCategory),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %s category %q: %w", ErrUpstreamUnavailable, f.Drinks.Name(), f.DrinkCategory, err)
	}

	merged := mergeFirstSeen(items)
	f.Logger.Info("drinks fetched", zap.Int("items", len(merged)))
	return merged, nil
}

// mergeFirstSeen flattens the lists in order, dropping any item whose id was
// already taken by an earlier entry.
func mergeFirstSeen(lists ...[]models.RawItem) []models.RawItem {
	seen := make(map[string]struct{})
	var out []models.RawItem
	for _, list := range lists {
		for _, item := range list {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			out = append(out, item)
		}
	}
	return out
}
