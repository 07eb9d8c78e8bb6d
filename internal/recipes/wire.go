package recipes

import (
	"go.uber.org/zap"

	"recipehub/internal/catalog"
	"recipehub/internal/upstream"
	"recipehub/pkg/utils"
)

// Build assembles upstream clients, fetcher, cache and service from cfg.
// The returned cache has not started warming.
func Build(cfg utils.CatalogConfig, logger *zap.Logger, opts ...catalog.Option) *Service {
	meals := upstream.NewMealDB(cfg.MealDBURL, cfg.UpstreamTimeout, logger)
	drinks := upstream.NewCocktailDB(cfg.DrinkDBURL, cfg.UpstreamTimeout, logger)
	fetcher := catalog.NewFetcher(meals, drinks, cfg.MealCategories, cfg.DrinkCategory, logger)

	opts = append([]catalog.Option{
		catalog.WithWarmupTimeout(cfg.WarmupTimeout),
		catalog.WithLogger(logger),
	}, opts...)
	cache := catalog.NewCache(fetcher, opts...)

	svc := NewService(cache, meals, drinks)
	svc.RandomDrinks = drinks
	if len(cfg.CuratedMealIDs) > 0 {
		svc.CuratedMeals = cfg.CuratedMealIDs
	}
	if len(cfg.CuratedDrinkIDs) > 0 {
		svc.CuratedDrinks = cfg.CuratedDrinkIDs
	}
	return svc
}
