package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"recipehub/internal/catalog"
	"recipehub/internal/mirror"
	"recipehub/internal/upstream"
	"recipehub/pkg/utils"
)

// export-mirror copies a slice of the live MealDB and CocktailDB catalogs
// into a dataset file that mirror-server can serve.
func main() {
	var (
		outPath     = flag.String("out", "data/mirror.json", "output JSON path")
		perCategory = flag.Int("per-category", 5, "items to keep per category (0 keeps all)")
		timeout     = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	utils.LoadDotEnv()
	logger := utils.MustLogger(utils.LoadLogConfig())
	defer logger.Sync()

	cfg := utils.LoadCatalogConfig()
	mealCategories := cfg.MealCategories
	if len(mealCategories) == 0 {
		mealCategories = catalog.DefaultMealCategories
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	opts := mirror.CaptureOptions{PerCategory: *perCategory}
	meals, err := mirror.Capture(ctx, upstream.NewMealDB(cfg.MealDBURL, cfg.UpstreamTimeout, logger), mealCategories, opts)
	if err != nil {
		logger.Fatal("capture meals failed", zap.Error(err))
	}
	drinks, err := mirror.Capture(ctx, upstream.NewCocktailDB(cfg.DrinkDBURL, cfg.UpstreamTimeout, logger), []string{cfg.DrinkCategory}, opts)
	if err != nil {
		logger.Fatal("capture drinks failed", zap.Error(err))
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		logger.Fatal("mkdir failed", zap.Error(err))
	}
	b, err := json.MarshalIndent(mirror.Dataset{Meals: meals, Drinks: drinks}, "", "  ")
	if err != nil {
		logger.Fatal("marshal failed", zap.Error(err))
	}
	if err := os.WriteFile(*outPath, b, 0o644); err != nil {
		logger.Fatal("write failed", zap.Error(err))
	}

	logger.Info("mirror exported",
		zap.String("path", *outPath),
		zap.Int("meals", len(meals)),
		zap.Int("drinks", len(drinks)))
}
