package utils

import (
	"slices"
	"testing"
	"time"
)

func TestLoadCatalogConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"RECIPEHUB_MEALDB_URL", "RECIPEHUB_DRINKDB_URL", "RECIPEHUB_MEAL_CATEGORIES",
		"RECIPEHUB_DRINK_CATEGORY", "RECIPEHUB_UPSTREAM_TIMEOUT", "RECIPEHUB_WARMUP_TIMEOUT",
		"RECIPEHUB_CURATED_MEALS", "RECIPEHUB_CURATED_DRINKS",
	} {
		t.Setenv(k, "")
	}

	cfg := LoadCatalogConfig()
	if cfg.MealDBURL != "https://www.themealdb.com/api/json/v1/1" {
		t.Errorf("MealDBURL = %q", cfg.MealDBURL)
	}
	if cfg.MealCategories != nil || cfg.CuratedMealIDs != nil {
		t.Errorf("lists should default to nil: %v %v", cfg.MealCategories, cfg.CuratedMealIDs)
	}
	if cfg.DrinkCategory != "Cocktail" {
		t.Errorf("DrinkCategory = %q", cfg.DrinkCategory)
	}
	if cfg.UpstreamTimeout != 10*time.Second || cfg.WarmupTimeout != 45*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.UpstreamTimeout, cfg.WarmupTimeout)
	}
}

func TestLoadCatalogConfigOverrides(t *testing.T) {
	t.Setenv("RECIPEHUB_MEALDB_URL", "http://localhost:9000/mealdb/api/json/v1/1")
	t.Setenv("RECIPEHUB_MEAL_CATEGORIES", " Beef, ,Vegan ")
	t.Setenv("RECIPEHUB_UPSTREAM_TIMEOUT", "3")
	t.Setenv("RECIPEHUB_WARMUP_TIMEOUT", "2m")
	t.Setenv("RECIPEHUB_CURATED_DRINKS", "11000,17207")

	cfg := LoadCatalogConfig()
	if cfg.MealDBURL != "http://localhost:9000/mealdb/api/json/v1/1" {
		t.Errorf("MealDBURL = %q", cfg.MealDBURL)
	}
	if !slices.Equal(cfg.MealCategories, []string{"Beef", "Vegan"}) {
		t.Errorf("MealCategories = %v", cfg.MealCategories)
	}
	if cfg.UpstreamTimeout != 3*time.Second {
		t.Errorf("UpstreamTimeout = %v", cfg.UpstreamTimeout)
	}
	if cfg.WarmupTimeout != 2*time.Minute {
		t.Errorf("WarmupTimeout = %v", cfg.WarmupTimeout)
	}
	if !slices.Equal(cfg.CuratedDrinkIDs, []string{"11000", "17207"}) {
		t.Errorf("CuratedDrinkIDs = %v", cfg.CuratedDrinkIDs)
	}
}

func TestGetDurationRejectsGarbage(t *testing.T) {
	for _, v := range []string{"soon", "-5s", "0"} {
		t.Setenv("RECIPEHUB_TEST_DURATION", v)
		if got := getDuration("RECIPEHUB_TEST_DURATION", time.Minute); got != time.Minute {
			t.Errorf("getDuration(%q) = %v, want default", v, got)
		}
	}
}

func TestServerAndLogConfig(t *testing.T) {
	t.Setenv("RECIPEHUB_HTTP_ADDR", ":18080")
	t.Setenv("RECIPEHUB_GRPC_ADDR", "")
	t.Setenv("RECIPEHUB_LOG_LEVEL", "debug")
	t.Setenv("RECIPEHUB_LOG_FORMAT", "console")

	if got := LoadServerConfig().HTTPAddr; got != ":18080" {
		t.Errorf("HTTPAddr = %q", got)
	}
	if got := LoadGrpcConfig().Addr; got != ":9090" {
		t.Errorf("grpc Addr = %q", got)
	}
	cfg := LoadLogConfig()
	if cfg.Level != "debug" || cfg.Format != "console" {
		t.Errorf("log config = %+v", cfg)
	}
	if _, err := NewLogger(cfg); err != nil {
		t.Errorf("NewLogger: %v", err)
	}
}

func TestNewLoggerBadLevel(t *testing.T) {
	if _, err := NewLogger(LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
