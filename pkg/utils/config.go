package utils

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ServerConfig struct {
	HTTPAddr string
}

type GrpcConfig struct {
	Addr string
}

type CatalogConfig struct {
	MealDBURL       string
	DrinkDBURL      string
	MealCategories  []string
	DrinkCategory   string
	UpstreamTimeout time.Duration
	WarmupTimeout   time.Duration
	CuratedMealIDs  []string // empty keeps the built-in list
	CuratedDrinkIDs []string
}

type MirrorConfig struct {
	Addr     string
	DataPath string
}

type LogConfig struct {
	Level  string
	Format string // "json" or "console"
}

// LoadDotEnv reads .env into the environment if the file exists. Variables
// already set win.
func LoadDotEnv() {
	_ = godotenv.Load()
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{HTTPAddr: getenv("RECIPEHUB_HTTP_ADDR", ":8080")}
}

func LoadGrpcConfig() GrpcConfig {
	return GrpcConfig{Addr: getenv("RECIPEHUB_GRPC_ADDR", ":9090")}
}

func LoadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		MealDBURL:       getenv("RECIPEHUB_MEALDB_URL", "https://www.themealdb.com/api/json/v1/1"),
		DrinkDBURL:      getenv("RECIPEHUB_DRINKDB_URL", "https://www.thecocktaildb.com/api/json/v1/1"),
		MealCategories:  splitList(os.Getenv("RECIPEHUB_MEAL_CATEGORIES")),
		DrinkCategory:   getenv("RECIPEHUB_DRINK_CATEGORY", "Cocktail"),
		UpstreamTimeout: getDuration("RECIPEHUB_UPSTREAM_TIMEOUT", 10*time.Second),
		WarmupTimeout:   getDuration("RECIPEHUB_WARMUP_TIMEOUT", 45*time.Second),
		CuratedMealIDs:  splitList(os.Getenv("RECIPEHUB_CURATED_MEALS")),
		CuratedDrinkIDs: splitList(os.Getenv("RECIPEHUB_CURATED_DRINKS")),
	}
}

func LoadMirrorConfig() MirrorConfig {
	return MirrorConfig{
		Addr:     getenv("RECIPEHUB_MIRROR_ADDR", ":9000"),
		DataPath: getenv("RECIPEHUB_MIRROR_DATA", "data/mirror.json"),
	}
}

func LoadLogConfig() LogConfig {
	return LogConfig{
		Level:  getenv("RECIPEHUB_LOG_LEVEL", "info"),
		Format: getenv("RECIPEHUB_LOG_FORMAT", "json"),
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// getDuration accepts Go durations ("15s") or bare seconds ("15");
// anything else falls back to def.
func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if d, err := time.ParseDuration(v + "s"); err == nil && d > 0 {
		return d
	}
	return def
}

// splitList splits a comma separated list, dropping blanks. Empty input
// gives nil so callers can apply their own default.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
