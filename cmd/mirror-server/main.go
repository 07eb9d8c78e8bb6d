package main

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipehub/internal/middleware"
	"recipehub/internal/mirror"
	"recipehub/pkg/utils"
)

// mirror-server serves a local MealDB/CocktailDB look-alike so the API can
// warm its catalog without internet access. Point RECIPEHUB_MEALDB_URL at
// http://localhost:9000/mealdb/api/json/v1/1 and RECIPEHUB_DRINKDB_URL at
// http://localhost:9000/cocktaildb/api/json/v1/1.
func main() {
	utils.LoadDotEnv()
	logger := utils.MustLogger(utils.LoadLogConfig())
	defer logger.Sync()

	cfg := utils.LoadMirrorConfig()
	ds, err := mirror.Load(cfg.DataPath)
	if err != nil {
		logger.Fatal("load mirror data", zap.String("path", cfg.DataPath), zap.Error(err))
	}

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))
	mirror.NewHandler(ds).RegisterRoutes(router)

	logger.Info("mirror-server listening",
		zap.String("addr", cfg.Addr),
		zap.Int("meals", len(ds.Meals)),
		zap.Int("drinks", len(ds.Drinks)))
	if err := router.Run(cfg.Addr); err != nil {
		logger.Fatal("mirror-server stopped", zap.Error(err))
	}
}
