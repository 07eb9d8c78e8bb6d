package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recipehub/internal/catalog"
	"recipehub/internal/events"
	"recipehub/internal/middleware"
	"recipehub/internal/recipes"
	"recipehub/pkg/utils"
)

func main() {
	utils.LoadDotEnv()
	logger := utils.MustLogger(utils.LoadLogConfig())
	defer logger.Sync()

	hub := events.NewHub(logger)
	svc := recipes.Build(utils.LoadCatalogConfig(), logger, catalog.WithNotifier(hub))

	// warm in the background; /ready reports when it is done
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	svc.Cache.Start(rootCtx)

	cfg := utils.LoadServerConfig()
	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: newRouter(svc, hub, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newRouter(svc *recipes.Service, hub *events.Hub, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ready only once the catalog is in memory; load balancers should wait
	// for this before routing traffic.
	router.GET("/ready", func(c *gin.Context) {
		state := svc.Cache.State()
		body := gin.H{
			"status":     "not_ready",
			"catalog":    state.String(),
			"ws_clients": hub.Stats().WSClients,
		}
		if state != catalog.StateReady {
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		body["status"] = "ready"
		c.JSON(http.StatusOK, body)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ws", events.WSHandler(hub))

	recipes.NewHandler(svc, logger).RegisterRoutes(router.Group("/recipes"))
	return router
}
