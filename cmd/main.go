package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/damz-ai/detect-console/internal/client"
	"github.com/damz-ai/detect-console/internal/config"
	"github.com/damz-ai/detect-console/internal/handler"
	"github.com/damz-ai/detect-console/internal/metrics"
	"github.com/damz-ai/detect-console/internal/service"
	"github.com/damz-ai/detect-console/internal/state"
	"github.com/damz-ai/detect-console/internal/view"

	_ "github.com/damz-ai/detect-console/docs"
	httpSwagger "github.com/swaggo/http-swagger"
)

const healthCheckTimeout = 5 * time.Second

// @title DAMZ detect console API
// @version 1.0
// @description Zero-shot object detection and video action detection on top of the remote inference service.
// @BasePath /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.Default()
	apiClient := client.New(cfg.API)

	healthCtx, cancelHealth := context.WithTimeout(ctx, healthCheckTimeout)
	if err := apiClient.Health(healthCtx); err != nil {
		logger.Printf("upstream health check failed: %v\n", err)
	} else {
		logger.Printf("upstream %s is healthy\n", apiClient.BaseURL())
	}
	cancelHealth()

	detectionService := service.NewDetectionService(logger, apiClient)
	videoActionService := service.NewVideoActionService(logger, apiClient)

	var store state.Store = state.NewMemoryStore()
	if cfg.Session.Store == config.SessionStoreRedis {
		redisStore := state.NewRedisStore(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.TTL,
		)
		if err := redisStore.Ping(ctx); err != nil {
			logger.Fatalf("redis error: %v", err)
		}
		defer redisStore.Close()

		store = redisStore
		logger.Println("set redis as session store")
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Fatalf("template error: %v", err)
	}

	console := handler.NewConsoleHandler(
		logger,
		detectionService,
		videoActionService,
		service.NewGuard(),
		handler.NewSessions(store, cfg.Session.CookieName),
		renderer,
		cfg.Server.MaxUploadSize,
	)
	api := handler.NewAPIHandler(logger, detectionService, videoActionService, cfg.Server.MaxUploadSize)

	r := chi.NewRouter()
	r.Use([]func(http.Handler) http.Handler{
		middleware.Logger,
		middleware.Recoverer,
		middleware.Throttle(cfg.Server.ThrottleLimit),
		middleware.Timeout(cfg.Server.Timeout),
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		metrics.Middleware,
	}...)

	handler.Register(r, console, api)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Printf("server started :%s\n", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Println("server stopped")
}
