package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/buildmart/storefront/internal/application/catalog"
	contactapp "github.com/buildmart/storefront/internal/application/contact"
	orderapp "github.com/buildmart/storefront/internal/application/order"
	"github.com/buildmart/storefront/internal/domain/order"
	"github.com/buildmart/storefront/internal/infrastructure/cache"
	"github.com/buildmart/storefront/internal/infrastructure/config"
	"github.com/buildmart/storefront/internal/infrastructure/logger"
	"github.com/buildmart/storefront/internal/infrastructure/notify"
	"github.com/buildmart/storefront/internal/infrastructure/upstream"
	"github.com/buildmart/storefront/internal/interfaces/http/handler"
	"github.com/buildmart/storefront/internal/interfaces/http/middleware"
	"github.com/buildmart/storefront/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront gateway",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Product cache: Redis when reachable, in-memory otherwise
	cacheFactory := cache.NewProductCacheFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	productCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create product cache", zap.Error(err))
	}
	defer func() {
		if err := productCache.Close(); err != nil {
			log.Error("Error closing product cache", zap.Error(err))
		}
	}()

	// Upstream storefront API client serves both the catalog directory and
	// the order gateway ports
	upstreamClient := upstream.NewClient(cfg.Upstream, log)

	notifiers := notify.MultiNotifier{notify.NewLogNotifier(log)}
	if cfg.Telegram.Enabled {
		notifiers = append(notifiers, notify.NewTelegramNotifier(cfg.Telegram, log))
		log.Info("Telegram notifications enabled")
	}
	var notifier order.Notifier = notifiers

	productService := catalogapp.NewProductService(upstreamClient, productCache, cfg.Workflow.CacheTTL, log)
	workflowService := orderapp.NewWorkflowService(upstreamClient, upstreamClient, notifier, log,
		orderapp.WithSource(cfg.Workflow.Source),
		orderapp.WithSessionTTL(cfg.Workflow.SessionTTL),
		orderapp.WithSweepInterval(cfg.Workflow.CleanupInterval),
	)
	defer func() {
		_ = workflowService.Close()
	}()
	contactService := contactapp.NewService(notifier, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(1 << 20))

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)
	engine.GET("/health", systemHandler.Health)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(systemHandler).
		Register(handler.NewProductHandler(productService)).
		Register(handler.NewOrderHandler(workflowService)).
		Register(handler.NewContactHandler(contactService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
