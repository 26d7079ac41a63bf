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

	"github.com/storehub/backend/internal/application/bulkops"
	"github.com/storehub/backend/internal/application/dashboard"
	identityapp "github.com/storehub/backend/internal/application/identity"
	"github.com/storehub/backend/internal/application/interchange"
	ordersapp "github.com/storehub/backend/internal/application/orders"
	productsapp "github.com/storehub/backend/internal/application/products"
	storesapp "github.com/storehub/backend/internal/application/stores"
	syncapp "github.com/storehub/backend/internal/application/sync"
	whatsappapp "github.com/storehub/backend/internal/application/whatsapp"
	"github.com/storehub/backend/internal/infrastructure/auth"
	"github.com/storehub/backend/internal/infrastructure/cache"
	"github.com/storehub/backend/internal/infrastructure/config"
	"github.com/storehub/backend/internal/infrastructure/logger"
	"github.com/storehub/backend/internal/infrastructure/persistence"
	"github.com/storehub/backend/internal/infrastructure/scheduler"
	"github.com/storehub/backend/internal/infrastructure/woocommerce"
	"github.com/storehub/backend/internal/interfaces/http/handler"
	"github.com/storehub/backend/internal/interfaces/http/middleware"
	"github.com/storehub/backend/internal/interfaces/http/router"
)

const productCacheTTL = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting StoreHub backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, 200*time.Millisecond)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready")

	// Redis keeps the product cache shared across instances; when it is not
	// reachable each instance falls back to its own in-process cache.
	var productCache cache.ProductCache
	if redisClient, err := cache.NewRedisClient(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("Redis unavailable, using in-memory product cache", zap.Error(err))
		productCache = cache.NewInMemoryProductCache(productCacheTTL)
	} else {
		productCache = cache.NewRedisProductCache(redisClient, productCacheTTL)
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	var wcOpts []woocommerce.Option
	if cfg.Remote.ProxyBase != "" {
		wcOpts = append(wcOpts, woocommerce.WithProxyBase(cfg.Remote.ProxyBase))
	}
	gateway := woocommerce.NewClient(cfg.Remote.Timeout, log, wcOpts...)

	// Repositories
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	orderLedger := persistence.NewGormOrderLedger(db.DB)
	stagedRepo := persistence.NewGormStagedOrderRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	// Application services
	notifier := ordersapp.NewChangeNotifier()
	storeService := storesapp.NewService(storeRepo, gateway, log)
	orderService := ordersapp.NewService(orderLedger, storeRepo, gateway, notifier, log)
	syncService := syncapp.NewService(storeRepo, orderLedger, gateway, notifier, cfg.Remote.PageSize, log)
	bulkCoordinator := bulkops.NewCoordinator(orderLedger, storeRepo, gateway, notifier, log)
	productService := productsapp.NewService(storeRepo, gateway, productCache, cfg.Remote.PageSize, log)
	whatsappService := whatsappapp.NewService(stagedRepo, orderLedger, notifier, log)
	interchangeService := interchange.NewService(storeRepo, orderLedger, gateway, productService, notifier, log)
	dashboardService := dashboard.NewService(settingsRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	identityService := identityapp.NewService(userRepo, roleRepo, auditRepo, jwtService, log)

	// Background sync
	if cfg.Sync.Enabled {
		syncScheduler, err := scheduler.NewSyncScheduler(cfg.Sync.Interval, scheduler.SyncExecutorFunc(func(ctx context.Context) error {
			_, err := syncService.SyncAll(ctx)
			return err
		}), log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		syncScheduler.Start(context.Background())
		defer syncScheduler.Stop()
		log.Info("Background sync enabled", zap.Duration("interval", cfg.Sync.Interval))
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(identityService)
	systemHandler := handler.NewSystemHandler(cfg, db.DB)
	storeHandler := handler.NewStoreHandler(storeService)
	orderHandler := handler.NewOrderHandler(orderService)
	bulkHandler := handler.NewBulkHandler(bulkCoordinator)
	syncHandler := handler.NewSyncHandler(syncService)
	productHandler := handler.NewProductHandler(productService)
	whatsappHandler := handler.NewWhatsAppHandler(whatsappService)
	interchangeHandler := handler.NewInterchangeHandler(interchangeService, dashboardService)
	settingsHandler := handler.NewSettingsHandler(dashboardService)
	accessHandler := handler.NewAccessHandler(identityService)

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.GinRecovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuthChain(
			middleware.JWTAuthMiddleware(jwtService),
			middleware.ResolvePermissions(identityService),
		),
	)

	r.RegisterPublic(authHandler).
		RegisterPublic(systemHandler)

	r.Register(handler.ProtectedAuthRoutes(authHandler)).
		Register(storeHandler).
		Register(orderHandler).
		Register(bulkHandler).
		Register(syncHandler).
		Register(productHandler).
		Register(whatsappHandler).
		Register(interchangeHandler).
		Register(settingsHandler).
		Register(accessHandler)

	r.Setup()

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
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
