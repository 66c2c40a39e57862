package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	appaccount "github.com/setorcuan/backend/internal/application/account"
	appcatalog "github.com/setorcuan/backend/internal/application/catalog"
	appexchange "github.com/setorcuan/backend/internal/application/exchange"
	"github.com/setorcuan/backend/internal/infrastructure/auth"
	"github.com/setorcuan/backend/internal/infrastructure/cache"
	"github.com/setorcuan/backend/internal/infrastructure/config"
	"github.com/setorcuan/backend/internal/infrastructure/event"
	"github.com/setorcuan/backend/internal/infrastructure/logger"
	"github.com/setorcuan/backend/internal/infrastructure/migration"
	"github.com/setorcuan/backend/internal/infrastructure/notification"
	"github.com/setorcuan/backend/internal/infrastructure/persistence"
	"github.com/setorcuan/backend/internal/infrastructure/storage"
	"github.com/setorcuan/backend/internal/infrastructure/telemetry"
	"github.com/setorcuan/backend/internal/interfaces/http/handler"
	"github.com/setorcuan/backend/internal/interfaces/http/middleware"
	"github.com/setorcuan/backend/internal/interfaces/http/router"
	"github.com/setorcuan/backend/migrations"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	migrate := flag.Bool("migrate", false, "Apply pending migrations before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting SetorCuan backend",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracer, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.App.Name,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	if tracer.IsEnabled() && cfg.Telemetry.DBTracing {
		if err := persistence.EnableTracing(db.DB, persistence.TracingOptions{
			DBName:           cfg.Database.DBName,
			IncludeVariables: cfg.Telemetry.DBIncludeVariables,
		}); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}

	if *migrate {
		if err := applyMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}
	stores := cache.NewStoreFactory(redisClient, cache.WithLogger(log), cache.WithPriceTTL(cfg.Redis.PriceTTL))

	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	} else {
		log.Warn("Redis not configured, token revocation is per instance")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	proofs, err := storage.New(ctx, &cfg.Storage, cfg.HTTP.MaxUploadSize, log)
	if err != nil {
		log.Fatal("Failed to initialize proof storage", zap.Error(err))
	}
	var uploadsDir string
	if local, ok := proofs.(*storage.LocalStore); ok {
		uploadsDir = local.Root()
	}

	notifier := notification.New(cfg.Notification, log)

	// Repositories
	users := persistence.NewGormUserRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	exchangeScope := persistence.NewGormExchangeTransactionScope(db.DB)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	authSvc := appaccount.NewAuthService(users, jwtService, auth.NewPasswordHasher(bcrypt.DefaultCost), blacklist, log)
	catalogSvc := appcatalog.NewService(
		persistence.NewGormRecyclableRepository(db.DB),
		persistence.NewGormLocationRepository(db.DB),
		stores.PriceStore(),
		log,
	)
	intake := appexchange.NewIntakeService(exchangeScope, catalogSvc, appexchange.Limits{
		MinWithdrawal:       cfg.Exchange.MinWithdrawal,
		MaxWithdrawal:       cfg.Exchange.MaxWithdrawal,
		PointToCurrencyRate: cfg.Exchange.PointToCurrencyRate,
	}, log)
	lifecycle := appexchange.NewLifecycleService(exchangeScope, proofs, log)
	history := appexchange.NewHistoryService(persistence.NewGormTransactionReader(db.DB), users)
	adjustments := appaccount.NewAdjustmentService(persistence.NewGormAccountTransactionScope(db.DB), auditRepo, log)

	// Events
	bus := event.NewInMemoryEventBus(log)
	idempotency := stores.IdempotencyStore()
	defer idempotency.Close()
	bus.Subscribe(event.NewIdempotentHandler(
		appexchange.NewNotificationHandler(users, notifier, log),
		idempotency,
		log,
	))
	if err := bus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	authSvc.SetEventPublisher(bus)
	intake.SetEventPublisher(bus)
	lifecycle.SetEventPublisher(bus)
	adjustments.SetEventPublisher(bus)

	// HTTP
	middleware.SetupValidator()
	limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow)

	checks := map[string]handler.HealthCheck{"database": persistence.PingGorm(db.DB)}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var tracing *middleware.TracingConfig
	if tracer.IsEnabled() {
		tracing = &middleware.TracingConfig{ServiceName: cfg.App.Name}
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()

	engine := router.New(router.Handlers{
		Health:      handler.NewHealthHandler(cfg.App.Name, checks),
		Auth:        handler.NewAuthHandler(authSvc),
		User:        handler.NewUserHandler(authSvc, history),
		Transaction: handler.NewTransactionHandler(intake, history),
		Catalog:     handler.NewCatalogHandler(catalogSvc),
		Admin:       handler.NewAdminHandler(lifecycle, history, adjustments, appaccount.NewDirectoryService(users)),
	}, router.Options{
		Logger: log,
		HTTP:   cfg.HTTP,
		JWT: middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		},
		Security:    security,
		AuthLimiter: limiter,
		UploadsDir:  uploadsDir,
		Tracing:     tracing,
	})

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	limiter.Stop()
	if err := bus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}
	// in-flight WhatsApp sends
	notifier.Wait()
	if err := tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry did not flush cleanly", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func applyMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.Files, log)
	if err != nil {
		return err
	}
	// closing the migrator would close the shared connection pool
	return m.Up()
}
