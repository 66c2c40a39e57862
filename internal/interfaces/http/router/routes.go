package router

import (
	"github.com/gin-gonic/gin"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/infrastructure/config"
	"github.com/setorcuan/backend/internal/infrastructure/logger"
	"github.com/setorcuan/backend/internal/infrastructure/storage"
	"github.com/setorcuan/backend/internal/interfaces/http/handler"
	"github.com/setorcuan/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups every HTTP handler of the API
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Transaction *handler.TransactionHandler
	Catalog     *handler.CatalogHandler
	Admin       *handler.AdminHandler
}

// Options configures the engine built by New
type Options struct {
	Logger   *zap.Logger
	HTTP     config.HTTPConfig
	JWT      middleware.JWTMiddlewareConfig
	Security middleware.SecurityConfig
	// AuthLimiter throttles /auth; nil disables throttling
	AuthLimiter *middleware.RateLimiter
	// UploadsDir is served under /uploads when proofs are stored locally
	UploadsDir string
	// Tracing opens a span per request when set
	Tracing *middleware.TracingConfig
}

// New builds the gin engine with the global middleware chain and every route
func New(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if opts.HTTP.MaxBodySize <= 0 {
		opts.HTTP.MaxBodySize = 1 << 20
	}
	if opts.HTTP.MaxUploadSize <= 0 {
		opts.HTTP.MaxUploadSize = 5 << 20
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if len(opts.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
			_ = engine.SetTrustedProxies(nil)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = opts.HTTP.CORSAllowOrigins
	if len(opts.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = opts.HTTP.CORSAllowMethods
	}
	if len(opts.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = opts.HTTP.CORSAllowHeaders
	}

	engine.Use(middleware.RequestID())
	if opts.Tracing != nil {
		engine.Use(middleware.Tracing(*opts.Tracing)...)
	}
	engine.Use(
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.SecureWithConfig(opts.Security),
		middleware.CORSWithConfig(cors),
	)

	engine.GET("/health", h.Health.Health)
	if opts.UploadsDir != "" {
		engine.Static(storage.LocalURLPrefix, opts.UploadsDir)
	}

	jwtCfg := opts.JWT
	if jwtCfg.Logger == nil {
		jwtCfg.Logger = log
	}
	authenticated := middleware.JWTAuthMiddlewareWithConfig(jwtCfg)
	bodyLimit := middleware.BodyLimit(opts.HTTP.MaxBodySize)

	NewRouter(engine).Register(
		authRoutes(h.Auth, opts.AuthLimiter, bodyLimit, authenticated),
		userRoutes(h.User, bodyLimit, authenticated),
		transactionRoutes(h.Transaction, bodyLimit, authenticated),
		catalogRoutes(h.Catalog),
		adminRoutes(h, opts.HTTP, authenticated),
	).Setup()

	return engine
}

func authRoutes(h *handler.AuthHandler, limiter *middleware.RateLimiter, bodyLimit, authenticated gin.HandlerFunc) *DomainGroup {
	g := NewDomainGroup("/auth").Use(bodyLimit)
	if limiter != nil {
		g.Use(middleware.RateLimit(limiter))
	}
	return g.
		POST("/register", h.Register).
		POST("/login", h.Login).
		POST("/refresh", h.Refresh).
		POST("/logout", authenticated, h.Logout)
}

func userRoutes(h *handler.UserHandler, bodyLimit, authenticated gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("/user").
		Use(bodyLimit, authenticated).
		GET("/profile", h.GetProfile).
		PUT("/profile", h.UpdateProfile).
		PUT("/password", h.ChangePassword).
		GET("/summary", h.Summary)
}

func transactionRoutes(h *handler.TransactionHandler, bodyLimit, authenticated gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("/transactions").
		Use(bodyLimit, authenticated).
		GET("", h.History).
		POST("/deposits", h.SubmitDeposit).
		POST("/withdrawals", h.SubmitWithdrawal)
}

func catalogRoutes(h *handler.CatalogHandler) *DomainGroup {
	return NewDomainGroup("").
		GET("/recyclables", h.ListRecyclables).
		GET("/locations", h.ListLocations)
}

func adminRoutes(h Handlers, httpCfg config.HTTPConfig, authenticated gin.HandlerFunc) *DomainGroup {
	admin := NewDomainGroup("/admin").Use(authenticated, middleware.RequireRole(account.RoleAdmin.String()))

	admin.Group("").
		Use(middleware.BodyLimit(httpCfg.MaxBodySize)).
		GET("/transactions", h.Admin.ListTransactions).
		PUT("/transactions/:id/status", h.Admin.UpdateStatus).
		DELETE("/transactions/:id", h.Admin.Cancel).
		POST("/points/adjust", h.Admin.AdjustPoints).
		GET("/users", h.Admin.ListUsers).
		GET("/users/:id", h.Admin.GetUser).
		GET("/audit", h.Admin.ListAudit).
		PUT("/recyclables", h.Catalog.UpsertPrice)

	// multipart overhead on top of the file itself
	admin.Group("").
		Use(middleware.BodyLimit(httpCfg.MaxUploadSize + 64<<10)).
		POST("/withdrawals/:id/proof", h.Admin.UploadProof)

	return admin
}
