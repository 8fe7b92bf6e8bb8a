package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/config"
	"github.com/stemsi/schoolbot-backend/internal/handler"
	"github.com/stemsi/schoolbot-backend/internal/middleware"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/rbac"
	"github.com/stemsi/schoolbot-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth   *handler.AuthHandler
	Tool   *handler.ToolHandler
	Admin  *handler.AdminHandler
	Health *handler.HealthHandler
}

// Deps are the shared components the middlewares need.
type Deps struct {
	Identity    middleware.IdentityDecoder
	Catalog     *rbac.Catalog
	RateLimiter *middleware.RateLimiter
	Log         zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(deps Deps, handlers *Handlers, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request id first so every log line and envelope carries it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(deps.Log))
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.Health.Health)

	v1 := router.Group("/api/v1")

	// ─── 0. Public Group (No Auth) ─────────────────────────────────────
	public := v1.Group("")
	public.Use(deps.RateLimiter.Middleware())
	{
		public.POST("/auth/login", handlers.Auth.Login)
	}

	// ─── 1. Authenticated Group ────────────────────────────────────────
	authed := v1.Group("")
	authed.Use(
		middleware.RequireIdentity(deps.Identity),
		deps.RateLimiter.Middleware(),
		middleware.NoStore(),
	)
	{
		authed.GET("/me", handlers.Auth.Me)
		authed.GET("/permissions", handlers.Auth.Permissions)

		authed.GET("/tools", handlers.Tool.List)
		authed.POST("/tools/:name", handlers.Tool.Invoke)
	}

	// ─── 2. Admin Group ────────────────────────────────────────────────
	admin := authed.Group("/admin")
	{
		admin.POST("/tenant/refresh-cache",
			middleware.RequirePermission(deps.Catalog, model.PermissionManageUsers),
			handlers.Admin.RefreshTenantCache,
		)
	}

	return router
}
