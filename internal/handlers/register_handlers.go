package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/user_accounts_app/cmd/docs"
	portssvc "github.com/SscSPs/user_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/user_accounts_app/internal/metrics"
	"github.com/SscSPs/user_accounts_app/internal/middleware"
	"github.com/SscSPs/user_accounts_app/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// gatherer may be nil, in which case /metrics is not exposed.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	gatherer prometheus.Gatherer,
) error {
	if origins := splitOrigins(cfg.CORSOrigin); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", getHealth)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))
	}

	v1 := r.Group("/api/v1")
	if err := RegisterUserRoutes(v1, cfg, services); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// RegisterUserRoutes registers the /users routes on rg.
func RegisterUserRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) error {
	auth := newAuthHandler(services.User, cfg)
	user := newUserHandler(services.User)
	requireAuth := middleware.AuthMiddleware(services.TokenService, cfg.AccessTokenCookieName)

	users := rg.Group("/users")

	// Credential-bearing routes share one per-IP budget.
	public := users.Group("")
	if cfg.LoginRateLimit != "" {
		limiter, err := middleware.NewIPRateLimiter(cfg.LoginRateLimit)
		if err != nil {
			return fmt.Errorf("invalid LOGIN_RATE_LIMIT %q: %w", cfg.LoginRateLimit, err)
		}
		public.Use(middleware.RateLimit(limiter))
	}
	public.POST("/register", auth.register)
	public.POST("/login", auth.login)
	public.POST("/refresh-token", auth.refreshToken)

	users.POST("/logout", requireAuth, auth.logout)
	users.GET("/current-user", requireAuth, user.currentUser)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
