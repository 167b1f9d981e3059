package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/avereen/studylog/internal/app"
	iauth "github.com/avereen/studylog/internal/auth"
	"github.com/avereen/studylog/internal/handlers"
	"github.com/avereen/studylog/internal/middleware"
	"github.com/avereen/studylog/internal/services"
)

// Dependencies carries everything the router needs to serve requests.
type Dependencies struct {
	DB        *gorm.DB
	Config    *app.Config
	JWT       *iauth.JWTService
	Sessions  *iauth.SessionService
	Accounts  *services.AccountService
	Records   *services.RecordService
	Stats     *services.StatsService
	RateStore middleware.RateStore
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}
	if deps.Accounts == nil || deps.Records == nil || deps.Stats == nil {
		return nil, fmt.Errorf("domain services must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(deps.Config.Server.AllowedOrigins))

	if rl := deps.Config.Server.RateLimit; rl.Enabled {
		r.Use(middleware.RateLimit(deps.RateStore, rl.MaxRequests, rl.Window))
	}

	r.NoRoute(middleware.NotFoundHandler)

	// Public endpoints
	r.GET("/health", handlers.Health())
	if deps.Config.Metrics.Enabled {
		endpoint := deps.Config.Metrics.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.Auth(deps.JWT))

	registerAuthRoutes(r, api, authRouteDeps{
		AuthHandler: handlers.NewAuthHandler(deps.Accounts, deps.Sessions),
		CodeLimiter: middleware.RateLimitScoped("logincode", deps.RateStore,
			deps.Config.Auth.Code.RequestsPerMinute, time.Minute),
	})
	registerRecordRoutes(api, recordRouteDeps{
		RecordHandler: handlers.NewRecordHandler(deps.Records),
		StatsHandler:  handlers.NewStatsHandler(deps.Stats),
	})

	return r, nil
}
