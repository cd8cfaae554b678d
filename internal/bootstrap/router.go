package bootstrap

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/projectvault/vault-backend/config"
	httpapi "github.com/projectvault/vault-backend/internal/api/http"
	"github.com/projectvault/vault-backend/internal/api/http/middleware"
	"github.com/projectvault/vault-backend/internal/api/http/routes"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Config      *config.Config
	Logger      *zap.Logger
	DB          *pgxpool.Pool
	Redis       *redis.Client
	Services    *Services
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(log))
	r.Use(cors.New(corsConfig(dep.Config.Server.CORSOrigins)))

	var db, cache httpapi.Pinger
	if dep.DB != nil {
		db = dep.DB
	}
	if dep.Redis != nil {
		cache = redisPinger{client: dep.Redis}
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, db, cache)
	healthHandler.RegisterRoutes(r)

	limiter := middleware.NewRateLimiter(dep.Config.RateLimit.RPS, dep.Config.RateLimit.Burst)
	r.Use(limiter.Middleware())

	routes.RegisterV1(r, routes.V1Deps{
		Vault:    dep.Services.Vault,
		Accounts: dep.Services.Accounts,
	})

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	return cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		// Identity headers are set by the fronting layer only, never by browsers.
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept",
			middleware.CSRFHeader,
			middleware.HeaderRequestID,
		},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}
