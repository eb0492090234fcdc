package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodlens/backend/config"
	"github.com/foodlens/backend/internal/api"
	"github.com/foodlens/backend/internal/database"
	"github.com/foodlens/backend/internal/middleware"
	"github.com/foodlens/backend/internal/safety"
	"github.com/foodlens/backend/internal/service"
)

// Server wires the HTTP layer over the services.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// Options carries the optional collaborators; any of them may be nil
// and the matching feature degrades.
type Options struct {
	Redis *redis.Client
	S3    *config.S3Config
	LLM   *service.LLMService
	SQLDB *database.DB
}

// New builds the server with all routes registered.
func New(cfg *config.Config, db *gorm.DB, opts Options) *Server {
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.Recovery())

	authService := service.NewAuthService(db, cfg.JWTSecret)
	profileService := service.NewProfileService(db)
	productService := service.NewProductService(cfg.FoodFactsURL, opts.Redis)
	substituteService := service.NewSubstituteService(db)
	reportService := service.NewReportService(db, opts.S3)

	var commentator service.Commentator
	var describer api.ProductDescriber
	var suggester api.SubstituteSuggester
	if opts.LLM != nil {
		commentator = opts.LLM
		describer = opts.LLM
		suggester = opts.LLM
	}
	safetyService := service.NewSafetyService(safety.NewEvaluator(nil), productService, profileService, commentator)

	router.GET("/health", healthHandler(opts.SQLDB, opts.Redis))

	v1 := router.Group("/api/v1")
	api.NewAuthHandler(authService).RegisterRoutes(v1)

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(authService))

	api.NewProfileHandler(profileService).RegisterRoutes(authed)
	api.NewProductHandler(productService, describer, substituteService, suggester).RegisterRoutes(authed)
	api.NewReportHandler(reportService).RegisterRoutes(authed)

	safetyGroup := authed.Group("")
	if opts.Redis != nil {
		limiter := middleware.NewRateLimiter(opts.Redis, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     60,
			KeyPrefix: "ratelimit:safety",
		})
		safetyGroup.Use(limiter.RateLimitMiddleware())
	}
	api.NewSafetyHandler(safetyService).RegisterRoutes(safetyGroup)

	return &Server{router: router}
}

// Router exposes the engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving on the configured port and blocks until the
// listener fails or Stop is called.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}

func healthHandler(db *database.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		code := http.StatusOK

		if db != nil {
			if err := db.HealthCheck(c.Request.Context()); err != nil {
				status["database"] = err.Error()
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				status["redis"] = err.Error()
				status["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		c.JSON(code, status)
	}
}
