// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	_ "theatre/docs"
	"theatre/internal/actors"
	"theatre/internal/auth"
	"theatre/internal/genres"
	"theatre/internal/halls"
	"theatre/internal/performances"
	"theatre/internal/plays"
	"theatre/internal/reservations"
	"theatre/internal/shared/config"
	"theatre/internal/shared/database"
	"theatre/internal/shared/middleware"
	"theatre/pkg/cache"
	"theatre/pkg/logger"
	"theatre/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	log         *logger.Logger
	rateLimiter *ratelimit.RateLimiter
	publisher   reservations.EventPublisher
	cache       cache.Service

	// Shared services for dependency injection
	genreService       genres.Service
	actorService       actors.Service
	hallService        halls.Service
	playService        plays.Service
	performanceService performances.Service
}

// NewRouter creates a new router instance. rateLimiter and publisher may be nil.
func NewRouter(cfg *config.Config, db *database.DB, log *logger.Logger, rateLimiter *ratelimit.RateLimiter, publisher reservations.EventPublisher) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		log:         log,
		rateLimiter: rateLimiter,
		publisher:   publisher,
		cache:       cache.NewService(db.Redis),
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.Static(plays.ImageURLPrefix, r.config.Upload.Path+"/plays")
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		requireAuth := middleware.JWTAuthWithConfig(r.config)

		r.setupAuthRoutes(api)

		// Catalog order matters: plays need genres and actors, performances need plays and halls
		catalog := api.Group("", r.catalogLimiter())
		r.setupGenreRoutes(catalog, requireAuth)
		r.setupActorRoutes(catalog, requireAuth)
		r.setupHallRoutes(catalog, requireAuth)
		r.setupPlayRoutes(catalog, requireAuth)
		r.setupPerformanceRoutes(catalog, requireAuth)

		r.setupReservationRoutes(api, requireAuth)
	}
}

func (r *Router) limiter(limitType ratelimit.RateLimitType) gin.HandlerFunc {
	if r.rateLimiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return ratelimit.Middleware(r.rateLimiter, limitType, r.log)
}

// catalogLimiter budgets catalog reads as public traffic and writes as admin traffic
func (r *Router) catalogLimiter() gin.HandlerFunc {
	read := r.limiter(ratelimit.RateLimitTypePublic)
	write := r.limiter(ratelimit.RateLimitTypeAdmin)
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			read(c)
		default:
			write(c)
		}
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "theatre-api",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "theatre-api",
			"redis":     r.db.Redis != nil,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authRepo := auth.NewRepository(r.db.PostgreSQL)
	authService := auth.NewService(authRepo, r.config)
	authController := auth.NewController(authService, r.log)

	auth.NewRouter(authController, r.config).SetupRoutes(rg, r.limiter(ratelimit.RateLimitTypeAuth))
}

func (r *Router) setupGenreRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	r.genreService = genres.NewService(genres.NewRepository(r.db.PostgreSQL), r.cache)
	genres.SetupGenreRoutes(rg, genres.NewController(r.genreService), requireAuth)
}

func (r *Router) setupActorRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	r.actorService = actors.NewService(actors.NewRepository(r.db.PostgreSQL), r.cache)
	actors.SetupActorRoutes(rg, actors.NewController(r.actorService), requireAuth)
}

func (r *Router) setupHallRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	r.hallService = halls.NewService(halls.NewRepository(r.db.PostgreSQL), r.cache)
	halls.SetupHallRoutes(rg, halls.NewController(r.hallService), requireAuth)
}

func (r *Router) setupPlayRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	r.playService = plays.NewService(plays.NewRepository(r.db.PostgreSQL), r.genreService, r.actorService, r.cache)
	plays.SetupPlayRoutes(rg, plays.NewController(r.playService, r.config.Upload), requireAuth)
}

func (r *Router) setupPerformanceRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	r.performanceService = performances.NewService(performances.NewRepository(r.db.PostgreSQL), r.playService, r.hallService)
	performances.SetupPerformanceRoutes(rg, performances.NewController(r.performanceService), requireAuth)
}

func (r *Router) setupReservationRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	locker := r.reservationLocker()
	service := reservations.NewService(
		reservations.NewRepository(r.db.PostgreSQL),
		locker,
		r.publisher,
		r.log,
		r.config.Reservation,
	)

	reservations.SetupReservationRoutes(rg, reservations.NewController(service), requireAuth, r.limiter(ratelimit.RateLimitTypeReservation))
}

// reservationLocker serializes writers per performance inside this process and,
// with Redis, across instances
func (r *Router) reservationLocker() reservations.Locker {
	local := reservations.NewLocalLocker()
	if r.db.Redis == nil || !r.config.Reservation.DistributedLock {
		return local
	}

	distributed := reservations.NewRedisLocker(r.db.Redis, reservations.RedisLockConfig{
		TTL:          r.config.Reservation.LockTTL,
		Wait:         r.config.Reservation.LockWait,
		PollInterval: r.config.Reservation.LockPollInterval,
	})
	r.log.Info("Distributed reservation lock enabled", "ttl", r.config.Reservation.LockTTL)
	return reservations.ChainLockers(local, distributed)
}
