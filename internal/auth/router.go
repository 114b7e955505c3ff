package auth

import (
	"theatre/internal/shared/config"
	"theatre/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles auth and profile routes
type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers /auth and /users/me. limiter guards the credential endpoints.
func (authRouter *Router) SetupRoutes(rg *gin.RouterGroup, limiter gin.HandlerFunc) {
	requireAuth := middleware.JWTAuthWithConfig(authRouter.config)

	auth := rg.Group("/auth")
	{
		// Public routes; an admin token allows registering admins
		auth.POST("/register", limiter, middleware.OptionalAuthWithConfig(authRouter.config), authRouter.controller.Register)
		auth.POST("/login", limiter, authRouter.controller.Login)
		auth.POST("/refresh", limiter, authRouter.controller.RefreshToken)
		auth.POST("/logout", authRouter.controller.Logout)

		// Protected routes (authentication required)
		protected := auth.Group("")
		protected.Use(requireAuth)
		{
			protected.PUT("/change-password", authRouter.controller.ChangePassword)
			protected.GET("/me", authRouter.controller.GetMe)
		}
	}

	me := rg.Group("/users/me")
	me.Use(requireAuth)
	{
		me.GET("", authRouter.controller.GetMe)      // GET /api/v1/users/me
		me.PATCH("", authRouter.controller.UpdateMe) // PATCH /api/v1/users/me
	}
}
