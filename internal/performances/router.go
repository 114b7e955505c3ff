package performances

import (
	"theatre/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPerformanceRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	performances := router.Group("/performances")
	performances.Use(auth, middleware.AdminOrReadOnly())
	{
		performances.GET("", controller.ListPerformances)
		performances.POST("", controller.CreatePerformance)
		performances.GET("/:id", controller.GetPerformance)
		performances.PUT("/:id", controller.UpdatePerformance)
		performances.DELETE("/:id", controller.DeletePerformance)
		performances.GET("/:id/availability", controller.GetAvailability)
	}
}
