package halls

import (
	"theatre/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupHallRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	halls := router.Group("/theatre-halls")
	halls.Use(auth, middleware.AdminOrReadOnly())
	{
		halls.GET("", controller.ListHalls)   // GET /api/v1/theatre-halls
		halls.POST("", controller.CreateHall) // POST /api/v1/theatre-halls - admin
	}
}
