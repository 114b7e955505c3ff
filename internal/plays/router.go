package plays

import (
	"theatre/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPlayRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	plays := router.Group("/plays")
	plays.Use(auth, middleware.AdminOrReadOnly())
	{
		plays.GET("", controller.ListPlays)                     // GET /api/v1/plays
		plays.POST("", controller.CreatePlay)                   // POST /api/v1/plays - admin
		plays.GET("/:id", controller.GetPlay)                   // GET /api/v1/plays/:id
		plays.POST("/:id/upload-image", controller.UploadImage) // POST /api/v1/plays/:id/upload-image - admin
	}
}
