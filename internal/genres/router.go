package genres

import (
	"theatre/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupGenreRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	genres := router.Group("/genres")
	genres.Use(auth, middleware.AdminOrReadOnly())
	{
		genres.GET("", controller.ListGenres)
		genres.POST("", controller.CreateGenre)
	}
}
