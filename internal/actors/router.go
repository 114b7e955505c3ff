package actors

import (
	"theatre/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupActorRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc) {
	actors := router.Group("/actors")
	actors.Use(auth, middleware.AdminOrReadOnly())
	{
		actors.GET("", controller.ListActors)
		actors.POST("", controller.CreateActor)
	}
}
