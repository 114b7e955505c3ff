package reservations

import (
	"github.com/gin-gonic/gin"
)

func SetupReservationRoutes(router *gin.RouterGroup, controller Controller, auth gin.HandlerFunc, limiter gin.HandlerFunc) {
	reservations := router.Group("/reservations")
	reservations.Use(auth)
	{
		reservations.GET("", controller.ListReservations)           // GET /api/v1/reservations
		reservations.POST("", limiter, controller.CreateReservation) // POST /api/v1/reservations
	}
}
