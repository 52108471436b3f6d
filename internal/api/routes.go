package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Non-POST hits on the payment proxy must get a 405, not a 404.
	router.HandleMethodNotAllowed = true

	api := router.Group("/api")
	{
		api.GET("/properties", handler.SearchProperties)
		api.GET("/properties/:id", handler.GetProperty)

		api.POST("/auth/register", handler.Register)
		api.POST("/auth/login", handler.Login)

		stripe := api.Group("/stripe")
		{
			stripe.POST("/create-payment-intent", handler.CreatePaymentIntent)
			stripe.POST("/check-transfers", handler.CheckTransfers)
		}

		authed := api.Group("")
		authed.Use(handler.RequireAuth)
		{
			authed.GET("/my/properties", handler.ListMyProperties)
			authed.POST("/properties", handler.CreateProperty)
			authed.PUT("/properties/:id", handler.UpdateProperty)
			authed.DELETE("/properties/:id", handler.DeleteProperty)

			authed.GET("/reservations", handler.ListReservations)
			authed.POST("/reservations", handler.CreateReservation)
			authed.PUT("/reservations/:id/status", handler.UpdateReservationStatus)

			authed.PUT("/users/me", handler.UpdateProfile)
		}
	}
}
