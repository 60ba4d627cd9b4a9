package routes

import (
	"cervejaria_storefront/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathCheckout    = "/checkout"
	PathPixSessions = "/pix/sessions"
)

func addStorefrontRoutes(rg *gin.RouterGroup, checkoutHandler *handlers.CheckoutHandler, pixHandler *handlers.PixSessionHandler) {
	rg.POST(PathCheckout, checkoutHandler.PlaceOrder)

	sessions := rg.Group(PathPixSessions)
	{
		sessions.POST("", pixHandler.Open)
		sessions.GET("/:order_id", pixHandler.Get)
		sessions.GET("/:order_id/events", pixHandler.Events)
		sessions.DELETE("/:order_id", pixHandler.Close)

		// Two-step manual confirmation: show the prompt, then accept or dismiss.
		sessions.POST("/:order_id/confirmation", pixHandler.RequestConfirmation)
		sessions.DELETE("/:order_id/confirmation", pixHandler.DismissConfirmation)
		sessions.POST("/:order_id/confirmation/accept", pixHandler.Confirm)

		sessions.GET("/:order_id/attempts", pixHandler.Attempts)
	}
}
