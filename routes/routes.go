package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/controllers"
	"unimart-io/unimart_api/middleware"
)

func InitRoute() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.CorsMiddleware())
	router.Use(middleware.PrometheusMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api", configs.UnimartRateLimiter())
	{
		api.GET("/listings", controllers.GetListings())
		api.GET("/listings/:listingId", controllers.GetListing())
		api.GET("/store/check/:username", controllers.CheckShopNameAvailability())
		api.GET("/store/:shopId", controllers.GetShop())

		authed := api.Group("", middleware.Auth())
		{
			authed.POST("/auth/logout", controllers.Logout())
			authed.POST("/auth/refresh", controllers.RefreshToken())

			authed.POST("/orders", controllers.CreateOrder())
			authed.GET("/orders", controllers.GetMyOrders())
			authed.GET("/orders/:orderId", controllers.GetOrder())
			authed.PUT("/orders/:orderId/status", controllers.UpdateOrderStatus())

			authed.POST("/swaps", controllers.CreateSwapRequest())
			authed.GET("/swaps", controllers.GetSwapRequests())
			authed.PUT("/swaps/:swapId/status", controllers.UpdateSwapStatus())

			authed.POST("/rentals", controllers.CreateRentalRequest())
			authed.GET("/rentals", controllers.GetRentalRequests())
			authed.PUT("/rentals/:rentalId/status", controllers.UpdateRentalStatus())

			authed.GET("/notifications", controllers.GetNotifications())
			authed.GET("/notifications/stream", controllers.StreamNotifications())
			authed.PUT("/notifications/read-all", controllers.MarkAllNotificationsRead())
			authed.PUT("/notifications/:notificationId/read", controllers.MarkNotificationRead())
			authed.DELETE("/notifications", controllers.ClearNotifications())

			authed.POST("/listings", controllers.CreateListing())

			authed.POST("/store", controllers.CreateShop())
			authed.POST("/store/:shopId/follow", controllers.FollowShop())
			authed.DELETE("/store/:shopId/follow", controllers.UnfollowShop())
			authed.PUT("/store/:shopId/announcement", controllers.UpdateShopAnnouncement())
			authed.GET("/store/orders", controllers.GetStoreOrders())
			authed.GET("/store/dashboard", controllers.GetShopDashboard())

			authed.POST("/store/payment-information", controllers.CreatePaymentInformation())
			authed.GET("/store/payment-information", controllers.GetPaymentInformation())
			authed.DELETE("/store/payment-information/:paymentId", controllers.DeletePaymentInformation())
		}
	}

	return router
}
