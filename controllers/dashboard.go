package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
	"unimart-io/unimart_api/services"
)

// GetShopDashboard -> GET /api/store/dashboard
// Reads the seller's whole order set and recomputes the statistics; no
// materialized view is kept.
func GetShopDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		sellerID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		cursor, err := OrderCollection.Find(ctx, bson.M{"items.seller_id": sellerID})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error fetching store orders")
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error decoding store orders")
			return
		}

		stats := services.ComputeDashboard(orders, sellerID, time.Now())
		helper.HandleSuccess(c, http.StatusOK, "success", stats)
	}
}
