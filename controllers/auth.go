package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
)

// Logout -> POST /api/auth/logout
// Blacklists the presented token; it stays unusable until it would have
// expired anyway.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		if err := helper.InvalidateToken(ctx, configs.REDIS, configs.ExtractToken(c)); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error logging out")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Logged out successfully", nil)
	}
}

// RefreshToken -> POST /api/auth/refresh
// Issues a fresh short-lived token off the presented one. The seller
// flag is re-derived from shop ownership so it never goes stale.
func RefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		loginName, email, err := configs.ExtractTokenLoginNameEmail(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract claims from token")
			return
		}

		shops, err := ShopCollection.CountDocuments(ctx, bson.M{"user_id": userID})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error resolving seller state")
			return
		}

		token, expiresAt, err := configs.GenerateJWT(userID.Hex(), email, loginName, shops > 0)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error issuing token")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Token refreshed successfully", gin.H{
			"token":      token,
			"expires_at": expiresAt,
		})
	}
}
