package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
)

// CreateSwapRequest -> POST /api/swaps
func CreateSwapRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		fromUserID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		var req models.NewSwapRequestBody
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid data detected in JSON")
			return
		}
		if err := configs.Validate.Struct(req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		toUserID, err := primitive.ObjectIDFromHex(req.ToUserID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid user id")
			return
		}
		fromListingID, err := primitive.ObjectIDFromHex(req.FromListingID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid listing id")
			return
		}
		toListingID, err := primitive.ObjectIDFromHex(req.ToListingID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid listing id")
			return
		}

		// The offered listing has to belong to the requester.
		err = ListingCollection.FindOne(ctx, bson.M{"_id": fromListingID, "seller_id": fromUserID}).Err()
		if err != nil {
			helper.HandleError(c, http.StatusForbidden, err, "You can only offer your own listing in a swap")
			return
		}

		swap, err := models.NewSwapRequest(fromUserID, toUserID, fromListingID, toListingID, req.Message)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		if _, err := SwapRequestCollection.InsertOne(ctx, swap); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error creating swap request")
			return
		}

		notification := models.NewNotification(
			toUserID,
			models.NotificationTypeSwap,
			"New swap request",
			"Someone proposed a swap for one of your listings",
			map[string]string{"swap_request_id": swap.ID.Hex()},
		)
		if err := Notifications.Create(ctx, notification); err != nil {
			log.Printf("swap request %v created but counterparty was not notified: %v", swap.ID.Hex(), err)
		}

		helper.HandleSuccess(c, http.StatusCreated, "Swap request created successfully", swap)
	}
}

// GetSwapRequests -> GET /api/swaps?box=sent|received
func GetSwapRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		var filter bson.M
		switch c.DefaultQuery("box", "received") {
		case "sent":
			filter = bson.M{"from_user_id": userID}
		default:
			filter = bson.M{"to_user_id": userID}
		}

		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := SwapRequestCollection.Find(ctx, filter, opts)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error fetching swap requests")
			return
		}
		defer cursor.Close(ctx)

		var swaps []models.SwapRequest
		if err := cursor.All(ctx, &swaps); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error decoding swap requests")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", swaps)
	}
}

// UpdateSwapStatus -> PUT /api/swaps/:swapId/status
func UpdateSwapStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		actorID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		swapID, err := primitive.ObjectIDFromHex(c.Param("swapId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid swap request id")
			return
		}

		var req models.SwapStatusRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid data detected in JSON")
			return
		}
		if err := configs.Validate.Struct(req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		swap, err := Lifecycle.TransitionSwap(ctx, swapID, actorID, req.Status)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Swap request updated successfully", swap)
	}
}
