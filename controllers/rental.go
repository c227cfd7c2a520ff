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

// CreateRentalRequest -> POST /api/rentals
// The total cost is priced off the listing's daily rate; clients never
// supply it.
func CreateRentalRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		renterID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		var req models.NewRentalRequestBody
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid data detected in JSON")
			return
		}
		if err := configs.Validate.Struct(req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		listingID, err := primitive.ObjectIDFromHex(req.ListingID)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid listing id")
			return
		}

		var listing models.Listing
		err = ListingCollection.FindOne(ctx, bson.M{"_id": listingID, "kind": models.ListingKindRental, "state": models.ListingStateActive}).Decode(&listing)
		if err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Rental listing is no longer available")
			return
		}

		rental, err := models.NewRentalRequest(listingID, renterID, listing.SellerID, req.StartDate, req.EndDate, listing.DailyRate, req.Message)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		if _, err := RentalRequestCollection.InsertOne(ctx, rental); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error creating rental request")
			return
		}

		notification := models.NewNotification(
			listing.SellerID,
			models.NotificationTypeRental,
			"New rental request",
			"Someone wants to rent your listing",
			map[string]string{"rental_request_id": rental.ID.Hex()},
		)
		if err := Notifications.Create(ctx, notification); err != nil {
			log.Printf("rental request %v created but owner was not notified: %v", rental.ID.Hex(), err)
		}

		helper.HandleSuccess(c, http.StatusCreated, "Rental request created successfully", rental)
	}
}

// GetRentalRequests -> GET /api/rentals?box=sent|received
func GetRentalRequests() gin.HandlerFunc {
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
			filter = bson.M{"renter_id": userID}
		default:
			filter = bson.M{"owner_id": userID}
		}

		opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
		cursor, err := RentalRequestCollection.Find(ctx, filter, opts)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error fetching rental requests")
			return
		}
		defer cursor.Close(ctx)

		var rentals []models.RentalRequest
		if err := cursor.All(ctx, &rentals); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error decoding rental requests")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", rentals)
	}
}

// UpdateRentalStatus -> PUT /api/rentals/:rentalId/status
func UpdateRentalStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		actorID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		rentalID, err := primitive.ObjectIDFromHex(c.Param("rentalId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid rental request id")
			return
		}

		var req models.RentalStatusRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid data detected in JSON")
			return
		}
		if err := configs.Validate.Struct(req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		rental, err := Lifecycle.TransitionRental(ctx, rentalID, actorID, req.Status)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Rental request updated successfully", rental)
	}
}
