package controllers

import (
	"context"
	"net/http"

	creditcard "github.com/durango/go-credit-card"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
)

// setOtherPaymentsToFalse clears is_default on the user's other payment
// records so only one default survives.
func setOtherPaymentsToFalse(ctx context.Context, userID, paymentID primitive.ObjectID) error {
	filter := bson.M{
		"user_id":    userID,
		"_id":        bson.M{"$ne": paymentID},
		"is_default": true,
	}
	update := bson.M{"$set": bson.M{"is_default": false}}

	_, err := PaymentInformationCollection.UpdateMany(ctx, filter, update)
	return err
}

// CreatePaymentInformation -> POST /api/store/payment-information
func CreatePaymentInformation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		var req models.PaymentInformationRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid data detected in JSON")
			return
		}
		if err := configs.Validate.Struct(req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		if len(req.AccountNumber) != 10 {
			helper.HandleError(c, http.StatusBadRequest, errors.New("account number must be 10 digits"), "Invalid account number")
			return
		}

		info := models.PaymentInformation{
			ID:            primitive.NewObjectID(),
			UserID:        userID,
			BankName:      req.BankName,
			AccountName:   req.AccountName,
			AccountNumber: req.AccountNumber,
			IsDefault:     req.IsDefault,
		}

		if req.CardNumber != "" {
			card := creditcard.Card{
				Number: req.CardNumber,
				Cvv:    req.CardCvv,
				Month:  req.CardMonth,
				Year:   req.CardYear,
			}
			if err := card.Validate(); err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid card details")
				return
			}
			if err := card.Method(); err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Unrecognized card issuer")
				return
			}
			last4, err := card.LastFour()
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid card number")
				return
			}
			info.CardBrand = card.Company.Long
			info.CardLast4 = last4
		}

		count, err := PaymentInformationCollection.CountDocuments(ctx, bson.M{"user_id": userID})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error counting current payment information")
			return
		}
		if count >= 3 {
			helper.HandleError(c, http.StatusConflict, errors.New("max allowed payment information reached"), "Max allowed payment information reached")
			return
		}

		if info.IsDefault {
			if err := setOtherPaymentsToFalse(ctx, userID, info.ID); err != nil {
				helper.HandleError(c, http.StatusInternalServerError, err, "Error updating default payment information")
				return
			}
		}

		if _, err := PaymentInformationCollection.InsertOne(ctx, info); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error creating payment information")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Payment information created successfully", info)
	}
}

// GetPaymentInformation -> GET /api/store/payment-information
func GetPaymentInformation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		cursor, err := PaymentInformationCollection.Find(ctx, bson.M{"user_id": userID})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error fetching payment information")
			return
		}
		defer cursor.Close(ctx)

		var infos []models.PaymentInformation
		if err := cursor.All(ctx, &infos); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error decoding payment information")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", infos)
	}
}

// DeletePaymentInformation -> DELETE /api/store/payment-information/:paymentId
func DeletePaymentInformation() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		paymentID, err := primitive.ObjectIDFromHex(c.Param("paymentId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid payment information id")
			return
		}

		res, err := PaymentInformationCollection.DeleteOne(ctx, bson.M{"_id": paymentID, "user_id": userID})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error deleting payment information")
			return
		}
		if res.DeletedCount == 0 {
			helper.HandleError(c, http.StatusNotFound, errors.New("payment information not found"), "Payment information not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Payment information deleted successfully", nil)
	}
}
