package controllers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
)

func deliveryFee(method models.DeliveryMethod) float64 {
	if method == models.DeliveryMethodPickup {
		return 0
	}
	fee, err := strconv.ParseFloat(configs.LoadEnvFor("DELIVERY_FEE"), 64)
	if err != nil {
		return 5
	}
	return fee
}

// CreateOrder -> POST /api/orders
// Checkout: prices come from the listings, never from the client.
func CreateOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		customerID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		var req models.NewOrderRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid data detected in JSON")
			return
		}
		if err := configs.Validate.Struct(req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		var items []models.OrderItem
		var subtotal float64
		for _, reqItem := range req.Items {
			listingID, err := primitive.ObjectIDFromHex(reqItem.ListingID)
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid listing id")
				return
			}

			var listing models.Listing
			err = ListingCollection.FindOne(ctx, bson.M{"_id": listingID, "state": models.ListingStateActive}).Decode(&listing)
			if err != nil {
				helper.HandleError(c, http.StatusNotFound, err, fmt.Sprintf("Listing %s is no longer available", reqItem.ListingID))
				return
			}

			items = append(items, models.OrderItem{
				ListingID: listing.ID,
				SellerID:  listing.SellerID,
				Title:     listing.Title,
				UnitPrice: listing.Price,
				Quantity:  reqItem.Quantity,
				ImageURL:  listing.ImageURL,
			})
			subtotal += listing.Price * float64(reqItem.Quantity)
		}

		cost := deliveryFee(req.DeliveryMethod)
		order, err := models.NewOrder(customerID, items, subtotal, cost, subtotal+cost, req.DeliveryMethod, req.PaymentMethod, req.ShippingAddress)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		if _, err := OrderCollection.InsertOne(ctx, order); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error creating order")
			return
		}

		for _, sellerID := range order.SellerIDs() {
			notification := models.NewNotification(
				sellerID,
				models.NotificationTypeOrder,
				"New order received",
				fmt.Sprintf("You have a new order for %d item(s)", order.SellerItemCount(sellerID)),
				map[string]string{"order_id": order.ID.Hex()},
			)
			if err := Notifications.Create(ctx, notification); err != nil {
				log.Printf("order %v created but seller %v was not notified: %v", order.ID.Hex(), sellerID.Hex(), err)
			}
		}

		helper.HandleSuccess(c, http.StatusCreated, "Order created successfully", order)
	}
}

// GetOrder -> GET /api/orders/:orderId
// Visible to the customer and to any seller on the order.
func GetOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid order id")
			return
		}

		var order models.Order
		err = OrderCollection.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Order not found")
			return
		}

		if order.CustomerID != userID && !order.SellerOf(userID) {
			helper.HandleError(c, http.StatusForbidden, fmt.Errorf("user %v is not a party to order %v", userID.Hex(), orderID.Hex()), "You are not a party to this order")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", order)
	}
}

// GetMyOrders -> GET /api/orders
func GetMyOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		pagination := paginationArgs(c)
		filter := bson.M{"customer_id": userID}
		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(pagination.Limit)).
			SetSkip(int64(pagination.Skip))

		cursor, err := OrderCollection.Find(ctx, filter, opts)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error fetching orders")
			return
		}
		defer cursor.Close(ctx)

		var orders []models.Order
		if err := cursor.All(ctx, &orders); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error decoding orders")
			return
		}

		count, err := OrderCollection.CountDocuments(ctx, filter)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error counting orders")
			return
		}

		meta := helper.Pagination{Limit: pagination.Limit, Skip: pagination.Skip, Count: count}
		helper.HandleSuccessMeta(c, http.StatusOK, "success", orders, meta)
	}
}

// GetStoreOrders -> GET /api/store/orders
// Every order that includes at least one of the seller's items.
func GetStoreOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		sellerID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		pagination := paginationArgs(c)
		filter := bson.M{"items.seller_id": sellerID}
		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(pagination.Limit)).
			SetSkip(int64(pagination.Skip))

		cursor, err := OrderCollection.Find(ctx, filter, opts)
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

		count, err := OrderCollection.CountDocuments(ctx, filter)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error counting store orders")
			return
		}

		meta := helper.Pagination{Limit: pagination.Limit, Skip: pagination.Skip, Count: count}
		helper.HandleSuccessMeta(c, http.StatusOK, "success", orders, meta)
	}
}

// UpdateOrderStatus -> PUT /api/orders/:orderId/status
// Seller-side transition through the lifecycle engine.
func UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		actorID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid order id")
			return
		}

		var req models.OrderStatusRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid data detected in JSON")
			return
		}
		if err := configs.Validate.Struct(req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		order, err := Lifecycle.TransitionOrder(ctx, orderID, actorID, req.Status)
		if err != nil {
			handleServiceError(c, err)
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Order status updated successfully", order)
	}
}
