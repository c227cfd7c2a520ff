package controllers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
	"unimart-io/unimart_api/services"
)

// notifyShopFollowers fans a new-product event out to every follower of
// the shop. Follower notifications are best effort; the listing is
// already live.
func notifyShopFollowers(ctx context.Context, shop models.Shop, listing models.Listing) {
	cursor, err := ShopFollowerCollection.Find(ctx, bson.M{"shop_id": shop.ID})
	if err != nil {
		log.Printf("listing %v created but followers could not be loaded: %v", listing.ID.Hex(), err)
		return
	}
	defer cursor.Close(ctx)

	var followers []models.ShopFollower
	if err := cursor.All(ctx, &followers); err != nil {
		log.Printf("listing %v created but followers could not be decoded: %v", listing.ID.Hex(), err)
		return
	}

	for _, follower := range followers {
		notification := models.NewNotification(
			follower.FollowerID,
			models.NotificationTypeStore,
			"New product from "+shop.Name,
			shop.Name+" just listed "+listing.Title,
			map[string]string{"listing_id": listing.ID.Hex(), "shop_id": shop.ID.Hex()},
		)
		if err := Notifications.Create(ctx, notification); err != nil {
			log.Printf("follower %v was not notified about listing %v: %v", follower.FollowerID.Hex(), listing.ID.Hex(), err)
		}
	}
}

// CreateListing -> POST /api/listings
func CreateListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		sellerID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		req := models.NewListingRequest{
			Title:       c.Request.FormValue("title"),
			Description: c.Request.FormValue("description"),
			Kind:        models.ListingKind(c.Request.FormValue("kind")),
		}
		if price := c.Request.FormValue("price"); price != "" {
			req.Price, err = strconv.ParseFloat(price, 64)
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid price")
				return
			}
		}
		if rate := c.Request.FormValue("daily_rate"); rate != "" {
			req.DailyRate, err = strconv.ParseFloat(rate, 64)
			if err != nil {
				helper.HandleError(c, http.StatusBadRequest, err, "Invalid daily rate")
				return
			}
		}
		if err := configs.Validate.Struct(req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		// Either an uploaded file or a remote URL; both land on the CDN.
		var imageURL string
		if imageFile, _, err := c.Request.FormFile("image"); err == nil {
			imageURL, err = services.NewMediaUpload().FileUpload(models.File{File: imageFile})
			if err != nil {
				helper.HandleError(c, http.StatusInternalServerError, err, "Image failed to upload")
				return
			}
		} else if remote := c.Request.FormValue("image_url"); remote != "" {
			imageURL, err = services.NewMediaUpload().RemoteUpload(models.Url{Url: remote})
			if err != nil {
				helper.HandleError(c, http.StatusInternalServerError, err, "Image failed to upload")
				return
			}
		}

		now := time.Now()
		listing := models.Listing{
			ID:          primitive.NewObjectID(),
			SellerID:    sellerID,
			Title:       req.Title,
			Description: req.Description,
			Kind:        req.Kind,
			Price:       req.Price,
			DailyRate:   req.DailyRate,
			ImageURL:    imageURL,
			State:       models.ListingStateActive,
			CreatedAt:   now,
			ModifiedAt:  now,
		}

		var shop models.Shop
		err = ShopCollection.FindOne(ctx, bson.M{"user_id": sellerID}).Decode(&shop)
		if err == nil {
			listing.ShopID = shop.ID
		} else if err != mongo.ErrNoDocuments {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error resolving shop")
			return
		}

		if _, err := ListingCollection.InsertOne(ctx, listing); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error creating listing")
			return
		}

		if !listing.ShopID.IsZero() {
			notifyShopFollowers(ctx, shop, listing)
		}

		helper.HandleSuccess(c, http.StatusCreated, "Listing created successfully", listing)
	}
}

// GetListing -> GET /api/listings/:listingId
func GetListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		listingID, err := primitive.ObjectIDFromHex(c.Param("listingId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid listing id")
			return
		}

		var listing models.Listing
		err = ListingCollection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
		if err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Listing not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", listing)
	}
}

// GetListings -> GET /api/listings?kind=sale|swap|rental
func GetListings() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		filter := bson.M{"state": models.ListingStateActive}
		if kind := c.Query("kind"); kind != "" {
			filter["kind"] = kind
		}

		pagination := paginationArgs(c)
		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(int64(pagination.Limit)).
			SetSkip(int64(pagination.Skip))

		cursor, err := ListingCollection.Find(ctx, filter, opts)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error fetching listings")
			return
		}
		defer cursor.Close(ctx)

		var listings []models.Listing
		if err := cursor.All(ctx, &listings); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error decoding listings")
			return
		}

		count, err := ListingCollection.CountDocuments(ctx, filter)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error counting listings")
			return
		}

		meta := helper.Pagination{Limit: pagination.Limit, Skip: pagination.Skip, Count: count}
		helper.HandleSuccessMeta(c, http.StatusOK, "success", listings, meta)
	}
}
