package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	slug2 "github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
	"unimart-io/unimart_api/services"
)

// CheckShopNameAvailability -> GET /api/store/check/:username
func CheckShopNameAvailability() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		username := strings.ToLower(c.Param("username"))
		err := ShopCollection.FindOne(ctx, bson.M{"username": username}).Err()
		if err != nil {
			if err == mongo.ErrNoDocuments {
				helper.HandleSuccess(c, http.StatusOK, "Shop username is available", "")
				return
			}
			helper.HandleError(c, http.StatusInternalServerError, err, "Error checking shop username availability")
			return
		}

		helper.HandleError(c, http.StatusConflict, errors.New("shop username is already taken"), "Shop username is not available")
	}
}

// CreateShop -> POST /api/store
func CreateShop() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		req := models.NewShopRequest{
			Name:        c.Request.FormValue("name"),
			Username:    strings.ToLower(c.Request.FormValue("username")),
			Description: c.Request.FormValue("description"),
		}
		if err := helper.ValidateShopName(req.Name); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shop name")
			return
		}
		if err := helper.ValidateShopUserName(req.Username); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shop username")
			return
		}
		if err := helper.ValidateShopDescription(req.Description); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shop description")
			return
		}

		// One shop per user.
		err = ShopCollection.FindOne(ctx, bson.M{"user_id": userID}).Err()
		if err == nil {
			helper.HandleError(c, http.StatusConflict, errors.New("user already owns a shop"), "You already own a shop")
			return
		}
		if err != mongo.ErrNoDocuments {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error checking existing shop")
			return
		}

		var logoURL string
		if logoFile, _, err := c.Request.FormFile("logo"); err == nil {
			logoURL, err = services.NewMediaUpload().FileUpload(models.File{File: logoFile})
			if err != nil {
				helper.HandleError(c, http.StatusInternalServerError, err, "Logo failed to upload")
				return
			}
		}

		now := time.Now()
		shop := models.Shop{
			ID:          primitive.NewObjectID(),
			Name:        req.Name,
			Username:    req.Username,
			Description: req.Description,
			UserID:      userID,
			Slug:        slug2.Make(req.Username),
			LogoURL:     logoURL,
			Status:      models.ShopStatusActive,
			CreatedAt:   now,
			ModifiedAt:  now,
		}

		if _, err := ShopCollection.InsertOne(ctx, shop); err != nil {
			var writeErr mongo.WriteException
			if errors.As(err, &writeErr) && writeErr.HasErrorCode(MongoDuplicateKeyCode) {
				helper.HandleError(c, http.StatusConflict, err, "Shop username is not available")
				return
			}
			helper.HandleError(c, http.StatusInternalServerError, err, "Error creating shop")
			return
		}

		notification := models.NewNotification(
			userID,
			models.NotificationTypeStore,
			"Your store is live",
			"Your store "+shop.Name+" was created successfully",
			map[string]string{"shop_id": shop.ID.Hex()},
		)
		if err := Notifications.Create(ctx, notification); err != nil {
			log.Printf("shop %v created but owner was not notified: %v", shop.ID.Hex(), err)
		}

		helper.HandleSuccess(c, http.StatusCreated, "Shop created successfully", shop)
	}
}

// GetShop -> GET /api/store/:shopId
func GetShop() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		shopID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shop id")
			return
		}

		var shop models.Shop
		err = ShopCollection.FindOne(ctx, bson.M{"_id": shopID}).Decode(&shop)
		if err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Shop not found")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", shop)
	}
}

// FollowShop -> POST /api/store/:shopId/follow
func FollowShop() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		shopID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shop id")
			return
		}

		err = ShopCollection.FindOne(ctx, bson.M{"_id": shopID}).Err()
		if err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Shop not found")
			return
		}

		count, err := ShopFollowerCollection.CountDocuments(ctx, bson.M{"shop_id": shopID, "follower_id": userID})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error checking follow state")
			return
		}
		if count > 0 {
			helper.HandleSuccess(c, http.StatusOK, "Already following this shop", nil)
			return
		}

		follower := models.ShopFollower{
			ID:         primitive.NewObjectID(),
			ShopID:     shopID,
			FollowerID: userID,
			FollowedAt: time.Now(),
		}
		if _, err := ShopFollowerCollection.InsertOne(ctx, follower); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error following shop")
			return
		}

		helper.HandleSuccess(c, http.StatusCreated, "Shop followed successfully", nil)
	}
}

// UnfollowShop -> DELETE /api/store/:shopId/follow
func UnfollowShop() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		shopID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shop id")
			return
		}

		if _, err := ShopFollowerCollection.DeleteMany(ctx, bson.M{"shop_id": shopID, "follower_id": userID}); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error unfollowing shop")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Shop unfollowed successfully", nil)
	}
}

// UpdateShopAnnouncement -> PUT /api/store/:shopId/announcement
func UpdateShopAnnouncement() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		shopID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid shop id")
			return
		}

		if err := VerifyShopOwnership(ctx, userID, shopID); err != nil {
			helper.HandleError(c, http.StatusForbidden, err, "You do not own this shop")
			return
		}

		var req models.ShopAnnouncementRequest
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid data detected in JSON")
			return
		}

		update := bson.M{"$set": bson.M{"announcement": req.Announcement, "modified_at": time.Now()}}
		if _, err := ShopCollection.UpdateOne(ctx, bson.M{"_id": shopID}, update); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error updating announcement")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Announcement updated successfully", nil)
	}
}
