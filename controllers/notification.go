package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
	"unimart-io/unimart_api/services"
)

// GetNotifications -> GET /api/notifications
// Newest first; the unread badge is derived from the same set so every
// view agrees on the count.
func GetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		notifications, err := Notifications.List(ctx, userID)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error fetching notifications")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "success", gin.H{
			"notifications": notifications,
			"unread_count":  services.UnreadCount(notifications),
		})
	}
}

// MarkNotificationRead -> PUT /api/notifications/:notificationId/read
func MarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		notificationID, err := primitive.ObjectIDFromHex(c.Param("notificationId"))
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid notification id")
			return
		}

		if err := Notifications.MarkRead(ctx, notificationID, userID); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error updating notification")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Notification marked as read", nil)
	}
}

// MarkAllNotificationsRead -> PUT /api/notifications/read-all
func MarkAllNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		if err := Notifications.MarkAllRead(ctx, userID); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error updating notifications")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "All notifications marked as read", nil)
	}
}

// ClearNotifications -> DELETE /api/notifications
// Bulk clear by the owning user; the only deletion path there is.
func ClearNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), UnimartRequestTimeoutSec)
		defer cancel()

		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		if err := Notifications.Clear(ctx, userID); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Error clearing notifications")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Notifications cleared", nil)
	}
}

// StreamNotifications -> GET /api/notifications/stream
// Server-sent events view over the fan-out hub. The subscription is
// released when the client disconnects; a slow client just misses
// intermediate snapshots.
func StreamNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := configs.ExtractTokenID(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Failed to extract user ID from token")
			return
		}

		updates := make(chan []models.Notification, 1)
		unsubscribe := Notifications.Subscribe(c.Request.Context(), userID, func(notifications []models.Notification) {
			// A stale queued set is evicted so the client always wakes
			// up to the newest one.
			services.QueueSnapshot(updates, notifications)
		})
		defer unsubscribe()

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case notifications := <-updates:
				c.SSEvent("notifications", gin.H{
					"notifications": notifications,
					"unread_count":  services.UnreadCount(notifications),
				})
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
