package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeOrder   NotificationType = "order"
	NotificationTypeSwap    NotificationType = "swap"
	NotificationTypeRental  NotificationType = "rental"
	NotificationTypeMessage NotificationType = "message"
	NotificationTypeStore   NotificationType = "store"
)

// Notification is a one-way event delivered to exactly one user. Only
// its recipient may read, mark or clear it.
type Notification struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	Type      NotificationType   `bson:"type" json:"type" validate:"required,oneof=order swap rental message store"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	Body      string             `bson:"body" json:"body"`
	Data      map[string]string  `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// NewNotification stamps a fresh unread notification for the recipient.
func NewNotification(userID primitive.ObjectID, kind NotificationType, title, body string, data map[string]string) Notification {
	return Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Body:      body,
		Data:      data,
		Read:      false,
		CreatedAt: time.Now(),
	}
}
