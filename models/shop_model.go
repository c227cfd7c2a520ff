package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShopStatus string

const (
	ShopStatusActive    ShopStatus = "active"
	ShopStatusInactive  ShopStatus = "inactive"
	ShopStatusSuspended ShopStatus = "suspended"
)

type Shop struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Username     string             `bson:"username" json:"username" validate:"required"`
	Description  string             `bson:"description" json:"description"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	Slug         string             `bson:"slug" json:"slug" validate:"required"`
	LogoURL      string             `bson:"logo_url" json:"logo_url"`
	Announcement string             `bson:"announcement" json:"announcement"`
	Status       ShopStatus         `bson:"status" json:"status" validate:"required,oneof=active inactive suspended"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	ModifiedAt   time.Time          `bson:"modified_at" json:"modified_at"`
}

type ShopFollower struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	ShopID     primitive.ObjectID `bson:"shop_id" json:"shop_id" validate:"required"`
	FollowerID primitive.ObjectID `bson:"follower_id" json:"follower_id" validate:"required"`
	FollowedAt time.Time          `bson:"followed_at" json:"followed_at"`
}

type NewShopRequest struct {
	Name        string `json:"name" validate:"required"`
	Username    string `json:"username" validate:"required"`
	Description string `json:"description"`
}

type ShopAnnouncementRequest struct {
	Announcement string `json:"announcement"`
}
