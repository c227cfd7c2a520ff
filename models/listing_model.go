package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ListingKind string

const (
	ListingKindSale   ListingKind = "sale"
	ListingKindSwap   ListingKind = "swap"
	ListingKindRental ListingKind = "rental"
)

type ListingState string

const (
	ListingStateActive   ListingState = "active"
	ListingStateInactive ListingState = "inactive"
	ListingStateSold     ListingState = "sold"
)

type Listing struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	ShopID      primitive.ObjectID `bson:"shop_id,omitempty" json:"shop_id,omitempty"`
	SellerID    primitive.ObjectID `bson:"seller_id" json:"seller_id" validate:"required"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description"`
	Kind        ListingKind        `bson:"kind" json:"kind" validate:"required,oneof=sale swap rental"`
	Price       float64            `bson:"price" json:"price" validate:"gte=0"`
	DailyRate   float64            `bson:"daily_rate" json:"daily_rate" validate:"gte=0"`
	ImageURL    string             `bson:"image_url" json:"image_url"`
	State       ListingState       `bson:"state" json:"state" validate:"required,oneof=active inactive sold"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	ModifiedAt  time.Time          `bson:"modified_at" json:"modified_at"`
}

type NewListingRequest struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Kind        ListingKind `json:"kind" validate:"required,oneof=sale swap rental"`
	Price       float64     `json:"price" validate:"gte=0"`
	DailyRate   float64     `json:"daily_rate" validate:"gte=0"`
}
