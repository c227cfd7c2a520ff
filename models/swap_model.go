package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/configs"
)

type SwapStatus string

const (
	SwapStatusPending   SwapStatus = "pending"
	SwapStatusAccepted  SwapStatus = "accepted"
	SwapStatusRejected  SwapStatus = "rejected"
	SwapStatusCancelled SwapStatus = "cancelled"
	SwapStatusCompleted SwapStatus = "completed"
)

// SwapRequest is a proposal to trade one listing for another between two
// users.
type SwapRequest struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	FromUserID    primitive.ObjectID `bson:"from_user_id" json:"from_user_id" validate:"required"`
	ToUserID      primitive.ObjectID `bson:"to_user_id" json:"to_user_id" validate:"required"`
	FromListingID primitive.ObjectID `bson:"from_listing_id" json:"from_listing_id" validate:"required"`
	ToListingID   primitive.ObjectID `bson:"to_listing_id" json:"to_listing_id" validate:"required"`
	Status        SwapStatus         `bson:"status" json:"status" validate:"required,oneof=pending accepted rejected cancelled completed"`
	Message       string             `bson:"message" json:"message"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// NewSwapRequest rejects same-user and same-listing proposals at creation
// time, not at transition time.
func NewSwapRequest(fromUserID, toUserID, fromListingID, toListingID primitive.ObjectID, message string) (SwapRequest, error) {
	if fromUserID == toUserID {
		return SwapRequest{}, &configs.InputValidationError{
			Message: "a swap requires two distinct users",
			Field:   "to_user_id",
			Tag:     "nefield",
		}
	}
	if fromListingID == toListingID {
		return SwapRequest{}, &configs.InputValidationError{
			Message: "a swap requires two distinct listings",
			Field:   "to_listing_id",
			Tag:     "nefield",
		}
	}

	now := time.Now()
	return SwapRequest{
		ID:            primitive.NewObjectID(),
		FromUserID:    fromUserID,
		ToUserID:      toUserID,
		FromListingID: fromListingID,
		ToListingID:   toListingID,
		Status:        SwapStatusPending,
		Message:       message,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Participant reports whether the user is one of the two swap parties.
func (s SwapRequest) Participant(userID primitive.ObjectID) bool {
	return s.FromUserID == userID || s.ToUserID == userID
}

// Counterparty returns the other swap party.
func (s SwapRequest) Counterparty(userID primitive.ObjectID) primitive.ObjectID {
	if s.FromUserID == userID {
		return s.ToUserID
	}
	return s.FromUserID
}

type NewSwapRequestBody struct {
	ToUserID      string `json:"to_user_id" validate:"required"`
	FromListingID string `json:"from_listing_id" validate:"required"`
	ToListingID   string `json:"to_listing_id" validate:"required"`
	Message       string `json:"message"`
}

type SwapStatusRequest struct {
	Status SwapStatus `json:"status" validate:"required,oneof=pending accepted rejected cancelled completed"`
}
