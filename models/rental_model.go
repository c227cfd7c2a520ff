package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/configs"
)

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusApproved  RentalStatus = "approved"
	RentalStatusRejected  RentalStatus = "rejected"
	RentalStatusCancelled RentalStatus = "cancelled"
	RentalStatusCompleted RentalStatus = "completed"
)

// RentalRequest is a booking proposal for a rental listing.
type RentalRequest struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	ListingID primitive.ObjectID `bson:"listing_id" json:"listing_id" validate:"required"`
	RenterID  primitive.ObjectID `bson:"renter_id" json:"renter_id" validate:"required"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id" validate:"required"`
	StartDate time.Time          `bson:"start_date" json:"start_date" validate:"required"`
	EndDate   time.Time          `bson:"end_date" json:"end_date" validate:"required"`
	TotalCost float64            `bson:"total_cost" json:"total_cost" validate:"gte=0"`
	Status    RentalStatus       `bson:"status" json:"status" validate:"required,oneof=pending approved rejected cancelled completed"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// RentalDays counts billable days, rounding partial days up. A valid
// booking always covers at least one day.
func RentalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// NewRentalRequest validates the booking window and prices it off the
// listing's daily rate.
func NewRentalRequest(listingID, renterID, ownerID primitive.ObjectID, start, end time.Time, dailyRate float64, message string) (RentalRequest, error) {
	if renterID == ownerID {
		return RentalRequest{}, &configs.InputValidationError{
			Message: "owners cannot rent their own listing",
			Field:   "renter_id",
			Tag:     "nefield",
		}
	}
	if !start.Before(end) {
		return RentalRequest{}, &configs.InputValidationError{
			Message: "rental start date must fall before the end date",
			Field:   "start_date",
			Tag:     "ltfield",
		}
	}
	if dailyRate < 0 {
		return RentalRequest{}, &configs.InputValidationError{
			Message: "daily rate may not be negative",
			Field:   "daily_rate",
			Tag:     "gte",
		}
	}

	now := time.Now()
	return RentalRequest{
		ID:        primitive.NewObjectID(),
		ListingID: listingID,
		RenterID:  renterID,
		OwnerID:   ownerID,
		StartDate: start,
		EndDate:   end,
		TotalCost: dailyRate * float64(RentalDays(start, end)),
		Status:    RentalStatusPending,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Counterparty returns the other rental party.
func (r RentalRequest) Counterparty(userID primitive.ObjectID) primitive.ObjectID {
	if r.RenterID == userID {
		return r.OwnerID
	}
	return r.RenterID
}

type NewRentalRequestBody struct {
	ListingID string    `json:"listing_id" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Message   string    `json:"message"`
}

type RentalStatusRequest struct {
	Status RentalStatus `json:"status" validate:"required,oneof=pending approved rejected cancelled completed"`
}
