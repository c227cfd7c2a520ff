package models

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/configs"
)

func TestNewSwapRequest(t *testing.T) {
	fromUser := primitive.NewObjectID()
	toUser := primitive.NewObjectID()
	fromListing := primitive.NewObjectID()
	toListing := primitive.NewObjectID()

	t.Run("valid proposal starts pending", func(t *testing.T) {
		swap, err := NewSwapRequest(fromUser, toUser, fromListing, toListing, "trade my lamp for your kettle?")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if swap.Status != SwapStatusPending {
			t.Errorf("expected pending, got %s", swap.Status)
		}
	})

	t.Run("same user on both sides rejected", func(t *testing.T) {
		_, err := NewSwapRequest(fromUser, fromUser, fromListing, toListing, "")
		var validation *configs.InputValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected InputValidationError, got %v", err)
		}
		if validation.Field != "to_user_id" {
			t.Errorf("expected to_user_id field, got %s", validation.Field)
		}
	})

	t.Run("same listing on both sides rejected", func(t *testing.T) {
		_, err := NewSwapRequest(fromUser, toUser, fromListing, fromListing, "")
		var validation *configs.InputValidationError
		if !errors.As(err, &validation) {
			t.Fatalf("expected InputValidationError, got %v", err)
		}
		if validation.Field != "to_listing_id" {
			t.Errorf("expected to_listing_id field, got %s", validation.Field)
		}
	})
}

func TestSwapParties(t *testing.T) {
	fromUser := primitive.NewObjectID()
	toUser := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	swap := SwapRequest{FromUserID: fromUser, ToUserID: toUser}

	if !swap.Participant(fromUser) || !swap.Participant(toUser) {
		t.Error("both parties must be participants")
	}
	if swap.Participant(stranger) {
		t.Error("stranger must not be a participant")
	}
	if swap.Counterparty(fromUser) != toUser {
		t.Error("counterparty of the requester must be the recipient")
	}
	if swap.Counterparty(toUser) != fromUser {
		t.Error("counterparty of the recipient must be the requester")
	}
}
