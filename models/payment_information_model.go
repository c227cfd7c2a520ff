package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type PaymentInformation struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id" validate:"required"`
	BankName      string             `bson:"bank_name" json:"bank_name" validate:"required"`
	AccountName   string             `bson:"account_name" json:"account_name" validate:"required"`
	AccountNumber string             `bson:"account_number" json:"account_number" validate:"required"`
	CardBrand     string             `bson:"card_brand" json:"card_brand"`
	CardLast4     string             `bson:"card_last4" json:"card_last4"`
	IsDefault     bool               `bson:"is_default" json:"is_default"`
}

type PaymentInformationRequest struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountName   string `json:"account_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	CardNumber    string `json:"card_number"`
	CardMonth     string `json:"card_month"`
	CardYear      string `json:"card_year"`
	CardCvv       string `json:"card_cvv"`
	IsDefault     bool   `json:"is_default"`
}
