package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/configs"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDelivery DeliveryMethod = "delivery"
)

type OrderItem struct {
	ListingID primitive.ObjectID `bson:"listing_id" json:"listing_id" validate:"required"`
	SellerID  primitive.ObjectID `bson:"seller_id" json:"seller_id" validate:"required"`
	Title     string             `bson:"title" json:"title" validate:"required"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price" validate:"gte=0"`
	Quantity  int                `bson:"quantity" json:"quantity" validate:"required,gt=0"`
	ImageURL  string             `bson:"image_url" json:"image_url"`
}

type Order struct {
	ID                 primitive.ObjectID `bson:"_id" json:"_id"`
	CustomerID         primitive.ObjectID `bson:"customer_id" json:"customer_id" validate:"required"`
	StoreID            primitive.ObjectID `bson:"store_id,omitempty" json:"store_id,omitempty"`
	Items              []OrderItem        `bson:"items" json:"items" validate:"required,min=1,dive"`
	TotalAmount        float64            `bson:"total_amount" json:"total_amount" validate:"gte=0"`
	ItemSubtotal       float64            `bson:"item_subtotal" json:"item_subtotal" validate:"gte=0"`
	DeliveryCost       float64            `bson:"delivery_cost" json:"delivery_cost" validate:"gte=0"`
	StoreRevenueAmount *float64           `bson:"store_revenue_amount,omitempty" json:"store_revenue_amount,omitempty"`
	Status             OrderStatus        `bson:"status" json:"status" validate:"required,oneof=pending in_transit delivered completed cancelled"`
	DeliveryMethod     DeliveryMethod     `bson:"delivery_method" json:"delivery_method" validate:"required,oneof=pickup delivery"`
	PaymentMethod      string             `bson:"payment_method" json:"payment_method" validate:"required"`
	ShippingAddress    string             `bson:"shipping_address" json:"shipping_address"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// moneyEquals compares currency amounts with a half-cent tolerance.
func moneyEquals(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

// NewOrder builds a pending order and rejects documents that violate the
// order invariants before anything is persisted.
func NewOrder(customerID primitive.ObjectID, items []OrderItem, itemSubtotal, deliveryCost, totalAmount float64, deliveryMethod DeliveryMethod, paymentMethod, shippingAddress string) (Order, error) {
	if len(items) == 0 {
		return Order{}, &configs.InputValidationError{
			Message: "an order requires at least one item",
			Field:   "items",
			Tag:     "min",
		}
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return Order{}, &configs.InputValidationError{
				Message: "item quantities must be greater than zero",
				Field:   "items.quantity",
				Tag:     "gt",
			}
		}
		if item.UnitPrice < 0 {
			return Order{}, &configs.InputValidationError{
				Message: "item prices may not be negative",
				Field:   "items.unit_price",
				Tag:     "gte",
			}
		}
	}
	if !moneyEquals(totalAmount, itemSubtotal+deliveryCost) {
		return Order{}, &configs.InputValidationError{
			Message: "total amount must equal item subtotal plus delivery cost",
			Field:   "total_amount",
			Tag:     "eq",
		}
	}

	now := time.Now()
	return Order{
		ID:              primitive.NewObjectID(),
		CustomerID:      customerID,
		Items:           items,
		TotalAmount:     totalAmount,
		ItemSubtotal:    itemSubtotal,
		DeliveryCost:    deliveryCost,
		Status:          OrderStatusPending,
		DeliveryMethod:  deliveryMethod,
		PaymentMethod:   paymentMethod,
		ShippingAddress: shippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// SellerOf reports whether the given user sells at least one item on the
// order.
func (o Order) SellerOf(userID primitive.ObjectID) bool {
	for _, item := range o.Items {
		if item.SellerID == userID {
			return true
		}
	}
	return false
}

// SellerItemCount counts the order's line items sold by the given user.
func (o Order) SellerItemCount(userID primitive.ObjectID) int {
	count := 0
	for _, item := range o.Items {
		if item.SellerID == userID {
			count++
		}
	}
	return count
}

// SellerIDs returns the distinct sellers on the order, in item order.
func (o Order) SellerIDs() []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(o.Items))
	var sellers []primitive.ObjectID
	for _, item := range o.Items {
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			sellers = append(sellers, item.SellerID)
		}
	}
	return sellers
}

type NewOrderItemRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

type NewOrderRequest struct {
	Items           []NewOrderItemRequest `json:"items" validate:"required,min=1,dive"`
	DeliveryMethod  DeliveryMethod        `json:"delivery_method" validate:"required,oneof=pickup delivery"`
	PaymentMethod   string                `json:"payment_method" validate:"required"`
	ShippingAddress string                `json:"shipping_address"`
}

type OrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending in_transit delivered completed cancelled"`
}
