package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/models"
)

// LifecycleService owns the three transaction state machines. Every
// transition is validated against the persisted status, applied with a
// compare-and-set, and followed by exactly one notification to the party
// who did not act. Losing that notification is recoverable; the status
// write is the authoritative fact and is never rolled back.
type LifecycleService struct {
	orders        OrderStore
	swaps         SwapStore
	rentals       RentalStore
	notifications *NotificationService
}

func NewLifecycleService(orders OrderStore, swaps SwapStore, rentals RentalStore, notifications *NotificationService) *LifecycleService {
	return &LifecycleService{
		orders:        orders,
		swaps:         swaps,
		rentals:       rentals,
		notifications: notifications,
	}
}

var orderSuccessors = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusInTransit, models.OrderStatusDelivered, models.OrderStatusCompleted, models.OrderStatusCancelled},
	models.OrderStatusInTransit: {models.OrderStatusDelivered, models.OrderStatusCompleted, models.OrderStatusCancelled},
}

var swapSuccessors = map[models.SwapStatus][]models.SwapStatus{
	models.SwapStatusPending:  {models.SwapStatusAccepted, models.SwapStatusRejected, models.SwapStatusCancelled},
	models.SwapStatusAccepted: {models.SwapStatusCancelled, models.SwapStatusCompleted},
}

var rentalSuccessors = map[models.RentalStatus][]models.RentalStatus{
	models.RentalStatusPending:  {models.RentalStatusApproved, models.RentalStatusRejected, models.RentalStatusCancelled},
	models.RentalStatusApproved: {models.RentalStatusCancelled, models.RentalStatusCompleted},
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// TransitionOrder advances an order. Only a seller on the order may move
// it; the customer is notified.
func (s *LifecycleService) TransitionOrder(ctx context.Context, orderID, actorID primitive.ObjectID, next models.OrderStatus) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &NotFoundError{Kind: "order", ID: orderID.Hex()}
	}

	if !contains(orderSuccessors[order.Status], next) {
		return nil, &InvalidTransitionError{Kind: "order", ID: orderID.Hex(), Current: string(order.Status), Requested: string(next)}
	}
	if !order.SellerOf(actorID) {
		return nil, &ForbiddenError{Kind: "order", ID: orderID.Hex(), Actor: actorID.Hex(), Status: string(next)}
	}

	now := time.Now()
	applied, err := s.orders.UpdateStatus(ctx, orderID, order.Status, next, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.reloadOrderConflict(ctx, orderID, next)
	}

	order.Status = next
	order.UpdatedAt = now

	s.notify(ctx, models.NewNotification(
		order.CustomerID,
		models.NotificationTypeOrder,
		"Order update",
		fmt.Sprintf("Your order is now %s", orderStatusLine(next)),
		map[string]string{"order_id": orderID.Hex()},
	))

	return order, nil
}

// TransitionSwap advances a swap request. Accept/reject belongs to the
// counterparty, cancel to the requester, and either participant may mark
// an accepted swap completed.
func (s *LifecycleService) TransitionSwap(ctx context.Context, swapID, actorID primitive.ObjectID, next models.SwapStatus) (*models.SwapRequest, error) {
	swap, err := s.swaps.Get(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if swap == nil {
		return nil, &NotFoundError{Kind: "swap request", ID: swapID.Hex()}
	}

	if !contains(swapSuccessors[swap.Status], next) {
		return nil, &InvalidTransitionError{Kind: "swap request", ID: swapID.Hex(), Current: string(swap.Status), Requested: string(next)}
	}

	allowed := false
	switch next {
	case models.SwapStatusAccepted, models.SwapStatusRejected:
		allowed = actorID == swap.ToUserID
	case models.SwapStatusCancelled:
		allowed = actorID == swap.FromUserID
	case models.SwapStatusCompleted:
		allowed = swap.Participant(actorID)
	}
	if !allowed {
		return nil, &ForbiddenError{Kind: "swap request", ID: swapID.Hex(), Actor: actorID.Hex(), Status: string(next)}
	}

	now := time.Now()
	applied, err := s.swaps.UpdateStatus(ctx, swapID, swap.Status, next, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.reloadSwapConflict(ctx, swapID, next)
	}

	swap.Status = next
	swap.UpdatedAt = now

	s.notify(ctx, models.NewNotification(
		swap.Counterparty(actorID),
		models.NotificationTypeSwap,
		"Swap update",
		fmt.Sprintf("A swap request was %s", string(next)),
		map[string]string{"swap_request_id": swapID.Hex()},
	))

	return swap, nil
}

// TransitionRental advances a rental request. Approve/reject/complete
// belongs to the listing owner, cancel to the renter.
func (s *LifecycleService) TransitionRental(ctx context.Context, rentalID, actorID primitive.ObjectID, next models.RentalStatus) (*models.RentalRequest, error) {
	rental, err := s.rentals.Get(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental == nil {
		return nil, &NotFoundError{Kind: "rental request", ID: rentalID.Hex()}
	}

	if !contains(rentalSuccessors[rental.Status], next) {
		return nil, &InvalidTransitionError{Kind: "rental request", ID: rentalID.Hex(), Current: string(rental.Status), Requested: string(next)}
	}

	allowed := false
	switch next {
	case models.RentalStatusApproved, models.RentalStatusRejected, models.RentalStatusCompleted:
		allowed = actorID == rental.OwnerID
	case models.RentalStatusCancelled:
		allowed = actorID == rental.RenterID
	}
	if !allowed {
		return nil, &ForbiddenError{Kind: "rental request", ID: rentalID.Hex(), Actor: actorID.Hex(), Status: string(next)}
	}

	now := time.Now()
	applied, err := s.rentals.UpdateStatus(ctx, rentalID, rental.Status, next, now)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, s.reloadRentalConflict(ctx, rentalID, next)
	}

	rental.Status = next
	rental.UpdatedAt = now

	s.notify(ctx, models.NewNotification(
		rental.Counterparty(actorID),
		models.NotificationTypeRental,
		"Rental update",
		fmt.Sprintf("A rental request was %s", string(next)),
		map[string]string{"rental_request_id": rentalID.Hex()},
	))

	return rental, nil
}

// notify performs the post-transition notification write. The transition
// already stands, so a failure here is logged, not returned.
func (s *LifecycleService) notify(ctx context.Context, n models.Notification) {
	if err := s.notifications.Create(ctx, n); err != nil {
		deliveryErr := &NotificationDeliveryError{Kind: string(n.Type), ID: n.ID.Hex(), Err: err}
		log.Printf("transition applied but counterparty was not notified: %v", deliveryErr)
	}
}

// A compare-and-set miss means another writer got there first. Re-read
// to report the authoritative state rather than the stale snapshot.
func (s *LifecycleService) reloadOrderConflict(ctx context.Context, id primitive.ObjectID, requested models.OrderStatus) error {
	fresh, err := s.orders.Get(ctx, id)
	if err != nil {
		return err
	}
	if fresh == nil {
		return &NotFoundError{Kind: "order", ID: id.Hex()}
	}
	return &InvalidTransitionError{Kind: "order", ID: id.Hex(), Current: string(fresh.Status), Requested: string(requested)}
}

func (s *LifecycleService) reloadSwapConflict(ctx context.Context, id primitive.ObjectID, requested models.SwapStatus) error {
	fresh, err := s.swaps.Get(ctx, id)
	if err != nil {
		return err
	}
	if fresh == nil {
		return &NotFoundError{Kind: "swap request", ID: id.Hex()}
	}
	return &InvalidTransitionError{Kind: "swap request", ID: id.Hex(), Current: string(fresh.Status), Requested: string(requested)}
}

func (s *LifecycleService) reloadRentalConflict(ctx context.Context, id primitive.ObjectID, requested models.RentalStatus) error {
	fresh, err := s.rentals.Get(ctx, id)
	if err != nil {
		return err
	}
	if fresh == nil {
		return &NotFoundError{Kind: "rental request", ID: id.Hex()}
	}
	return &InvalidTransitionError{Kind: "rental request", ID: id.Hex(), Current: string(fresh.Status), Requested: string(requested)}
}

func orderStatusLine(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusInTransit:
		return "in transit"
	case models.OrderStatusDelivered:
		return "delivered"
	case models.OrderStatusCompleted:
		return "completed"
	case models.OrderStatusCancelled:
		return "cancelled"
	default:
		return string(status)
	}
}
