package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/models"
)

// In-memory stores mirroring the Mongo semantics: Get returns (nil, nil)
// for missing documents and UpdateStatus is an atomic compare-and-set.

type fakeOrderStore struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderStore(orders ...models.Order) *fakeOrderStore {
	s := &fakeOrderStore{orders: make(map[primitive.ObjectID]*models.Order)}
	for i := range orders {
		order := orders[i]
		s.orders[order.ID] = &order
	}
	return s
}

func (s *fakeOrderStore) Get(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.UpdatedAt = at
	return true, nil
}

type fakeSwapStore struct {
	mu    sync.Mutex
	swaps map[primitive.ObjectID]*models.SwapRequest
}

func newFakeSwapStore(swaps ...models.SwapRequest) *fakeSwapStore {
	s := &fakeSwapStore{swaps: make(map[primitive.ObjectID]*models.SwapRequest)}
	for i := range swaps {
		swap := swaps[i]
		s.swaps[swap.ID] = &swap
	}
	return s
}

func (s *fakeSwapStore) Get(_ context.Context, id primitive.ObjectID) (*models.SwapRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	swap, ok := s.swaps[id]
	if !ok {
		return nil, nil
	}
	copied := *swap
	return &copied, nil
}

func (s *fakeSwapStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.SwapStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	swap, ok := s.swaps[id]
	if !ok || swap.Status != from {
		return false, nil
	}
	swap.Status = to
	swap.UpdatedAt = at
	return true, nil
}

type fakeRentalStore struct {
	mu      sync.Mutex
	rentals map[primitive.ObjectID]*models.RentalRequest
}

func newFakeRentalStore(rentals ...models.RentalRequest) *fakeRentalStore {
	s := &fakeRentalStore{rentals: make(map[primitive.ObjectID]*models.RentalRequest)}
	for i := range rentals {
		rental := rentals[i]
		s.rentals[rental.ID] = &rental
	}
	return s
}

func (s *fakeRentalStore) Get(_ context.Context, id primitive.ObjectID) (*models.RentalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rental, ok := s.rentals[id]
	if !ok {
		return nil, nil
	}
	copied := *rental
	return &copied, nil
}

func (s *fakeRentalStore) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to models.RentalStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rental, ok := s.rentals[id]
	if !ok || rental.Status != from {
		return false, nil
	}
	rental.Status = to
	rental.UpdatedAt = at
	return true, nil
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []models.Notification
	failInsert    bool
}

func (s *fakeNotificationStore) Insert(_ context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsert {
		return errors.New("insert failed")
	}
	s.notifications = append(s.notifications, n)
	return nil
}

func (s *fakeNotificationStore) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id && s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
		}
	}
	return nil
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].UserID == userID {
			s.notifications[i].Read = true
		}
	}
	return nil
}

func (s *fakeNotificationStore) Clear(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []models.Notification
	for _, n := range s.notifications {
		if n.UserID != userID {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
	return nil
}

type fakePushSender struct {
	mu   sync.Mutex
	sent []PushMessage
	fail bool
}

func (s *fakePushSender) Send(_ context.Context, msg PushMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("push transport down")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakePushSender) messages() []PushMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]PushMessage(nil), s.sent...)
}
