package services

import (
	"context"
	"log"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unimart-io/unimart_api/models"
)

// NotificationService owns the durable per-user notification log and the
// live fan-out to every currently-open view of it. All subscribers for a
// user receive the full, freshly-loaded set on every change, so unread
// counts are always derived from the same authoritative data.
type NotificationService struct {
	store NotificationStore
	push  PushSender

	mu      sync.Mutex
	subs    map[string]map[int]func([]models.Notification)
	nextSub int
}

// NewNotificationService wires the service to its backing store. push
// may be nil when no push transport is configured.
func NewNotificationService(store NotificationStore, push PushSender) *NotificationService {
	return &NotificationService{
		store: store,
		push:  push,
		subs:  make(map[string]map[int]func([]models.Notification)),
	}
}

// SetPushSender attaches the push transport after startup wiring, the
// same way the broker connection is handed to the controllers.
func (s *NotificationService) SetPushSender(push PushSender) {
	s.mu.Lock()
	s.push = push
	s.mu.Unlock()
}

// Create appends the notification, enqueues the matching push and fans
// the updated set out to live subscribers. A failed push is logged and
// never fails the call.
func (s *NotificationService) Create(ctx context.Context, n models.Notification) error {
	if err := s.store.Insert(ctx, n); err != nil {
		return err
	}

	s.mu.Lock()
	push := s.push
	s.mu.Unlock()

	if push != nil {
		data := make(map[string]string, len(n.Data)+1)
		for k, v := range n.Data {
			data[k] = v
		}
		data["type"] = string(n.Type)
		msg := PushMessage{
			UserID: n.UserID.Hex(),
			Title:  n.Title,
			Body:   n.Body,
			Data:   data,
		}
		if err := push.Send(ctx, msg); err != nil {
			deliveryErr := &NotificationDeliveryError{Kind: string(n.Type), ID: n.ID.Hex(), Err: err}
			log.Printf("push enqueue failed: %v", deliveryErr)
		}
	}

	s.broadcast(ctx, n.UserID)
	return nil
}

// Subscribe registers a live view over the user's notifications, newest
// first, and immediately delivers the current set. The returned release
// func is idempotent; a released subscriber simply stops receiving.
func (s *NotificationService) Subscribe(ctx context.Context, userID primitive.ObjectID, cb func([]models.Notification)) func() {
	key := userID.Hex()

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]func([]models.Notification))
	}
	s.subs[key][id] = cb
	s.mu.Unlock()

	if notifications, err := s.store.ListByUser(ctx, userID); err == nil {
		cb(notifications)
	} else {
		log.Printf("initial notification load for user %v failed: %v", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs[key], id)
			if len(s.subs[key]) == 0 {
				delete(s.subs, key)
			}
			s.mu.Unlock()
		})
	}
}

// MarkRead flags one notification as read for its owning user. Repeat
// calls are no-ops, not errors.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	if err := s.store.MarkRead(ctx, id, userID); err != nil {
		return err
	}
	s.broadcast(ctx, userID)
	return nil
}

// MarkAllRead flags everything unread as of call time. Notifications
// racing in concurrently may stay unread; that is accepted.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		return err
	}
	s.broadcast(ctx, userID)
	return nil
}

// Clear removes every notification owned by the user.
func (s *NotificationService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.store.Clear(ctx, userID); err != nil {
		return err
	}
	s.broadcast(ctx, userID)
	return nil
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

// UnreadCount derives the badge count from a pushed set. Views must use
// this instead of keeping their own counters.
func UnreadCount(notifications []models.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// QueueSnapshot hands a snapshot to a single-reader channel, evicting
// any stale one still queued so a slow reader always wakes up to the
// newest set.
func QueueSnapshot(ch chan []models.Notification, set []models.Notification) {
	for {
		select {
		case ch <- set:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

func (s *NotificationService) broadcast(ctx context.Context, userID primitive.ObjectID) {
	key := userID.Hex()

	s.mu.Lock()
	callbacks := make([]func([]models.Notification), 0, len(s.subs[key]))
	for _, cb := range s.subs[key] {
		callbacks = append(callbacks, cb)
	}
	s.mu.Unlock()

	if len(callbacks) == 0 {
		return
	}

	notifications, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("notification fan-out load for user %v failed: %v", key, err)
		return
	}

	for _, cb := range callbacks {
		cb(notifications)
	}
}

// Watch tails the notification collection's change stream and replays
// every write into the fan-out hub, so writes from other processes
// reach local subscribers too. It blocks until ctx is done. Update
// events carry no document unless the stream looks the post-image up.
func (s *NotificationService) Watch(ctx context.Context, col *mongo.Collection) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"operationType": bson.M{"$in": bson.A{"insert", "update", "replace", "delete"}}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	stream, err := col.Watch(ctx, pipeline, opts)
	if err != nil {
		return err
	}
	defer stream.Close(ctx)

	for stream.Next(ctx) {
		var event struct {
			OperationType string              `bson:"operationType"`
			FullDocument  models.Notification `bson:"fullDocument"`
		}
		if err := stream.Decode(&event); err != nil {
			log.Printf("failed to decode notification change event: %v", err)
			continue
		}
		s.applyChangeEvent(ctx, event.OperationType, event.FullDocument.UserID)
	}

	return stream.Err()
}

// applyChangeEvent routes one change stream event into the fan-out hub.
// Deletes carry no document, and the looked-up post-image can be gone
// by the time the event is read; both fall back to reloading every
// subscribed user.
func (s *NotificationService) applyChangeEvent(ctx context.Context, operation string, userID primitive.ObjectID) {
	if operation == "delete" || userID.IsZero() {
		s.broadcastAll(ctx)
		return
	}
	s.broadcast(ctx, userID)
}

func (s *NotificationService) broadcastAll(ctx context.Context) {
	s.mu.Lock()
	keys := make([]string, 0, len(s.subs))
	for key := range s.subs {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	for _, key := range keys {
		userID, err := primitive.ObjectIDFromHex(key)
		if err != nil {
			continue
		}
		s.broadcast(ctx, userID)
	}
}
