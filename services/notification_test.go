package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/models"
)

func seedNotifications(t *testing.T, svc *NotificationService, userID primitive.ObjectID, n int) []models.Notification {
	t.Helper()
	ctx := context.Background()
	var seeded []models.Notification
	for i := 0; i < n; i++ {
		notif := models.NewNotification(userID, models.NotificationTypeMessage, "New message", "You have a new message", nil)
		notif.CreatedAt = time.Now().Add(time.Duration(i) * time.Millisecond)
		if err := svc.Create(ctx, notif); err != nil {
			t.Fatalf("seeding notification: %v", err)
		}
		seeded = append(seeded, notif)
	}
	return seeded
}

func TestNotificationFanOut(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	t.Run("all subscribers for a user receive every change", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)

		var first, second [][]models.Notification
		releaseFirst := svc.Subscribe(ctx, userID, func(set []models.Notification) {
			first = append(first, set)
		})
		defer releaseFirst()
		releaseSecond := svc.Subscribe(ctx, userID, func(set []models.Notification) {
			second = append(second, set)
		})
		defer releaseSecond()

		// Both got the initial snapshot, even when empty.
		if len(first) != 1 || len(second) != 1 {
			t.Fatalf("expected initial snapshot for both subscribers, got %d and %d", len(first), len(second))
		}
		if len(first[0]) != 0 {
			t.Errorf("expected empty initial snapshot, got %d notifications", len(first[0]))
		}

		seedNotifications(t, svc, userID, 2)

		if len(first) != 3 || len(second) != 3 {
			t.Fatalf("expected 3 deliveries each, got %d and %d", len(first), len(second))
		}
		if len(first[2]) != 2 {
			t.Errorf("expected final set of 2, got %d", len(first[2]))
		}
		if UnreadCount(first[2]) != 2 {
			t.Errorf("expected 2 unread, got %d", UnreadCount(first[2]))
		}
	})

	t.Run("other users never see the change", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)

		var deliveries int
		release := svc.Subscribe(ctx, otherID, func([]models.Notification) {
			deliveries++
		})
		defer release()

		seedNotifications(t, svc, userID, 1)

		if deliveries != 1 {
			t.Errorf("expected only the initial snapshot, got %d deliveries", deliveries)
		}
	})

	t.Run("released subscriber stops receiving", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)

		var deliveries int
		release := svc.Subscribe(ctx, userID, func([]models.Notification) {
			deliveries++
		})

		seedNotifications(t, svc, userID, 1)
		release()
		release() // releasing twice is a no-op
		seedNotifications(t, svc, userID, 1)

		if deliveries != 2 {
			t.Errorf("expected 2 deliveries before release, got %d", deliveries)
		}
	})
}

func TestNotificationReadState(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	t.Run("mark read is idempotent", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)
		seeded := seedNotifications(t, svc, userID, 1)

		if err := svc.MarkRead(ctx, seeded[0].ID, userID); err != nil {
			t.Fatalf("first mark read: %v", err)
		}
		if err := svc.MarkRead(ctx, seeded[0].ID, userID); err != nil {
			t.Fatalf("repeat mark read must not error: %v", err)
		}

		set, err := svc.List(ctx, userID)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if UnreadCount(set) != 0 {
			t.Errorf("expected 0 unread, got %d", UnreadCount(set))
		}
	})

	t.Run("mark all read clears the backlog", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)
		seedNotifications(t, svc, userID, 3)

		if err := svc.MarkAllRead(ctx, userID); err != nil {
			t.Fatalf("mark all read: %v", err)
		}

		set, _ := svc.List(ctx, userID)
		if len(set) != 3 {
			t.Fatalf("expected 3 notifications, got %d", len(set))
		}
		if UnreadCount(set) != 0 {
			t.Errorf("expected 0 unread, got %d", UnreadCount(set))
		}
	})

	t.Run("clear empties the log and notifies subscribers", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)
		seedNotifications(t, svc, userID, 2)

		var last []models.Notification
		release := svc.Subscribe(ctx, userID, func(set []models.Notification) {
			last = set
		})
		defer release()

		if err := svc.Clear(ctx, userID); err != nil {
			t.Fatalf("clear: %v", err)
		}
		if len(last) != 0 {
			t.Errorf("expected empty set after clear, got %d", len(last))
		}
	})
}

func TestNotificationPush(t *testing.T) {
	ctx := context.Background()
	userID := primitive.NewObjectID()

	t.Run("push payload carries the notification type", func(t *testing.T) {
		push := &fakePushSender{}
		svc := NewNotificationService(&fakeNotificationStore{}, push)

		notif := models.NewNotification(userID, models.NotificationTypeOrder, "Order update", "Your order is on the way", map[string]string{"order_id": "abc"})
		if err := svc.Create(ctx, notif); err != nil {
			t.Fatalf("create: %v", err)
		}

		sent := push.messages()
		if len(sent) != 1 {
			t.Fatalf("expected 1 push, got %d", len(sent))
		}
		if sent[0].UserID != userID.Hex() {
			t.Errorf("push addressed to %s, want %s", sent[0].UserID, userID.Hex())
		}
		if sent[0].Data["type"] != string(models.NotificationTypeOrder) {
			t.Errorf("push data missing type, got %v", sent[0].Data)
		}
		if sent[0].Data["order_id"] != "abc" {
			t.Errorf("push data lost the payload, got %v", sent[0].Data)
		}
		if notif.Data != nil {
			if _, ok := notif.Data["type"]; ok {
				t.Errorf("push payload must not leak into the stored notification data")
			}
		}
	})

	t.Run("push failure does not fail the create", func(t *testing.T) {
		store := &fakeNotificationStore{}
		svc := NewNotificationService(store, &fakePushSender{fail: true})

		notif := models.NewNotification(userID, models.NotificationTypeSwap, "Swap accepted", "Your swap was accepted", nil)
		if err := svc.Create(ctx, notif); err != nil {
			t.Fatalf("create must survive push failure, got %v", err)
		}

		set, _ := store.ListByUser(ctx, userID)
		if len(set) != 1 {
			t.Errorf("notification must still be persisted, got %d", len(set))
		}
	})

	t.Run("no push transport configured", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)
		notif := models.NewNotification(userID, models.NotificationTypeRental, "Rental approved", "Your booking was approved", nil)
		if err := svc.Create(ctx, notif); err != nil {
			t.Fatalf("create without push transport: %v", err)
		}
	})
}

func TestApplyChangeEvent(t *testing.T) {
	ctx := context.Background()
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()

	subscribe := func(t *testing.T, svc *NotificationService, userID primitive.ObjectID) *int {
		t.Helper()
		deliveries := 0
		release := svc.Subscribe(ctx, userID, func([]models.Notification) {
			deliveries++
		})
		t.Cleanup(release)
		return &deliveries
	}

	t.Run("update event reloads the named user", func(t *testing.T) {
		store := &fakeNotificationStore{}
		svc := NewNotificationService(store, nil)
		a := subscribe(t, svc, userA)
		b := subscribe(t, svc, userB)

		if err := store.Insert(ctx, models.NewNotification(userA, models.NotificationTypeMessage, "New message", "", nil)); err != nil {
			t.Fatalf("insert: %v", err)
		}
		svc.applyChangeEvent(ctx, "update", userA)

		if *a != 2 {
			t.Errorf("expected snapshot + reload for the updated user, got %d", *a)
		}
		if *b != 1 {
			t.Errorf("other user must not reload, got %d", *b)
		}
	})

	t.Run("delete event reloads every subscribed user", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)
		a := subscribe(t, svc, userA)
		b := subscribe(t, svc, userB)

		svc.applyChangeEvent(ctx, "delete", primitive.NilObjectID)

		if *a != 2 || *b != 2 {
			t.Errorf("every subscriber must reload on delete, got %d and %d", *a, *b)
		}
	})

	t.Run("missing post-image falls back to reloading everyone", func(t *testing.T) {
		svc := NewNotificationService(&fakeNotificationStore{}, nil)
		a := subscribe(t, svc, userA)

		svc.applyChangeEvent(ctx, "update", primitive.NilObjectID)

		if *a != 2 {
			t.Errorf("subscriber must reload when the event names no user, got %d", *a)
		}
	})
}

func TestQueueSnapshot(t *testing.T) {
	userID := primitive.NewObjectID()
	older := []models.Notification{models.NewNotification(userID, models.NotificationTypeMessage, "first", "", nil)}
	newer := []models.Notification{
		models.NewNotification(userID, models.NotificationTypeMessage, "first", "", nil),
		models.NewNotification(userID, models.NotificationTypeMessage, "second", "", nil),
	}

	t.Run("newer snapshot evicts the stale queued one", func(t *testing.T) {
		ch := make(chan []models.Notification, 1)
		QueueSnapshot(ch, older)
		QueueSnapshot(ch, newer)

		got := <-ch
		if len(got) != len(newer) {
			t.Fatalf("reader must observe the newest set, got %d notifications", len(got))
		}
		select {
		case extra := <-ch:
			t.Fatalf("channel should be drained, got extra set of %d", len(extra))
		default:
		}
	})

	t.Run("empty channel accepts directly", func(t *testing.T) {
		ch := make(chan []models.Notification, 1)
		QueueSnapshot(ch, older)
		if got := <-ch; len(got) != 1 {
			t.Fatalf("expected the queued set, got %d notifications", len(got))
		}
	})
}

func TestUnreadCount(t *testing.T) {
	set := []models.Notification{
		{Read: false},
		{Read: true},
		{Read: false},
	}
	if got := UnreadCount(set); got != 2 {
		t.Errorf("expected 2 unread, got %d", got)
	}
	if got := UnreadCount(nil); got != 0 {
		t.Errorf("expected 0 unread for empty set, got %d", got)
	}
}
