package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"unimart-io/unimart_api/models"
)

// The stores are injected into the services so tests can swap the Mongo
// collections for in-memory fakes. Get returns (nil, nil) when the
// document does not exist; UpdateStatus performs a compare-and-set
// against the stored status and reports false when the document no
// longer matches.

type OrderStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (bool, error)
}

type SwapStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.SwapRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.SwapStatus, at time.Time) (bool, error)
}

type RentalStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.RentalRequest, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.RentalStatus, at time.Time) (bool, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, n models.Notification) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

func getByID[T any](ctx context.Context, col *mongo.Collection, id primitive.ObjectID) (*T, error) {
	var doc T
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load document")
	}
	return &doc, nil
}

// casStatus flips status only while the stored value still matches from.
func casStatus(ctx context.Context, col *mongo.Collection, id primitive.ObjectID, from, to any, at time.Time) (bool, error) {
	filter := bson.M{"_id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": at}}

	err := col.FindOneAndUpdate(ctx, filter, update).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to update status")
	}
	return true, nil
}

type MongoOrderStore struct {
	col *mongo.Collection
}

func NewMongoOrderStore(col *mongo.Collection) *MongoOrderStore {
	return &MongoOrderStore{col: col}
}

func (s *MongoOrderStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return getByID[models.Order](ctx, s.col, id)
}

func (s *MongoOrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.OrderStatus, at time.Time) (bool, error) {
	return casStatus(ctx, s.col, id, from, to, at)
}

type MongoSwapStore struct {
	col *mongo.Collection
}

func NewMongoSwapStore(col *mongo.Collection) *MongoSwapStore {
	return &MongoSwapStore{col: col}
}

func (s *MongoSwapStore) Get(ctx context.Context, id primitive.ObjectID) (*models.SwapRequest, error) {
	return getByID[models.SwapRequest](ctx, s.col, id)
}

func (s *MongoSwapStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.SwapStatus, at time.Time) (bool, error) {
	return casStatus(ctx, s.col, id, from, to, at)
}

type MongoRentalStore struct {
	col *mongo.Collection
}

func NewMongoRentalStore(col *mongo.Collection) *MongoRentalStore {
	return &MongoRentalStore{col: col}
}

func (s *MongoRentalStore) Get(ctx context.Context, id primitive.ObjectID) (*models.RentalRequest, error) {
	return getByID[models.RentalRequest](ctx, s.col, id)
}

func (s *MongoRentalStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to models.RentalStatus, at time.Time) (bool, error) {
	return casStatus(ctx, s.col, id, from, to, at)
}

type MongoNotificationStore struct {
	col *mongo.Collection
}

func NewMongoNotificationStore(col *mongo.Collection) *MongoNotificationStore {
	return &MongoNotificationStore{col: col}
}

func (s *MongoNotificationStore) Insert(ctx context.Context, n models.Notification) error {
	_, err := s.col.InsertOne(ctx, n)
	return errors.Wrap(err, "failed to insert notification")
}

func (s *MongoNotificationStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query notifications")
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, errors.Wrap(err, "failed to decode notifications")
	}
	return notifications, nil
}

func (s *MongoNotificationStore) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	// Marking an already-read notification matches zero documents and is
	// a no-op, which keeps the call idempotent.
	filter := bson.M{"_id": id, "user_id": userID}
	update := bson.M{"$set": bson.M{"read": true}}
	_, err := s.col.UpdateOne(ctx, filter, update)
	return errors.Wrap(err, "failed to mark notification read")
}

func (s *MongoNotificationStore) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"user_id": userID, "read": false}
	update := bson.M{"$set": bson.M{"read": true}}
	_, err := s.col.UpdateMany(ctx, filter, update)
	return errors.Wrap(err, "failed to mark notifications read")
}

func (s *MongoNotificationStore) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.col.DeleteMany(ctx, bson.M{"user_id": userID})
	return errors.Wrap(err, "failed to clear notifications")
}
