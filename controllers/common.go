package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"unimart-io/unimart_api/configs"
	"unimart-io/unimart_api/helper"
	"unimart-io/unimart_api/models"
	"unimart-io/unimart_api/services"
)

var (
	OrderCollection              = configs.GetCollection(configs.DB, "Order")
	SwapRequestCollection        = configs.GetCollection(configs.DB, "SwapRequest")
	RentalRequestCollection      = configs.GetCollection(configs.DB, "RentalRequest")
	NotificationCollection       = configs.GetCollection(configs.DB, "UserNotification")
	ShopCollection               = configs.GetCollection(configs.DB, "Shop")
	ShopFollowerCollection       = configs.GetCollection(configs.DB, "ShopFollower")
	ListingCollection            = configs.GetCollection(configs.DB, "Listing")
	PaymentInformationCollection = configs.GetCollection(configs.DB, "SellerPaymentInformation")
)

const (
	UnimartRequestTimeoutSec = 50 * time.Second
	MongoDuplicateKeyCode    = 11000
)

var (
	// Notifications and Lifecycle are the engine behind every handler in
	// this package; the stores are Mongo-backed here and faked in tests.
	Notifications = services.NewNotificationService(services.NewMongoNotificationStore(NotificationCollection), nil)
	Lifecycle     = services.NewLifecycleService(
		services.NewMongoOrderStore(OrderCollection),
		services.NewMongoSwapStore(SwapRequestCollection),
		services.NewMongoRentalStore(RentalRequestCollection),
		Notifications,
	)
)

// SetPushSender hands the broker-backed push transport to the
// notification service once startup wiring has it.
func SetPushSender(push services.PushSender) {
	Notifications.SetPushSender(push)
}

// handleServiceError maps the lifecycle error taxonomy onto HTTP status
// codes. Validation failures are always surfaced, never swallowed.
func handleServiceError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	var forbidden *services.ForbiddenError
	var invalid *services.InvalidTransitionError
	var input *configs.InputValidationError

	switch {
	case errors.As(err, &notFound):
		helper.HandleError(c, http.StatusNotFound, err, err.Error())
	case errors.As(err, &forbidden):
		helper.HandleError(c, http.StatusForbidden, err, err.Error())
	case errors.As(err, &invalid):
		helper.HandleError(c, http.StatusConflict, err, err.Error())
	case errors.As(err, &input):
		helper.HandleError(c, http.StatusBadRequest, err, err.Error())
	default:
		helper.HandleError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}

// VerifyShopOwnership verifies if a user owns a given shop using its shopId.
func VerifyShopOwnership(ctx context.Context, userID, shopID primitive.ObjectID) error {
	shop := models.Shop{}
	err := ShopCollection.FindOne(ctx, bson.M{"_id": shopID, "user_id": userID}).Decode(&shop)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return errors.New("user does not own the shop")
		}
		return err
	}
	return nil
}

func paginationArgs(c *gin.Context) helper.PaginationArgs {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		skip = 0
	}
	return helper.PaginationArgs{Limit: limit, Skip: skip}
}
