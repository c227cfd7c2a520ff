package services

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/models"
)

func dashboardOrder(status models.OrderStatus, createdAt time.Time, items ...models.OrderItem) models.Order {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	return models.Order{
		ID:            primitive.NewObjectID(),
		CustomerID:    primitive.NewObjectID(),
		Items:         items,
		TotalAmount:   subtotal + 5,
		ItemSubtotal:  subtotal,
		DeliveryCost:  5,
		Status:        status,
		PaymentMethod: "transfer",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func sellerItem(sellerID primitive.ObjectID, listingID primitive.ObjectID, title string, price float64, qty int) models.OrderItem {
	return models.OrderItem{
		ListingID: listingID,
		SellerID:  sellerID,
		Title:     title,
		UnitPrice: price,
		Quantity:  qty,
	}
}

func TestComputeDashboardEmpty(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	stats := ComputeDashboard(nil, primitive.NewObjectID(), now)

	if stats.TotalRevenue != 0 || stats.TotalSold != 0 || stats.TodaysOrders != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
	if len(stats.SalesByDay) != 7 {
		t.Fatalf("expected exactly 7 day buckets, got %d", len(stats.SalesByDay))
	}
	if stats.SalesByDay[0].Date != "2026-08-24" || stats.SalesByDay[6].Date != "2026-08-30" {
		t.Errorf("day buckets out of order: first %s last %s", stats.SalesByDay[0].Date, stats.SalesByDay[6].Date)
	}
	for _, day := range stats.SalesByDay {
		if day.Amount != 0 {
			t.Errorf("expected zero amount for %s, got %f", day.Date, day.Amount)
		}
	}
	if len(stats.PaymentTypes) != 0 || len(stats.TopProducts) != 0 {
		t.Errorf("expected empty breakdowns, got %+v", stats)
	}
}

func TestComputeDashboardRevenueRules(t *testing.T) {
	seller := primitive.NewObjectID()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	listing := primitive.NewObjectID()

	t.Run("only fulfilled orders earn revenue", func(t *testing.T) {
		orders := []models.Order{
			dashboardOrder(models.OrderStatusPending, now, sellerItem(seller, listing, "Kettle", 30, 1)),
			dashboardOrder(models.OrderStatusInTransit, now, sellerItem(seller, listing, "Kettle", 30, 1)),
			dashboardOrder(models.OrderStatusDelivered, now, sellerItem(seller, listing, "Kettle", 30, 1)),
			dashboardOrder(models.OrderStatusCompleted, now, sellerItem(seller, listing, "Kettle", 30, 1)),
			dashboardOrder(models.OrderStatusCancelled, now, sellerItem(seller, listing, "Kettle", 30, 1)),
		}

		stats := ComputeDashboard(orders, seller, now)
		if stats.TotalRevenue != 60 {
			t.Errorf("expected revenue 60 from the two fulfilled orders, got %f", stats.TotalRevenue)
		}
		if stats.PendingOrders != 1 {
			t.Errorf("expected 1 pending, got %d", stats.PendingOrders)
		}
		if stats.DeliveredOrders != 2 {
			t.Errorf("expected delivered+completed = 2, got %d", stats.DeliveredOrders)
		}
		if stats.CancelledOrders != 1 {
			t.Errorf("expected 1 cancelled, got %d", stats.CancelledOrders)
		}
		if stats.TodaysOrders != 5 {
			t.Errorf("every order was created today, got %d", stats.TodaysOrders)
		}
		if stats.TodaysSales != 60 {
			t.Errorf("expected today's sales 60, got %f", stats.TodaysSales)
		}
	})

	t.Run("store revenue amount overrides the item subtotal", func(t *testing.T) {
		order := dashboardOrder(models.OrderStatusDelivered, now, sellerItem(seller, listing, "Kettle", 30, 1))
		override := 25.5
		order.StoreRevenueAmount = &override

		stats := ComputeDashboard([]models.Order{order}, seller, now)
		if stats.TotalRevenue != 25.5 {
			t.Errorf("expected overridden revenue 25.5, got %f", stats.TotalRevenue)
		}
	})

	t.Run("orders outside the window stay out of the day buckets", func(t *testing.T) {
		old := dashboardOrder(models.OrderStatusDelivered, now.AddDate(0, 0, -10), sellerItem(seller, listing, "Kettle", 30, 1))
		recent := dashboardOrder(models.OrderStatusDelivered, now.AddDate(0, 0, -2), sellerItem(seller, listing, "Kettle", 40, 1))

		stats := ComputeDashboard([]models.Order{old, recent}, seller, now)
		if stats.TotalRevenue != 70 {
			t.Errorf("all-time revenue should include the old order, got %f", stats.TotalRevenue)
		}
		bucketTotal := 0.0
		for _, day := range stats.SalesByDay {
			bucketTotal += day.Amount
		}
		if bucketTotal != 40 {
			t.Errorf("expected only the recent order in the 7-day window, got %f", bucketTotal)
		}
		if stats.SalesByDay[4].Amount != 40 {
			t.Errorf("expected 40 two days back, got %f", stats.SalesByDay[4].Amount)
		}
	})
}

func TestComputeDashboardBreakdowns(t *testing.T) {
	seller := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	kettle := primitive.NewObjectID()
	lamp := primitive.NewObjectID()
	chair := primitive.NewObjectID()

	t.Run("payment types sorted by name", func(t *testing.T) {
		cash := dashboardOrder(models.OrderStatusDelivered, now, sellerItem(seller, kettle, "Kettle", 30, 1))
		cash.PaymentMethod = "cash"
		transfer := dashboardOrder(models.OrderStatusDelivered, now, sellerItem(seller, lamp, "Lamp", 20, 1))
		transfer.PaymentMethod = "transfer"

		stats := ComputeDashboard([]models.Order{transfer, cash}, seller, now)
		if len(stats.PaymentTypes) != 2 {
			t.Fatalf("expected 2 payment types, got %d", len(stats.PaymentTypes))
		}
		if stats.PaymentTypes[0].Type != "cash" || stats.PaymentTypes[1].Type != "transfer" {
			t.Errorf("payment types not sorted: %+v", stats.PaymentTypes)
		}
		if stats.PaymentTypes[0].Amount != 30 || stats.PaymentTypes[0].Count != 1 {
			t.Errorf("unexpected cash stats: %+v", stats.PaymentTypes[0])
		}
	})

	t.Run("top products rank by revenue then sold then name", func(t *testing.T) {
		orders := []models.Order{
			dashboardOrder(models.OrderStatusDelivered, now,
				sellerItem(seller, kettle, "Kettle", 30, 2), // revenue 60
				sellerItem(seller, lamp, "Lamp", 20, 3),     // revenue 60, more sold
			),
			dashboardOrder(models.OrderStatusDelivered, now,
				sellerItem(seller, chair, "Chair", 10, 1), // revenue 10
			),
		}

		stats := ComputeDashboard(orders, seller, now)
		if len(stats.TopProducts) != 3 {
			t.Fatalf("expected 3 products, got %d", len(stats.TopProducts))
		}
		if stats.TopProducts[0].Name != "Lamp" {
			t.Errorf("sold count should break the revenue tie, got %s first", stats.TopProducts[0].Name)
		}
		if stats.TopProducts[1].Name != "Kettle" || stats.TopProducts[2].Name != "Chair" {
			t.Errorf("unexpected product order: %+v", stats.TopProducts)
		}
		if stats.TotalSold != 6 {
			t.Errorf("expected 6 units sold, got %d", stats.TotalSold)
		}
	})

	t.Run("another seller's items on a shared order are excluded", func(t *testing.T) {
		order := dashboardOrder(models.OrderStatusDelivered, now,
			sellerItem(seller, kettle, "Kettle", 30, 1),
			sellerItem(stranger, lamp, "Lamp", 20, 1),
		)

		stats := ComputeDashboard([]models.Order{order}, seller, now)
		if stats.TotalSold != 1 {
			t.Errorf("expected only the seller's unit counted, got %d", stats.TotalSold)
		}
		if len(stats.TopProducts) != 1 || stats.TopProducts[0].Name != "Kettle" {
			t.Errorf("expected only the seller's product, got %+v", stats.TopProducts)
		}
	})

	t.Run("orders not involving the seller are ignored", func(t *testing.T) {
		order := dashboardOrder(models.OrderStatusDelivered, now, sellerItem(stranger, lamp, "Lamp", 20, 1))

		stats := ComputeDashboard([]models.Order{order}, seller, now)
		if stats.TotalRevenue != 0 || stats.TotalSold != 0 || stats.DeliveredOrders != 0 {
			t.Errorf("stranger's order leaked in: %+v", stats)
		}
	})

	t.Run("malformed order is skipped, the rest still aggregate", func(t *testing.T) {
		broken := models.Order{ID: primitive.NewObjectID(), Status: models.OrderStatusDelivered, CreatedAt: now}
		good := dashboardOrder(models.OrderStatusDelivered, now, sellerItem(seller, kettle, "Kettle", 30, 1))

		stats := ComputeDashboard([]models.Order{broken, good}, seller, now)
		if stats.TotalRevenue != 30 {
			t.Errorf("expected 30 from the well-formed order, got %f", stats.TotalRevenue)
		}
		if stats.DeliveredOrders != 1 {
			t.Errorf("expected 1 delivered order, got %d", stats.DeliveredOrders)
		}
	})
}

func TestComputeDashboardOrderInvariance(t *testing.T) {
	seller := primitive.NewObjectID()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	var orders []models.Order
	statuses := []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusInTransit, models.OrderStatusDelivered,
		models.OrderStatusCompleted, models.OrderStatusCancelled,
	}
	for i := 0; i < 20; i++ {
		orders = append(orders, dashboardOrder(statuses[i%len(statuses)], now.AddDate(0, 0, -(i%9)),
			sellerItem(seller, primitive.NewObjectID(), "Item", float64(5+i), 1+i%3)))
	}

	baseline := ComputeDashboard(orders, seller, now)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		shuffled := append([]models.Order(nil), orders...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		if got := ComputeDashboard(shuffled, seller, now); !reflect.DeepEqual(got, baseline) {
			t.Fatalf("dashboard depends on input order:\nbaseline %+v\ngot      %+v", baseline, got)
		}
	}
}
