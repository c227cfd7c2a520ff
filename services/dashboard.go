package services

import (
	"log"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"unimart-io/unimart_api/models"
)

// Dashboard statistics are recomputed from the raw order set on every
// request; nothing here is persisted or incrementally maintained.

type DaySales struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type PaymentTypeStat struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

type ProductStat struct {
	Name    string  `json:"name"`
	Sold    int     `json:"sold"`
	Revenue float64 `json:"revenue"`
}

type DashboardStats struct {
	TotalRevenue    float64           `json:"total_revenue"`
	TotalSold       int               `json:"total_sold"`
	PendingOrders   int               `json:"pending_orders"`
	DeliveredOrders int               `json:"delivered_orders"`
	CancelledOrders int               `json:"cancelled_orders"`
	TodaysSales     float64           `json:"todays_sales"`
	TodaysOrders    int               `json:"todays_orders"`
	SalesByDay      []DaySales        `json:"sales_by_day"`
	PaymentTypes    []PaymentTypeStat `json:"payment_types"`
	TopProducts     []ProductStat     `json:"top_products"`
}

// orderRevenue applies the store revenue rule: only fulfilled orders
// count, at their reported store revenue or, failing that, the item
// subtotal.
func orderRevenue(order models.Order) float64 {
	if order.Status != models.OrderStatusDelivered && order.Status != models.OrderStatusCompleted {
		return 0
	}
	if order.StoreRevenueAmount != nil {
		return *order.StoreRevenueAmount
	}
	return order.ItemSubtotal
}

func sameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ComputeDashboard aggregates a store owner's orders into the dashboard
// figures. Orders not involving the seller are ignored; malformed orders
// are skipped and logged so one bad document never takes the dashboard
// down. The output is independent of input ordering.
func ComputeDashboard(orders []models.Order, sellerID primitive.ObjectID, now time.Time) DashboardStats {
	stats := DashboardStats{
		SalesByDay:   make([]DaySales, 0, 7),
		PaymentTypes: []PaymentTypeStat{},
		TopProducts:  []ProductStat{},
	}

	loc := now.Location()

	type dayBucket struct {
		date   time.Time
		amount float64
	}
	days := make([]dayBucket, 7)
	for i := 0; i < 7; i++ {
		days[i] = dayBucket{date: now.AddDate(0, 0, i-6)}
	}

	paymentTypes := make(map[string]*PaymentTypeStat)
	products := make(map[primitive.ObjectID]*ProductStat)

	for _, order := range orders {
		if len(order.Items) == 0 {
			inputErr := &AggregationInputError{OrderID: order.ID.Hex(), Reason: "order has no items"}
			log.Println(inputErr)
			continue
		}
		if !order.SellerOf(sellerID) {
			continue
		}

		revenue := orderRevenue(order)
		stats.TotalRevenue += revenue

		switch order.Status {
		case models.OrderStatusPending:
			stats.PendingOrders++
		case models.OrderStatusDelivered, models.OrderStatusCompleted:
			stats.DeliveredOrders++
		case models.OrderStatusCancelled:
			stats.CancelledOrders++
		}

		if sameDay(order.CreatedAt, now, loc) {
			stats.TodaysSales += revenue
			stats.TodaysOrders++
		}

		for i := range days {
			if sameDay(order.CreatedAt, days[i].date, loc) {
				days[i].amount += revenue
			}
		}

		pt := paymentTypes[order.PaymentMethod]
		if pt == nil {
			pt = &PaymentTypeStat{Type: order.PaymentMethod}
			paymentTypes[order.PaymentMethod] = pt
		}
		pt.Amount += revenue
		pt.Count++

		for _, item := range order.Items {
			if item.SellerID != sellerID {
				continue
			}
			stats.TotalSold += item.Quantity

			product := products[item.ListingID]
			if product == nil {
				product = &ProductStat{Name: item.Title}
				products[item.ListingID] = product
			}
			product.Sold += item.Quantity
			product.Revenue += item.UnitPrice * float64(item.Quantity)
		}
	}

	for _, day := range days {
		stats.SalesByDay = append(stats.SalesByDay, DaySales{
			Date:   day.date.In(loc).Format("2006-01-02"),
			Amount: day.amount,
		})
	}

	for _, pt := range paymentTypes {
		stats.PaymentTypes = append(stats.PaymentTypes, *pt)
	}
	sort.Slice(stats.PaymentTypes, func(i, j int) bool {
		return stats.PaymentTypes[i].Type < stats.PaymentTypes[j].Type
	})

	for _, product := range products {
		stats.TopProducts = append(stats.TopProducts, *product)
	}
	sort.Slice(stats.TopProducts, func(i, j int) bool {
		a, b := stats.TopProducts[i], stats.TopProducts[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		if a.Sold != b.Sold {
			return a.Sold > b.Sold
		}
		return a.Name < b.Name
	})

	return stats
}
