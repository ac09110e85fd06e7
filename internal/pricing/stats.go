package pricing

import (
	"sort"
	"time"
)

// OrderLine is the stats-facing view of an order item.
type OrderLine struct {
	ProductID  string
	Qty        int
	TotalPrice Money
}

// OrderRecord is the stats-facing view of an order.
type OrderRecord struct {
	Status        string
	PaymentStatus string
	TotalAmount   Money
	CreatedAt     time.Time
}

// PaymentPaid is the payment status counted as settled revenue.
const PaymentPaid = "paid"

// OrderSummary aggregates a single order's items.
type OrderSummary struct {
	TotalItems       int   `json:"totalItems"`
	TotalAmount      Money `json:"totalAmount"`
	UniqueProducts   int   `json:"uniqueProducts"`
	AverageItemPrice Money `json:"averageItemPrice"`
}

// OrderStats rolls up item counts and amounts for one order. The average is
// zero when the order has no items.
func OrderStats(items []OrderLine) OrderSummary {
	var s OrderSummary
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		s.TotalItems += item.Qty
		s.TotalAmount += item.TotalPrice
		if _, ok := seen[item.ProductID]; !ok {
			seen[item.ProductID] = struct{}{}
			s.UniqueProducts++
		}
	}
	if s.TotalItems > 0 {
		s.AverageItemPrice = s.TotalAmount / Money(s.TotalItems)
	}
	return s
}

// CustomerSummary aggregates a customer's order history. Only paid orders
// contribute to TotalSpent and the average.
type CustomerSummary struct {
	TotalSpent        Money `json:"totalSpent"`
	PendingPayment    Money `json:"pendingPayment"`
	TotalOrders       int   `json:"totalOrders"`
	PaidOrders        int   `json:"paidOrders"`
	AverageOrderValue Money `json:"averageOrderValue"`
}

// CustomerStats partitions orders by payment status and rolls up spend.
func CustomerStats(orders []OrderRecord) CustomerSummary {
	var s CustomerSummary
	s.TotalOrders = len(orders)
	for _, order := range orders {
		if order.PaymentStatus == PaymentPaid {
			s.TotalSpent += order.TotalAmount
			s.PaidOrders++
		} else {
			s.PendingPayment += order.TotalAmount
		}
	}
	if s.PaidOrders > 0 {
		s.AverageOrderValue = s.TotalSpent / Money(s.PaidOrders)
	}
	return s
}

// DashboardSummary aggregates all orders for the admin dashboard. Unlike
// CustomerSummary, TotalRevenue counts every order regardless of payment
// status.
type DashboardSummary struct {
	TotalOrders       int            `json:"totalOrders"`
	TotalRevenue      Money          `json:"totalRevenue"`
	PaidRevenue       Money          `json:"paidRevenue"`
	PendingRevenue    Money          `json:"pendingRevenue"`
	AverageOrderValue Money          `json:"averageOrderValue"`
	StatusBreakdown   map[string]int `json:"statusBreakdown"`
	PaymentBreakdown  map[string]int `json:"paymentBreakdown"`
}

// DashboardStats builds the admin rollup in a single pass. Status values are
// treated as opaque labels; seedStatuses pre-populates breakdown keys so the
// dashboard renders zero-valued statuses instead of omitting them.
func DashboardStats(orders []OrderRecord, seedStatuses ...string) DashboardSummary {
	s := DashboardSummary{
		StatusBreakdown:  make(map[string]int, len(seedStatuses)),
		PaymentBreakdown: make(map[string]int, 2),
	}
	for _, status := range seedStatuses {
		s.StatusBreakdown[status] = 0
	}
	s.TotalOrders = len(orders)
	for _, order := range orders {
		s.TotalRevenue += order.TotalAmount
		if order.PaymentStatus == PaymentPaid {
			s.PaidRevenue += order.TotalAmount
		} else {
			s.PendingRevenue += order.TotalAmount
		}
		s.StatusBreakdown[order.Status]++
		s.PaymentBreakdown[order.PaymentStatus]++
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalRevenue / Money(s.TotalOrders)
	}
	return s
}

// TodaySummary captures order volume for a single calendar day.
type TodaySummary struct {
	Orders  int   `json:"orders"`
	Revenue Money `json:"revenue"`
}

// TodayStats counts orders placed on the same calendar day as now, in now's
// location.
func TodayStats(orders []OrderRecord, now time.Time) TodaySummary {
	var s TodaySummary
	year, month, day := now.Date()
	for _, order := range orders {
		oy, om, od := order.CreatedAt.In(now.Location()).Date()
		if oy == year && om == month && od == day {
			s.Orders++
			s.Revenue += order.TotalAmount
		}
	}
	return s
}

// AddonSpend is a per-add-on total for the checkout review breakdown.
type AddonSpend struct {
	Name  string `json:"name"`
	Total Money  `json:"total"`
}

// Breakdown splits a cart into base product spend and per-add-on spend.
type Breakdown struct {
	BaseTotal      Money        `json:"baseTotal"`
	Customizations []AddonSpend `json:"customizations"`
	AddonsTotal    Money        `json:"addonsTotal"`
	GrandTotal     Money        `json:"grandTotal"`
}

// CustomizationBreakdown accumulates base prices and add-on spend by add-on
// name across all lines. Customizations are sorted by name for stable
// rendering.
func CustomizationBreakdown(lines []Line) Breakdown {
	var b Breakdown
	byName := make(map[string]Money)
	for _, line := range lines {
		if line.Qty <= 0 {
			continue
		}
		b.BaseTotal += line.UnitPrice * Money(line.Qty)
		for _, addons := range line.Addons {
			for _, addon := range addons {
				byName[addon.Name] += addon.Price * Money(line.Qty)
			}
		}
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.Customizations = append(b.Customizations, AddonSpend{Name: name, Total: byName[name]})
		b.AddonsTotal += byName[name]
	}
	b.GrandTotal = b.BaseTotal + b.AddonsTotal
	return b
}
