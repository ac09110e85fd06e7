package pricing

import (
	"testing"
	"time"
)

func TestOrderStatsEmpty(t *testing.T) {
	s := OrderStats(nil)
	if s.TotalItems != 0 || s.TotalAmount != 0 || s.UniqueProducts != 0 || s.AverageItemPrice != 0 {
		t.Fatalf("empty order stats should be all zero, got %+v", s)
	}
}

func TestOrderStats(t *testing.T) {
	items := []OrderLine{
		{ProductID: "p1", Qty: 2, TotalPrice: 1200},
		{ProductID: "p2", Qty: 1, TotalPrice: 350},
		{ProductID: "p1", Qty: 1, TotalPrice: 600},
	}
	s := OrderStats(items)
	if s.TotalItems != 4 {
		t.Fatalf("expected 4 items, got %d", s.TotalItems)
	}
	if s.TotalAmount != 2150 {
		t.Fatalf("expected amount 2150, got %d", s.TotalAmount)
	}
	if s.UniqueProducts != 2 {
		t.Fatalf("expected 2 unique products, got %d", s.UniqueProducts)
	}
	if s.AverageItemPrice != 537 {
		t.Fatalf("expected average 537, got %d", s.AverageItemPrice)
	}
}

func TestCustomerStats(t *testing.T) {
	orders := []OrderRecord{
		{Status: "finished", PaymentStatus: "paid", TotalAmount: 1000},
		{Status: "finished", PaymentStatus: "paid", TotalAmount: 2000},
		{Status: "placed", PaymentStatus: "pending", TotalAmount: 3000},
	}
	s := CustomerStats(orders)
	if s.TotalSpent != 3000 {
		t.Fatalf("totalSpent = %d, want 3000", s.TotalSpent)
	}
	if s.PendingPayment != 3000 {
		t.Fatalf("pendingPayment = %d, want 3000", s.PendingPayment)
	}
	if s.TotalOrders != 3 || s.PaidOrders != 2 {
		t.Fatalf("order counts wrong: %+v", s)
	}
	if s.AverageOrderValue != 1500 {
		t.Fatalf("averageOrderValue = %d, want 1500", s.AverageOrderValue)
	}
}

func TestCustomerStatsEmpty(t *testing.T) {
	s := CustomerStats(nil)
	if s.AverageOrderValue != 0 || s.TotalSpent != 0 || s.TotalOrders != 0 {
		t.Fatalf("expected zero stats, got %+v", s)
	}
}

func TestDashboardStatsSeeded(t *testing.T) {
	orders := []OrderRecord{
		{Status: "placed", PaymentStatus: "pending", TotalAmount: 1000},
		{Status: "placed", PaymentStatus: "paid", TotalAmount: 2000},
		{Status: "finished", PaymentStatus: "paid", TotalAmount: 3000},
	}
	s := DashboardStats(orders, "placed", "accepted", "rejected", "preparing", "finished")
	if s.TotalOrders != 3 {
		t.Fatalf("totalOrders = %d", s.TotalOrders)
	}
	if s.TotalRevenue != 6000 {
		t.Fatalf("totalRevenue = %d, want 6000 (all orders regardless of payment)", s.TotalRevenue)
	}
	if s.PaidRevenue != 5000 || s.PendingRevenue != 1000 {
		t.Fatalf("revenue split wrong: %+v", s)
	}
	if s.AverageOrderValue != 2000 {
		t.Fatalf("averageOrderValue = %d, want 2000", s.AverageOrderValue)
	}
	want := map[string]int{"placed": 2, "accepted": 0, "rejected": 0, "preparing": 0, "finished": 1}
	for status, count := range want {
		if s.StatusBreakdown[status] != count {
			t.Fatalf("statusBreakdown[%s] = %d, want %d", status, s.StatusBreakdown[status], count)
		}
	}
	if len(s.StatusBreakdown) != len(want) {
		t.Fatalf("unexpected breakdown keys: %v", s.StatusBreakdown)
	}
	if s.PaymentBreakdown["paid"] != 2 || s.PaymentBreakdown["pending"] != 1 {
		t.Fatalf("paymentBreakdown wrong: %v", s.PaymentBreakdown)
	}
}

func TestDashboardStatsUnseededOmitsAbsent(t *testing.T) {
	s := DashboardStats([]OrderRecord{{Status: "placed", PaymentStatus: "pending", TotalAmount: 100}})
	if _, ok := s.StatusBreakdown["finished"]; ok {
		t.Fatal("unseen statuses must be absent when not seeded")
	}
	// Unknown labels are counted as-is, never rejected.
	s = DashboardStats([]OrderRecord{{Status: "mystery", PaymentStatus: "pending", TotalAmount: 100}})
	if s.StatusBreakdown["mystery"] != 1 {
		t.Fatalf("unknown status should still be counted, got %v", s.StatusBreakdown)
	}
}

func TestTodayStats(t *testing.T) {
	now := time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)
	orders := []OrderRecord{
		{TotalAmount: 1000, CreatedAt: now.Add(-2 * time.Hour)},
		{TotalAmount: 2000, CreatedAt: now.Add(-26 * time.Hour)},
		{TotalAmount: 500, CreatedAt: now.Add(30 * time.Minute)},
	}
	s := TodayStats(orders, now)
	if s.Orders != 2 || s.Revenue != 1500 {
		t.Fatalf("today stats wrong: %+v", s)
	}
}

func TestCustomizationBreakdown(t *testing.T) {
	lines := []Line{
		{
			ProductID: "p1", Qty: 2, UnitPrice: 500,
			Addons:    Selection{"toppings": {{AddonID: "b", Name: "Cheese", Price: 50}}},
			ItemTotal: 1100,
		},
		{
			ProductID: "p2", Qty: 1, UnitPrice: 350,
			Addons:    Selection{"toppings": {{AddonID: "b", Name: "Cheese", Price: 50}}, "size": {{AddonID: "a", Name: "Large", Price: 150}}},
			ItemTotal: 550,
		},
		{ProductID: "p3", Qty: 0, UnitPrice: 9999},
	}
	b := CustomizationBreakdown(lines)
	if b.BaseTotal != 1350 {
		t.Fatalf("baseTotal = %d, want 1350", b.BaseTotal)
	}
	if len(b.Customizations) != 2 {
		t.Fatalf("expected 2 customizations, got %+v", b.Customizations)
	}
	// Sorted by name: Cheese before Large.
	if b.Customizations[0].Name != "Cheese" || b.Customizations[0].Total != 150 {
		t.Fatalf("cheese rollup wrong: %+v", b.Customizations[0])
	}
	if b.Customizations[1].Name != "Large" || b.Customizations[1].Total != 150 {
		t.Fatalf("large rollup wrong: %+v", b.Customizations[1])
	}
	if b.AddonsTotal != 300 || b.GrandTotal != 1650 {
		t.Fatalf("totals wrong: %+v", b)
	}
}
