package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/resto-labs/backend-resto/internal/stats"
	"github.com/resto-labs/backend-resto/internal/store"
)

type stubQueries struct {
	rows      []store.OrderRecordRow
	listCalls int
}

func (s *stubQueries) ListOrderRecords(context.Context) ([]store.OrderRecordRow, error) {
	s.listCalls++
	return s.rows, nil
}

func (s *stubQueries) ListOrderRecordsByCustomer(context.Context, uuid.UUID) ([]store.OrderRecordRow, error) {
	s.listCalls++
	return s.rows, nil
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestDashboardSeedsAllStatuses(t *testing.T) {
	now := time.Now()
	queries := &stubQueries{rows: []store.OrderRecordRow{
		{Status: "placed", PaymentStatus: "pending", TotalAmount: 1000, CreatedAt: now},
		{Status: "placed", PaymentStatus: "paid", TotalAmount: 2000, CreatedAt: now},
		{Status: "finished", PaymentStatus: "paid", TotalAmount: 3000, CreatedAt: now},
	}}
	svc := &stats.Service{Q: queries}

	summary, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if summary.TotalOrders != 3 {
		t.Fatalf("total orders = %d", summary.TotalOrders)
	}
	if summary.TotalRevenue != 6000 {
		t.Fatalf("total revenue = %d", summary.TotalRevenue)
	}
	if summary.PaidRevenue != 5000 || summary.PendingRevenue != 1000 {
		t.Fatalf("paid = %d pending = %d", summary.PaidRevenue, summary.PendingRevenue)
	}
	for _, status := range []string{"placed", "accepted", "rejected", "preparing", "finished"} {
		if _, ok := summary.StatusBreakdown[status]; !ok {
			t.Fatalf("status %q missing from breakdown: %v", status, summary.StatusBreakdown)
		}
	}
	if summary.StatusBreakdown["accepted"] != 0 {
		t.Fatalf("accepted = %d", summary.StatusBreakdown["accepted"])
	}
}

func TestDashboardCached(t *testing.T) {
	queries := &stubQueries{}
	svc := &stats.Service{Q: queries, R: newRedis(t), TTL: time.Minute}

	for i := 0; i < 3; i++ {
		if _, err := svc.Dashboard(context.Background()); err != nil {
			t.Fatalf("dashboard: %v", err)
		}
	}
	if queries.listCalls != 1 {
		t.Fatalf("expected one db hit, got %d", queries.listCalls)
	}
}

func TestTodayFiltersByCalendarDay(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	queries := &stubQueries{rows: []store.OrderRecordRow{
		{Status: "placed", PaymentStatus: "pending", TotalAmount: 500, CreatedAt: now.Add(-2 * time.Hour)},
		{Status: "finished", PaymentStatus: "paid", TotalAmount: 700, CreatedAt: now.AddDate(0, 0, -1)},
	}}
	svc := &stats.Service{Q: queries, Now: func() time.Time { return now }}

	summary, err := svc.Today(context.Background())
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if summary.Orders != 1 {
		t.Fatalf("orders = %d", summary.Orders)
	}
	if summary.Revenue != 500 {
		t.Fatalf("revenue = %d", summary.Revenue)
	}
}

func TestCustomerSummary(t *testing.T) {
	now := time.Now()
	queries := &stubQueries{rows: []store.OrderRecordRow{
		{Status: "finished", PaymentStatus: "paid", TotalAmount: 1000, CreatedAt: now},
		{Status: "finished", PaymentStatus: "paid", TotalAmount: 2000, CreatedAt: now},
		{Status: "placed", PaymentStatus: "pending", TotalAmount: 3000, CreatedAt: now},
	}}
	svc := &stats.Service{Q: queries}

	summary, err := svc.Customer(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("customer: %v", err)
	}
	if summary.TotalSpent != 3000 {
		t.Fatalf("total spent = %d", summary.TotalSpent)
	}
	if summary.PendingPayment != 3000 {
		t.Fatalf("pending = %d", summary.PendingPayment)
	}
	if summary.TotalOrders != 3 || summary.PaidOrders != 2 {
		t.Fatalf("orders = %d paid = %d", summary.TotalOrders, summary.PaidOrders)
	}
	if summary.AverageOrderValue != 1500 {
		t.Fatalf("avg = %d", summary.AverageOrderValue)
	}
}
