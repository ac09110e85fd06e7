// Package stats aggregates orders into customer and dashboard summaries,
// with short-lived Redis caching in front of the order table.
package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/resto-labs/backend-resto/internal/order"
	"github.com/resto-labs/backend-resto/internal/pricing"
	"github.com/resto-labs/backend-resto/internal/store"
)

// Querier defines the database access required for stats operations.
type Querier interface {
	ListOrderRecords(ctx context.Context) ([]store.OrderRecordRow, error)
	ListOrderRecordsByCustomer(ctx context.Context, customerID uuid.UUID) ([]store.OrderRecordRow, error)
}

// Service provides cached order aggregates.
type Service struct {
	Q   Querier
	R   *redis.Client
	TTL time.Duration
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

// Dashboard aggregates every order into the admin dashboard summary. The
// status breakdown is pre-seeded with every known status so quiet statuses
// render as zero instead of disappearing.
func (s *Service) Dashboard(ctx context.Context) (pricing.DashboardSummary, error) {
	if s == nil || s.Q == nil {
		return pricing.DashboardSummary{}, fmt.Errorf("stats service not configured")
	}
	key := cacheKey("stats", "dashboard")
	var cached pricing.DashboardSummary
	if s.getFromCache(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.ListOrderRecords(ctx)
	if err != nil {
		return pricing.DashboardSummary{}, err
	}
	summary := pricing.DashboardStats(toRecords(rows), order.AllStatuses()...)
	s.store(ctx, key, summary)
	return summary, nil
}

// Today aggregates orders created on the current calendar day.
func (s *Service) Today(ctx context.Context) (pricing.TodaySummary, error) {
	if s == nil || s.Q == nil {
		return pricing.TodaySummary{}, fmt.Errorf("stats service not configured")
	}
	now := s.now()
	key := cacheKey("stats", "today", now.Format("2006-01-02"))
	var cached pricing.TodaySummary
	if s.getFromCache(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.ListOrderRecords(ctx)
	if err != nil {
		return pricing.TodaySummary{}, err
	}
	summary := pricing.TodayStats(toRecords(rows), now)
	s.store(ctx, key, summary)
	return summary, nil
}

// Customer aggregates one customer's order history.
func (s *Service) Customer(ctx context.Context, customerID uuid.UUID) (pricing.CustomerSummary, error) {
	if s == nil || s.Q == nil {
		return pricing.CustomerSummary{}, fmt.Errorf("stats service not configured")
	}
	key := cacheKey("stats", "customer", customerID.String())
	var cached pricing.CustomerSummary
	if s.getFromCache(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.ListOrderRecordsByCustomer(ctx, customerID)
	if err != nil {
		return pricing.CustomerSummary{}, err
	}
	summary := pricing.CustomerStats(toRecords(rows))
	s.store(ctx, key, summary)
	return summary, nil
}

func toRecords(rows []store.OrderRecordRow) []pricing.OrderRecord {
	records := make([]pricing.OrderRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, pricing.OrderRecord{
			Status:        row.Status,
			PaymentStatus: row.PaymentStatus,
			TotalAmount:   row.TotalAmount,
			CreatedAt:     row.CreatedAt,
		})
	}
	return records
}

func (s *Service) getFromCache(ctx context.Context, key string, dst any) bool {
	if s.R == nil || s.TTL <= 0 {
		return false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false
	}
	return true
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}
