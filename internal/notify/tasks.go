// Package notify turns domain events into queued notification tasks and
// processes them on the worker.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type names registered with asynq.
const (
	TaskOrderPlaced        = "notify:order_placed"
	TaskOrderStatusChanged = "notify:order_status_changed"
	TaskPaymentUpdated     = "notify:payment_updated"
)

// OrderPlacedPayload carries the data needed to notify staff of a new order.
type OrderPlacedPayload struct {
	OrderID      string `json:"orderId"`
	CustomerID   string `json:"customerId"`
	CustomerName string `json:"customerName"`
	Total        int64  `json:"total"`
}

// StatusChangedPayload carries a status transition notification.
type StatusChangedPayload struct {
	OrderID string `json:"orderId"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// PaymentUpdatedPayload carries a payment status notification.
type PaymentUpdatedPayload struct {
	OrderID       string `json:"orderId"`
	PaymentStatus string `json:"paymentStatus"`
}

// NewTask builds an asynq task with a JSON payload.
func NewTask(taskType string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("notify: encode %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data), nil
}
