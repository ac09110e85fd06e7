package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/resto-labs/backend-resto/internal/common"
	"github.com/resto-labs/backend-resto/internal/order"
	"github.com/resto-labs/backend-resto/internal/pricing"
)

// Worker processes queued notification tasks.
type Worker struct {
	Log      zerolog.Logger
	Email    common.EmailSender
	Staff    string // staff inbox for new-order alerts
	Currency string
}

// Register attaches the worker's handlers to the asynq mux.
func (w *Worker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskOrderPlaced, w.HandleOrderPlaced)
	mux.HandleFunc(TaskOrderStatusChanged, w.HandleStatusChanged)
	mux.HandleFunc(TaskPaymentUpdated, w.HandlePaymentUpdated)
}

// HandleOrderPlaced alerts staff about a new order.
func (w *Worker) HandleOrderPlaced(ctx context.Context, task *asynq.Task) error {
	var payload OrderPlacedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode order placed payload: %w", err)
	}
	w.Log.Info().
		Str("order_id", payload.OrderID).
		Str("customer", payload.CustomerName).
		Int64("total", payload.Total).
		Msg("order placed")
	if w.Email == nil || w.Staff == "" {
		return nil
	}
	subject := fmt.Sprintf("New order from %s", payload.CustomerName)
	body := fmt.Sprintf("<p>Order <b>%s</b> placed by %s for %s.</p>",
		payload.OrderID, payload.CustomerName, pricing.FormatMoney(payload.Total, w.Currency))
	return w.Email.Send(w.Staff, subject, body)
}

// HandleStatusChanged logs a status transition for audit trails.
func (w *Worker) HandleStatusChanged(_ context.Context, task *asynq.Task) error {
	var payload StatusChangedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode status changed payload: %w", err)
	}
	w.Log.Info().
		Str("order_id", payload.OrderID).
		Str("from", payload.From).
		Str("to", payload.To).
		Str("label", order.Status(payload.To).Label()).
		Msg("order status changed")
	return nil
}

// HandlePaymentUpdated logs a payment status change.
func (w *Worker) HandlePaymentUpdated(_ context.Context, task *asynq.Task) error {
	var payload PaymentUpdatedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode payment updated payload: %w", err)
	}
	w.Log.Info().
		Str("order_id", payload.OrderID).
		Str("payment_status", payload.PaymentStatus).
		Msg("order payment updated")
	return nil
}
