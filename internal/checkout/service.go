// Package checkout turns a cart into a placed order inside one transaction.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resto-labs/backend-resto/internal/events"
	"github.com/resto-labs/backend-resto/internal/order"
	"github.com/resto-labs/backend-resto/internal/pricing"
	"github.com/resto-labs/backend-resto/internal/store"
)

// ErrEmptyCart is returned when checkout finds no cart lines.
var ErrEmptyCart = errors.New("cart is empty")

// ErrUnavailable is returned when a cart line references a product that is no
// longer orderable.
var ErrUnavailable = errors.New("cart contains unavailable products")

// Input is the checkout payload.
type Input struct {
	CustomerName  string     `json:"customerName" validate:"required,min=2,max=120"`
	CustomerFloor *string    `json:"customerFloor" validate:"omitempty,max=40"`
	PaymentMethod string     `json:"paymentMethod" validate:"required,oneof=cash"`
	OrderType     string     `json:"orderType" validate:"required,oneof=now scheduled"`
	DeliveryTime  *time.Time `json:"deliveryTime" validate:"required_if=OrderType scheduled"`
	Notes         *string    `json:"notes" validate:"omitempty,max=500"`
}

// Output is the created order summary.
type Output struct {
	OrderID       string        `json:"orderId"`
	Status        string        `json:"status"`
	PaymentStatus string        `json:"paymentStatus"`
	Subtotal      pricing.Money `json:"subtotal"`
	TotalAmount   pricing.Money `json:"totalAmount"`
}

// Queries is the slice of the store the checkout transaction touches.
type Queries interface {
	ListCartItems(ctx context.Context, customerID uuid.UUID) ([]store.CartItem, error)
	CreateOrder(ctx context.Context, arg store.CreateOrderParams) (store.Order, error)
	CreateOrderItem(ctx context.Context, arg store.CreateOrderItemParams) (uuid.UUID, error)
	ClearCart(ctx context.Context, customerID uuid.UUID) error
}

// TxRunner executes fn inside one database transaction, handing it the
// transactional query set. An error from fn rolls the transaction back.
type TxRunner func(ctx context.Context, fn func(Queries) error) error

// PoolRunner adapts a pgx pool and store to TxRunner.
func PoolRunner(pool *pgxpool.Pool, q *store.Queries) TxRunner {
	return func(ctx context.Context, fn func(Queries) error) error {
		tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
		if err != nil {
			return err
		}
		defer func() {
			_ = tx.Rollback(ctx)
		}()
		if err := fn(q.WithTx(tx)); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}
}

// Service places orders.
type Service struct {
	Tx       TxRunner
	Events   *events.Bus
	Validate *validator.Validate
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create places an order from the customer's cart. Every line total is
// recomputed from the stored menu prices; the cached cart totals are never
// trusted across the checkout boundary.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, in Input) (Output, error) {
	if s == nil || s.Tx == nil {
		return Output{}, errors.New("checkout service not configured")
	}
	if s.Validate != nil {
		if err := s.Validate.Struct(in); err != nil {
			return Output{}, err
		}
	}
	if in.OrderType == "scheduled" && in.DeliveryTime != nil && in.DeliveryTime.Before(s.now()) {
		return Output{}, fmt.Errorf("%w: delivery time is in the past", errBadSchedule)
	}

	var created store.Order
	err := s.Tx(ctx, func(qtx Queries) error {
		items, err := qtx.ListCartItems(ctx, customerID)
		if err != nil {
			return fmt.Errorf("list cart items: %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		var subtotal pricing.Money
		type frozenLine struct {
			item  store.CartItem
			sel   pricing.Selection
			total pricing.Money
		}
		lines := make([]frozenLine, 0, len(items))
		for _, it := range items {
			if !it.ProductAvailable {
				return fmt.Errorf("%w: %s", ErrUnavailable, it.ProductName)
			}
			sel := pricing.ParseSelection(it.SelectedAddons)
			total := pricing.LineTotal(it.BasePrice, int(it.Qty), sel)
			subtotal += total
			lines = append(lines, frozenLine{item: it, sel: sel, total: total})
		}

		created, err = qtx.CreateOrder(ctx, store.CreateOrderParams{
			CustomerID:    customerID,
			CustomerName:  in.CustomerName,
			CustomerFloor: in.CustomerFloor,
			Status:        string(order.StatusPlaced),
			PaymentStatus: string(order.PaymentPending),
			PaymentMethod: in.PaymentMethod,
			OrderType:     in.OrderType,
			DeliveryTime:  in.DeliveryTime,
			Subtotal:      subtotal,
			TotalAmount:   subtotal,
			Notes:         in.Notes,
		})
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, line := range lines {
			if _, err := qtx.CreateOrderItem(ctx, store.CreateOrderItemParams{
				OrderID:             created.ID,
				ProductID:           line.item.ProductID,
				ProductName:         line.item.ProductName,
				Qty:                 line.item.Qty,
				SelectedAddons:      pricing.EncodeSelection(line.sel),
				SpecialInstructions: line.item.SpecialInstructions,
				UnitPrice:           line.item.BasePrice,
				TotalPrice:          line.total,
			}); err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}
		if err := qtx.ClearCart(ctx, customerID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return Output{}, err
	}

	if s.Events != nil {
		_, _ = s.Events.Emit(ctx, events.TopicOrderPlaced, created.ID, map[string]any{
			"orderId":      created.ID.String(),
			"customerId":   customerID.String(),
			"customerName": created.CustomerName,
			"total":        created.TotalAmount,
		})
	}
	return Output{
		OrderID:       created.ID.String(),
		Status:        created.Status,
		PaymentStatus: created.PaymentStatus,
		Subtotal:      created.Subtotal,
		TotalAmount:   created.TotalAmount,
	}, nil
}

var errBadSchedule = errors.New("invalid delivery schedule")
