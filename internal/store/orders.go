package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const orderColumns = `
id, customer_id, customer_name, customer_floor, status, payment_status, payment_method,
order_type, delivery_time, subtotal, total_amount, notes, created_at, updated_at`

// CreateOrderParams carries a new order header. Subtotal and TotalAmount are
// recomputed server side before insert and must agree.
type CreateOrderParams struct {
	CustomerID    uuid.UUID
	CustomerName  string
	CustomerFloor *string
	Status        string
	PaymentStatus string
	PaymentMethod string
	OrderType     string
	DeliveryTime  *time.Time
	Subtotal      int64
	TotalAmount   int64
	Notes         *string
}

const createOrder = `
INSERT INTO orders (customer_id, customer_name, customer_floor, status, payment_status, payment_method,
                    order_type, delivery_time, subtotal, total_amount, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + orderColumns

// CreateOrder inserts an order header and returns the stored row.
func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.CustomerID, arg.CustomerName, arg.CustomerFloor, arg.Status, arg.PaymentStatus, arg.PaymentMethod,
		arg.OrderType, arg.DeliveryTime, arg.Subtotal, arg.TotalAmount, arg.Notes,
	)
	return scanOrder(row)
}

// CreateOrderItemParams carries one frozen order line.
type CreateOrderItemParams struct {
	OrderID             uuid.UUID
	ProductID           uuid.UUID
	ProductName         string
	Qty                 int32
	SelectedAddons      string
	SpecialInstructions *string
	UnitPrice           int64
	TotalPrice          int64
}

const createOrderItem = `
INSERT INTO order_items (order_id, product_id, product_name, qty, selected_addons, special_instructions, unit_price, total_price)
VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7, $8)
RETURNING id`

// CreateOrderItem inserts one order line and returns its id.
func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.ProductID, arg.ProductName, arg.Qty, arg.SelectedAddons, arg.SpecialInstructions, arg.UnitPrice, arg.TotalPrice,
	).Scan(&id)
	return id, err
}

const getOrder = `
SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

// GetOrder loads one order by id.
func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := scanOrder(q.db.QueryRow(ctx, getOrder, id))
	if err != nil {
		return Order{}, mapRowErr(err)
	}
	return o, nil
}

const getOrderForCustomer = `
SELECT ` + orderColumns + ` FROM orders WHERE id = $1 AND customer_id = $2`

// GetOrderForCustomer loads one order scoped to its owner.
func (q *Queries) GetOrderForCustomer(ctx context.Context, id, customerID uuid.UUID) (Order, error) {
	o, err := scanOrder(q.db.QueryRow(ctx, getOrderForCustomer, id, customerID))
	if err != nil {
		return Order{}, mapRowErr(err)
	}
	return o, nil
}

const listOrdersByCustomer = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

// ListOrdersByCustomer pages the customer's order history, newest first.
func (q *Queries) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int32) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByCustomer, customerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

const countOrdersByCustomer = `
SELECT count(*) FROM orders WHERE customer_id = $1`

func (q *Queries) CountOrdersByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countOrdersByCustomer, customerID).Scan(&n)
	return n, err
}

// ListOrdersParams filters the admin order listing.
type ListOrdersParams struct {
	Status *string
	Limit  int32
	Offset int32
}

const listOrders = `
SELECT ` + orderColumns + `
FROM orders
WHERE ($1::text IS NULL OR status = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

// ListOrders pages all orders for the admin board, optionally by status.
func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

const countOrders = `
SELECT count(*) FROM orders WHERE ($1::text IS NULL OR status = $1)`

func (q *Queries) CountOrders(ctx context.Context, status *string) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countOrders, status).Scan(&n)
	return n, err
}

const listOrderItems = `
SELECT id, order_id, product_id, product_name, qty, selected_addons, special_instructions, unit_price, total_price
FROM order_items
WHERE order_id = $1
ORDER BY id`

// ListOrderItems returns the frozen lines of one order.
func (q *Queries) ListOrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Qty, &it.SelectedAddons, &it.SpecialInstructions, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// OrderRecordRow is the slim projection the stats services aggregate over.
type OrderRecordRow struct {
	Status        string
	PaymentStatus string
	TotalAmount   int64
	CreatedAt     time.Time
}

const listOrderRecords = `
SELECT status, payment_status, total_amount, created_at FROM orders`

// ListOrderRecords streams every order's aggregation fields.
func (q *Queries) ListOrderRecords(ctx context.Context) ([]OrderRecordRow, error) {
	rows, err := q.db.Query(ctx, listOrderRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrderRecords(rows)
}

const listOrderRecordsByCustomer = `
SELECT status, payment_status, total_amount, created_at FROM orders WHERE customer_id = $1`

// ListOrderRecordsByCustomer returns one customer's aggregation fields.
func (q *Queries) ListOrderRecordsByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderRecordRow, error) {
	rows, err := q.db.Query(ctx, listOrderRecordsByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrderRecords(rows)
}

const updateOrderStatus = `
UPDATE orders SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

// UpdateOrderStatus sets an order's status. Transition legality is the
// service's job; the query only persists.
func (q *Queries) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (Order, error) {
	o, err := scanOrder(q.db.QueryRow(ctx, updateOrderStatus, id, status))
	if err != nil {
		return Order{}, mapRowErr(err)
	}
	return o, nil
}

const updatePaymentStatus = `
UPDATE orders SET payment_status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns

// UpdatePaymentStatus sets an order's payment status.
func (q *Queries) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) (Order, error) {
	o, err := scanOrder(q.db.QueryRow(ctx, updatePaymentStatus, id, paymentStatus))
	if err != nil {
		return Order{}, mapRowErr(err)
	}
	return o, nil
}

type orderRowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row orderRowScanner) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerFloor, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.OrderType, &o.DeliveryTime, &o.Subtotal, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func collectOrders(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Order, error) {
	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.CustomerID, &o.CustomerName, &o.CustomerFloor, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
			&o.OrderType, &o.DeliveryTime, &o.Subtotal, &o.TotalAmount, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func collectOrderRecords(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]OrderRecordRow, error) {
	var out []OrderRecordRow
	for rows.Next() {
		var r OrderRecordRow
		if err := rows.Scan(&r.Status, &r.PaymentStatus, &r.TotalAmount, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
