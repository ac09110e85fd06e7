package store

import (
	"context"

	"github.com/google/uuid"
)

const cartItemColumns = `
ci.id, ci.customer_id, ci.product_id, p.name, p.base_price, p.is_available,
ci.qty, ci.selected_addons, ci.special_instructions, ci.item_total, ci.created_at, ci.updated_at`

const listCartItems = `
SELECT ` + cartItemColumns + `
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.customer_id = $1
ORDER BY ci.created_at`

// ListCartItems returns the customer's cart lines joined with product data.
func (q *Queries) ListCartItems(ctx context.Context, customerID uuid.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(ctx, listCartItems, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CartItem
	for rows.Next() {
		ci, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

const findCartItemsByProduct = `
SELECT ` + cartItemColumns + `
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.customer_id = $1 AND ci.product_id = $2
ORDER BY ci.created_at`

// FindCartItemsByProduct returns the customer's lines for one product so the
// service can match an incoming selection against existing lines.
func (q *Queries) FindCartItemsByProduct(ctx context.Context, customerID, productID uuid.UUID) ([]CartItem, error) {
	rows, err := q.db.Query(ctx, findCartItemsByProduct, customerID, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CartItem
	for rows.Next() {
		ci, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ci)
	}
	return out, rows.Err()
}

const getCartItem = `
SELECT ` + cartItemColumns + `
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.id = $1 AND ci.customer_id = $2`

// GetCartItem loads one cart line scoped to its owner.
func (q *Queries) GetCartItem(ctx context.Context, id, customerID uuid.UUID) (CartItem, error) {
	row := q.db.QueryRow(ctx, getCartItem, id, customerID)
	ci, err := scanCartItem(row)
	if err != nil {
		return CartItem{}, mapRowErr(err)
	}
	return ci, nil
}

// CreateCartItemParams carries a new cart line. SelectedAddons is canonical
// selection JSON and ItemTotal the precomputed line total.
type CreateCartItemParams struct {
	CustomerID          uuid.UUID
	ProductID           uuid.UUID
	Qty                 int32
	SelectedAddons      string
	SpecialInstructions *string
	ItemTotal           int64
}

const createCartItem = `
INSERT INTO cart_items (customer_id, product_id, qty, selected_addons, special_instructions, item_total)
VALUES ($1, $2, $3, $4::jsonb, $5, $6)
RETURNING id`

// CreateCartItem inserts a cart line and returns its id.
func (q *Queries) CreateCartItem(ctx context.Context, arg CreateCartItemParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, createCartItem,
		arg.CustomerID, arg.ProductID, arg.Qty, arg.SelectedAddons, arg.SpecialInstructions, arg.ItemTotal,
	).Scan(&id)
	return id, err
}

// UpdateCartItemQtyParams updates a line's quantity and cached total.
type UpdateCartItemQtyParams struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Qty        int32
	ItemTotal  int64
}

const updateCartItemQty = `
UPDATE cart_items
SET qty = $3, item_total = $4, updated_at = now()
WHERE id = $1 AND customer_id = $2`

// UpdateCartItemQty sets a line's quantity and recomputed total.
func (q *Queries) UpdateCartItemQty(ctx context.Context, arg UpdateCartItemQtyParams) error {
	tag, err := q.db.Exec(ctx, updateCartItemQty, arg.ID, arg.CustomerID, arg.Qty, arg.ItemTotal)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const deleteCartItem = `
DELETE FROM cart_items WHERE id = $1 AND customer_id = $2`

// DeleteCartItem removes one line from the customer's cart.
func (q *Queries) DeleteCartItem(ctx context.Context, id, customerID uuid.UUID) error {
	tag, err := q.db.Exec(ctx, deleteCartItem, id, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const clearCart = `
DELETE FROM cart_items WHERE customer_id = $1`

// ClearCart empties the customer's cart.
func (q *Queries) ClearCart(ctx context.Context, customerID uuid.UUID) error {
	_, err := q.db.Exec(ctx, clearCart, customerID)
	return err
}

type cartRowScanner interface {
	Scan(dest ...any) error
}

func scanCartItem(row cartRowScanner) (CartItem, error) {
	var ci CartItem
	err := row.Scan(
		&ci.ID, &ci.CustomerID, &ci.ProductID, &ci.ProductName, &ci.BasePrice, &ci.ProductAvailable,
		&ci.Qty, &ci.SelectedAddons, &ci.SpecialInstructions, &ci.ItemTotal, &ci.CreatedAt, &ci.UpdatedAt,
	)
	return ci, err
}
