package store

import (
	"context"

	"github.com/google/uuid"
)

const listCategories = `
SELECT id, name, description, sort_order, is_active
FROM categories
WHERE is_active
ORDER BY sort_order, name`

// ListCategories returns active menu categories in display order.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.SortOrder, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const listProducts = `
SELECT id, category_id, name, description, base_price, is_available, preparation_min, sort_order, created_at, updated_at
FROM products
WHERE ($1::uuid IS NULL OR category_id = $1)
  AND (NOT $2::bool OR is_available)
ORDER BY sort_order, name`

// ListProductsParams filters the product listing.
type ListProductsParams struct {
	CategoryID    *uuid.UUID
	AvailableOnly bool
}

// ListProducts returns menu products, optionally narrowed to a category or to
// available items only.
func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, listProducts, arg.CategoryID, arg.AvailableOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.BasePrice, &p.IsAvailable, &p.PreparationMin, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const getProduct = `
SELECT id, category_id, name, description, base_price, is_available, preparation_min, sort_order, created_at, updated_at
FROM products
WHERE id = $1`

// GetProduct loads one product by id.
func (q *Queries) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	var p Product
	err := q.db.QueryRow(ctx, getProduct, id).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.Description, &p.BasePrice, &p.IsAvailable, &p.PreparationMin, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, mapRowErr(err)
	}
	return p, nil
}

const listAddonGroups = `
SELECT id, product_id, name, kind, is_required, min_selections, max_selections, sort_order, is_active
FROM addon_groups
WHERE product_id = $1 AND is_active
ORDER BY sort_order, name`

// ListAddonGroups returns the active add-on groups for a product.
func (q *Queries) ListAddonGroups(ctx context.Context, productID uuid.UUID) ([]AddonGroup, error) {
	rows, err := q.db.Query(ctx, listAddonGroups, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AddonGroup
	for rows.Next() {
		var g AddonGroup
		if err := rows.Scan(&g.ID, &g.ProductID, &g.Name, &g.Kind, &g.IsRequired, &g.MinSelections, &g.MaxSelections, &g.SortOrder, &g.IsActive); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

const listAddonsForProduct = `
SELECT a.id, a.group_id, a.name, a.price, a.is_default, a.is_available, a.sort_order
FROM addons a
JOIN addon_groups g ON g.id = a.group_id
WHERE g.product_id = $1 AND g.is_active
ORDER BY a.sort_order, a.name`

// ListAddonsForProduct returns every add-on attached to a product's active
// groups, available or not (handlers decide what to render).
func (q *Queries) ListAddonsForProduct(ctx context.Context, productID uuid.UUID) ([]Addon, error) {
	rows, err := q.db.Query(ctx, listAddonsForProduct, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAddons(rows)
}

const listAddonsByIDs = `
SELECT a.id, a.group_id, a.name, a.price, a.is_default, a.is_available, a.sort_order
FROM addons a
WHERE a.id = ANY($1)`

// ListAddonsByIDs resolves the authoritative add-on rows for a selection.
func (q *Queries) ListAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]Addon, error) {
	rows, err := q.db.Query(ctx, listAddonsByIDs, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAddons(rows)
}

func scanAddons(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]Addon, error) {
	var out []Addon
	for rows.Next() {
		var a Addon
		if err := rows.Scan(&a.ID, &a.GroupID, &a.Name, &a.Price, &a.IsDefault, &a.IsAvailable, &a.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
